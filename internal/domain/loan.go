package domain

import (
	"context"
	"time"
)

// LoanStatus 借阅关联的两种状态：借出中 / 已归还。
type LoanStatus string

const (
	LoanOpen   LoanStatus = "OPEN"
	LoanClosed LoanStatus = "CLOSED"
)

// Loan 用户与书的借阅关联（多对多的连接表，带状态）。
// 同一 (user, book) 组合至多一行：再次借阅复用原行（状态翻回 OPEN、评分清零），
// 只有首次借阅才插入新行。行从不删除。
type Loan struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID uint       `gorm:"not null;uniqueIndex:idx_loans_user_book" json:"userId"`
	BookID uint       `gorm:"not null;uniqueIndex:idx_loans_user_book;index" json:"bookId"`
	Score  int        `gorm:"not null;default:0" json:"userScore"`
	Status LoanStatus `gorm:"size:16;not null;index" json:"status"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Book Book `gorm:"foreignKey:BookID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type LoanRepository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	// FindOpenByBook 返回该书当前唯一的在借记录，没有则 (nil, nil)。
	FindOpenByBook(ctx context.Context, bookID uint) (*Loan, error)
	// FindByUserAndBook 返回该组合的关联行（不论状态），没有则 (nil, nil)。
	FindByUserAndBook(ctx context.Context, userID, bookID uint) (*Loan, error)
	// ListByUser 预加载 Book，按 ID 升序。
	ListByUser(ctx context.Context, userID uint) ([]Loan, error)
	ListByBook(ctx context.Context, bookID uint) ([]Loan, error)
}
