package domain

import (
	"context"
	"time"
)

// Book 馆藏书目。每本书只有一册在流通（见 Loan）。
// 平均评分不落库，读取时由关联借阅记录现算。
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

type BookRepository interface {
	Create(ctx context.Context, b *Book) error
	FindByID(ctx context.Context, id uint) (*Book, error)
	List(ctx context.Context) ([]Book, error)
}
