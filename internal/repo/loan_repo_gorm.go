package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-library-lending/internal/domain"
)

type LoanRepo struct{ db *gorm.DB }

func NewLoanRepo(db *gorm.DB) *LoanRepo { return &LoanRepo{db: db} }

// Create / Save 均忽略关联字段，避免误写 users/books 表。
func (r *LoanRepo) Create(ctx context.Context, l *domain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

func (r *LoanRepo) Save(ctx context.Context, l *domain.Loan) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(l).Error
}

// FindOpenByBook 查某本书当前未归还的借阅记录，没有则返回 nil。
func (r *LoanRepo) FindOpenByBook(ctx context.Context, bookID uint) (*domain.Loan, error) {
	var l domain.Loan
	err := r.db.WithContext(ctx).
		Where("book_id = ? AND status = ?", bookID, domain.LoanOpen).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *LoanRepo) FindByUserAndBook(ctx context.Context, userID, bookID uint) (*domain.Loan, error) {
	var l domain.Loan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &l, err
}

func (r *LoanRepo) ListByUser(ctx context.Context, userID uint) ([]domain.Loan, error) {
	loans := make([]domain.Loan, 0)
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("id").
		Find(&loans).Error
	return loans, err
}

func (r *LoanRepo) ListByBook(ctx context.Context, bookID uint) ([]domain.Loan, error) {
	loans := make([]domain.Loan, 0)
	err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("id").
		Find(&loans).Error
	return loans, err
}
