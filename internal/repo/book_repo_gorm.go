package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-library-lending/internal/domain"
)

type BookRepo struct{ db *gorm.DB }

func NewBookRepo(db *gorm.DB) *BookRepo { return &BookRepo{db: db} }

func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookRepo) FindByID(ctx context.Context, id uint) (*domain.Book, error) {
	var b domain.Book
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

func (r *BookRepo) List(ctx context.Context) ([]domain.Book, error) {
	books := make([]domain.Book, 0)
	err := r.db.WithContext(ctx).Order("id").Find(&books).Error
	return books, err
}
