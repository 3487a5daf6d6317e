package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"go-library-lending/internal/apperror"
	"go-library-lending/internal/domain"
)

// 对外文案,HTTP 契约与测试都依赖这些原文,改动需同步。
const (
	msgBorrowed        = "Book borrowed successfully"
	msgReturned        = "Book returned successfully"
	msgBorrowedBySelf  = "Book is already borrowed by this user"
	msgBorrowedByOther = "Book is already borrowed by someone else"
	msgNotBorrowed     = "This book is not currently borrowed by this user"
	msgUserNotFound    = "User not found"
	msgBookNotFound    = "Book not found"
)

// LendingService 借还业务,三个仓储由构造函数注入。
type LendingService struct {
	users domain.UserRepository
	books domain.BookRepository
	loans domain.LoanRepository
	log   *zap.Logger
}

func NewLendingService(users domain.UserRepository, books domain.BookRepository, loans domain.LoanRepository, log *zap.Logger) *LendingService {
	return &LendingService{users: users, books: books, loans: loans, log: log}
}

func (s *LendingService) CreateUser(ctx context.Context, name string) (*domain.User, error) {
	u := &domain.User{Name: name}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, apperror.Persistence(err)
	}
	s.log.Info("user created", zap.Uint("id", u.ID), zap.String("name", u.Name))
	return u, nil
}

func (s *LendingService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return users, nil
}

func (s *LendingService) CreateBook(ctx context.Context, name string) (*domain.Book, error) {
	b := &domain.Book{Name: name}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, apperror.Persistence(err)
	}
	s.log.Info("book created", zap.Uint("id", b.ID), zap.String("name", b.Name))
	return b, nil
}

func (s *LendingService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return books, nil
}

// BorrowBook 借书。整本书同一时刻只允许一条在借记录;
// 冲突检查与写入之间没有事务保护,并发借同一本书时可能双双通过检查。
func (s *LendingService) BorrowBook(ctx context.Context, userID, bookID uint) (string, error) {
	if err := s.checkExists(ctx, userID, bookID); err != nil {
		return "", err
	}

	open, err := s.loans.FindOpenByBook(ctx, bookID)
	if err != nil {
		return "", apperror.Persistence(err)
	}
	if open != nil {
		if open.UserID == userID {
			return "", apperror.Conflict(msgBorrowedBySelf)
		}
		return "", apperror.Conflict(msgBorrowedByOther)
	}

	// 同一 (user, book) 只保留一行:还过再借复用旧行并清零评分
	existing, err := s.loans.FindByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return "", apperror.Persistence(err)
	}
	if existing != nil {
		existing.Status = domain.LoanOpen
		existing.Score = 0
		if err := s.loans.Save(ctx, existing); err != nil {
			return "", apperror.Persistence(err)
		}
	} else {
		l := &domain.Loan{UserID: userID, BookID: bookID, Status: domain.LoanOpen}
		if err := s.loans.Create(ctx, l); err != nil {
			return "", apperror.Persistence(err)
		}
	}

	s.log.Info("book borrowed", zap.Uint("userId", userID), zap.Uint("bookId", bookID))
	return msgBorrowed, nil
}

// ReturnBook 还书并记录评分,评分范围不做校验。
func (s *LendingService) ReturnBook(ctx context.Context, userID, bookID uint, score int) (string, error) {
	if err := s.checkExists(ctx, userID, bookID); err != nil {
		return "", err
	}

	l, err := s.loans.FindByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return "", apperror.Persistence(err)
	}
	if l == nil || l.Status != domain.LoanOpen {
		return "", apperror.InvalidState(msgNotBorrowed)
	}

	l.Status = domain.LoanClosed
	l.Score = score
	if err := s.loans.Save(ctx, l); err != nil {
		return "", apperror.Persistence(err)
	}

	s.log.Info("book returned", zap.Uint("userId", userID), zap.Uint("bookId", bookID), zap.Int("score", score))
	return msgReturned, nil
}

// GetUserWithLoans 返回读者与借阅史,按在借/已还拆分。
func (s *LendingService) GetUserWithLoans(ctx context.Context, userID uint) (*domain.UserWithBooks, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if u == nil {
		return nil, apperror.NotFound(msgUserNotFound)
	}

	loans, err := s.loans.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}

	view := &domain.UserWithBooks{
		ID:   u.ID,
		Name: u.Name,
		Books: domain.UserBooks{
			Past:    make([]domain.ReturnedBook, 0),
			Present: make([]domain.BorrowedBook, 0),
		},
	}
	for _, l := range loans {
		if l.Status == domain.LoanOpen {
			view.Books.Present = append(view.Books.Present, domain.BorrowedBook{Name: l.Book.Name})
		} else {
			view.Books.Past = append(view.Books.Past, domain.ReturnedBook{Name: l.Book.Name, UserScore: l.Score})
		}
	}
	return view, nil
}

// GetBookWithAverageScore 返回书与平均评分,评分读取时现算。
func (s *LendingService) GetBookWithAverageScore(ctx context.Context, bookID uint) (*domain.BookWithScore, error) {
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	if b == nil {
		return nil, apperror.NotFound(msgBookNotFound)
	}

	loans, err := s.loans.ListByBook(ctx, bookID)
	if err != nil {
		return nil, apperror.Persistence(err)
	}
	return &domain.BookWithScore{ID: b.ID, Name: b.Name, Score: averageScore(loans)}, nil
}

// checkExists 借还共用的存在性前置检查。
func (s *LendingService) checkExists(ctx context.Context, userID, bookID uint) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperror.Persistence(err)
	}
	if u == nil {
		return apperror.NotFound(msgUserNotFound)
	}
	b, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return apperror.Persistence(err)
	}
	if b == nil {
		return apperror.NotFound(msgBookNotFound)
	}
	return nil
}

// averageScore 对该书全部借阅记录求平均:在借记录按 0 分计入;
// 总分恰为 0 时返回 -1 哨兵,表示没有可用评分。
func averageScore(loans []domain.Loan) float64 {
	total := 0
	for _, l := range loans {
		total += l.Score
	}
	if total == 0 {
		return domain.NoScore
	}
	return math.Round(float64(total)/float64(len(loans))*100) / 100
}
