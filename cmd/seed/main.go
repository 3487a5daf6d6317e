package main

import (
	"context"
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-library-lending/internal/core/config"
	"go-library-lending/internal/core/database"
	"go-library-lending/internal/core/logger"
	"go-library-lending/internal/domain"
	"go-library-lending/internal/repo"
	"go-library-lending/internal/service"
)

// 重建数据库并灌一份演示数据，全部走服务层。
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// sqlite 单文件库连同 -shm/-wal 一起清掉再重建
	if cfg.DB.Driver == "" || cfg.DB.Driver == "sqlite" {
		for _, f := range []string{cfg.DB.DSN, cfg.DB.DSN + "-shm", cfg.DB.DSN + "-wal"} {
			if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
				log.Warn("remove old database file", zap.String("file", f), zap.Error(err))
			}
		}
	}

	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	}, log)
	if err != nil {
		log.Fatal("db open", zap.Error(err))
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.Loan{}); err != nil {
		log.Fatal("automigrate failed", zap.Error(err))
	}

	svc := service.NewLendingService(repo.NewUserRepo(db), repo.NewBookRepo(db), repo.NewLoanRepo(db), log)
	ctx := context.Background()

	readers := []string{"Alice", "Bob", "Charlie"}
	titles := []string{
		"Dune",
		"The Fellowship of the Ring",
		"1984",
		"Animal Farm",
		"The Art of War",
	}

	var userIDs []uint
	for _, name := range readers {
		u, err := svc.CreateUser(ctx, name)
		if err != nil {
			log.Fatal("seed user", zap.String("name", name), zap.Error(err))
		}
		userIDs = append(userIDs, u.ID)
	}

	var bookIDs []uint
	for _, title := range titles {
		b, err := svc.CreateBook(ctx, title)
		if err != nil {
			log.Fatal("seed book", zap.String("name", title), zap.Error(err))
		}
		bookIDs = append(bookIDs, b.ID)
	}

	// 借一还一再转借，演示库里就有评分和在借数据
	if _, err := svc.BorrowBook(ctx, userIDs[0], bookIDs[0]); err != nil {
		log.Fatal("seed borrow", zap.Error(err))
	}
	if _, err := svc.ReturnBook(ctx, userIDs[0], bookIDs[0], 4); err != nil {
		log.Fatal("seed return", zap.Error(err))
	}
	if _, err := svc.BorrowBook(ctx, userIDs[1], bookIDs[0]); err != nil {
		log.Fatal("seed borrow", zap.Error(err))
	}
	if _, err := svc.BorrowBook(ctx, userIDs[2], bookIDs[2]); err != nil {
		log.Fatal("seed borrow", zap.Error(err))
	}

	log.Info("seed done",
		zap.String("db", cfg.DB.DSN),
		zap.Int("users", len(userIDs)),
		zap.Int("books", len(bookIDs)),
	)
}
