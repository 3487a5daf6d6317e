package database

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-library-lending/internal/core/logger"
)

var ErrUnsupportedDriver = errors.New("unsupported database driver")

type Opts struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	LogLevel           string
}

// NewGorm 打开数据库连接。driver 留空时按 sqlite 单文件库处理。
func NewGorm(o Opts, l *zap.Logger) (*gorm.DB, error) {
	var dial gorm.Dialector
	switch o.Driver {
	case "", "sqlite":
		// 文件库第一次启动时把目录建出来
		if dir := filepath.Dir(o.DSN); dir != "." && !strings.Contains(o.DSN, ":memory:") {
			_ = os.MkdirAll(dir, 0o755)
		}
		dial = sqlite.Open(o.DSN)
	case "mysql":
		dial = mysql.Open(o.DSN)
	case "postgres":
		dial = postgres.Open(o.DSN)
	default:
		return nil, ErrUnsupportedDriver
	}

	lvl := gormlogger.Warn
	switch o.LogLevel {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	}

	std, err := logger.ToStdLogger(l.Named("gorm"), zapcore.DebugLevel)
	if err != nil {
		return nil, err
	}
	gl := gormlogger.New(std, gormlogger.Config{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      lvl,
		// 查不到记录是正常分支,不按错误打
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(dial, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(o.ConnMaxLifetimeMin) * time.Minute)

	db = db.Session(&gorm.Session{
		PrepareStmt:            true, // 预编译缓存，提高 QPS
		SkipDefaultTransaction: true, // 单条写为主，不需要默认事务
	})
	return db, nil
}
