// Package db 提供 GORM MySQL 连接初始化与事务工具
package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wyfcoding/optionpricing/pkg/config"
	"github.com/wyfcoding/optionpricing/pkg/logger"
)

// Init 初始化数据库连接池
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger: newSlogAdapter(),
	})
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	return gdb, nil
}

// WithTx 在事务中执行 fn，出错或 panic 时回滚
func WithTx(ctx context.Context, gdb *gorm.DB, fn func(tx *gorm.DB) error) error {
	return gdb.WithContext(ctx).Transaction(fn)
}

// slogAdapter 将 GORM 日志桥接到 slog
type slogAdapter struct {
	slowThreshold time.Duration
}

func newSlogAdapter() gormlogger.Interface {
	return &slogAdapter{slowThreshold: 200 * time.Millisecond}
}

func (a *slogAdapter) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return a
}

func (a *slogAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	logger.WithContext(ctx).Info(fmt.Sprintf(msg, args...))
}

func (a *slogAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	logger.WithContext(ctx).Warn(fmt.Sprintf(msg, args...))
}

func (a *slogAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	logger.WithContext(ctx).Error(fmt.Sprintf(msg, args...))
}

func (a *slogAdapter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && err != gorm.ErrRecordNotFound:
		logger.WithContext(ctx).Error("sql error",
			"sql", sql, "rows", rows, "elapsed", elapsed.String(), "error", err)
	case elapsed > a.slowThreshold:
		logger.WithContext(ctx).Warn("slow sql",
			"sql", sql, "rows", rows, "elapsed", elapsed.String())
	default:
		logger.WithContext(ctx).Debug("sql",
			"sql", sql, "rows", rows, "elapsed", elapsed.String())
	}
}
