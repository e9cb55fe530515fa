package logging

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Queries slower than this are worth a warning even when they succeed.
const slowQueryThreshold = 200 * time.Millisecond

// GormZapLogger routes GORM's internal logging through the application's zap
// logger, so query traces end up in the same level-split files as everything
// else. Defaults to Warn: successful queries are noise outside of debugging.
type GormZapLogger struct {
	log   *zap.Logger
	level logger.LogLevel
}

func NewGormZapLogger(log *zap.Logger) *GormZapLogger {
	return &GormZapLogger{log: log, level: logger.Warn}
}

// LogMode implements logger.Interface. GORM calls it per session, so it
// returns a copy rather than mutating the shared instance.
func (l *GormZapLogger) LogMode(level logger.LogLevel) logger.Interface {
	copied := *l
	copied.level = level
	return &copied
}

func (l *GormZapLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.Sugar().Infof(msg, args...)
	}
}

func (l *GormZapLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.Sugar().Warnf(msg, args...)
	}
}

func (l *GormZapLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.Sugar().Errorf(msg, args...)
	}
}

// Trace implements logger.Interface for per-query traces. ErrRecordNotFound
// is not logged as an error: callers like GetSession translate it to a 404.
func (l *GormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error("Query failed", append(fields, zap.Error(err))...)
	case elapsed > slowQueryThreshold && l.level >= logger.Warn:
		l.log.Warn("Slow query", fields...)
	case l.level >= logger.Info:
		l.log.Info("Query", fields...)
	}
}
