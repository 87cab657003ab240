package mysql

import (
	"context"
	"errors"
	"time"

	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/logger"
)

// GormLogger 将 GORM 日志桥接到全局结构化日志。
type GormLogger struct {
	LogLevel                  gormlogger.LogLevel
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a new GormLogger.
func NewGormLogger(logLevel gormlogger.LogLevel, slowThreshold time.Duration, ignoreRecordNotFoundError bool) *GormLogger {
	return &GormLogger{
		LogLevel:                  logLevel,
		SlowThreshold:             slowThreshold,
		IgnoreRecordNotFoundError: ignoreRecordNotFoundError,
	}
}

// LogMode sets the log level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

// Info logs info messages.
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		logger.Global().WithCtx(ctx).Infof(msg, data...)
	}
}

// Warn logs warning messages.
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		logger.Global().WithCtx(ctx).Warnf(msg, data...)
	}
}

// Error logs error messages.
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		logger.Global().WithCtx(ctx).Errorf(msg, data...)
	}
}

// Trace 记录 SQL 执行: 错误、慢查询与常规查询分级输出。
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsedMS := float64(time.Since(begin).Nanoseconds()) / 1e6
	switch {
	case err != nil && l.LogLevel >= gormlogger.Error && !l.skippableError(err):
		sql, rows := fc()
		logger.Global().WithCtx(ctx).Errorw("Database query failed",
			"error", err,
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsedMS,
		)
	case l.SlowThreshold != 0 && time.Since(begin) > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		logger.Global().WithCtx(ctx).Warnw("Slow database query detected",
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsedMS,
			"threshold_ms", float64(l.SlowThreshold.Nanoseconds())/1e6,
		)
	case l.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		logger.Global().WithCtx(ctx).Infow("Database query executed",
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsedMS,
		)
	}
}

func (l *GormLogger) skippableError(err error) bool {
	return l.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound)
}
