package gormconn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tordrt/shopschema/internal/config"
	"github.com/tordrt/shopschema/internal/db"
)

const defaultSlowThreshold = 200 * time.Millisecond

// sqlLogger reports gorm statements through slog. Constraint rejections are
// tagged with their violation kind.
type sqlLogger struct {
	base          *slog.Logger
	mode          logger.LogLevel
	slowThreshold time.Duration
}

// NewLogger routes gorm's logging through base. Statements are logged only
// when cfg.Debug is set; failures and slow statements always are.
func NewLogger(base *slog.Logger, cfg config.Database) logger.Interface {
	mode := logger.Warn
	if cfg.Debug {
		mode = logger.Info
	}

	threshold := cfg.SlowThreshold
	if threshold == 0 {
		threshold = defaultSlowThreshold
	}

	return &sqlLogger{base: base, mode: mode, slowThreshold: threshold}
}

func (l *sqlLogger) LogMode(mode logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.mode = mode
	return &cloned
}

func (l *sqlLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *sqlLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *sqlLogger) printf(ctx context.Context, mode logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.base == nil || l.mode < mode {
		return
	}
	l.base.LogAttrs(ctx, level, fmt.Sprintf(msg, args...), slog.String("component", "gorm"))
}

func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.base == nil || l.mode == logger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.mode >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		attrs := append(statementAttrs(fc, elapsed), slog.String("error", err.Error()))
		if v, ok := db.ClassifyViolation(err); ok {
			attrs = append(attrs, slog.String("violation", string(v.Kind)))
		}
		l.base.LogAttrs(ctx, slog.LevelError, "sql statement failed", attrs...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.mode >= logger.Warn:
		attrs := append(statementAttrs(fc, elapsed), slog.Duration("threshold", l.slowThreshold))
		l.base.LogAttrs(ctx, slog.LevelWarn, "slow sql statement", attrs...)
	case l.mode >= logger.Info:
		l.base.LogAttrs(ctx, slog.LevelDebug, "sql statement", statementAttrs(fc, elapsed)...)
	}
}

func statementAttrs(fc func() (string, int64), elapsed time.Duration) []slog.Attr {
	stmt, rows := fc()
	return []slog.Attr{
		slog.String("statement", stmt),
		slog.Int64("rows_affected", rows),
		slog.Duration("duration", elapsed),
	}
}
