package logger

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// GormLogger writes GORM output through zap. Statements are logged through
// the request or task logger found in the context, so SQL lines carry the
// same request_id and task fields as the code that issued them.
type GormLogger struct {
	base          *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	logNotFound   bool
	parameterized bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the duration above which a statement is logged as slow.
// Zero disables slow statement logging.
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slowThreshold = threshold }
}

// WithIgnoreRecordNotFoundError drops "record not found" errors, which the
// repositories translate into domain errors anyway
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(l *GormLogger) { l.logNotFound = !ignore }
}

// WithParameterizedQueries logs statements with placeholders instead of
// values. Password hashes, PIN hashes and bot tokens then stay out of the logs.
func WithParameterizedQueries(enabled bool) GormLoggerOption {
	return func(l *GormLogger) { l.parameterized = enabled }
}

// NewGormLogger creates a GORM logger on top of base
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		base:          base.Named("gorm"),
		level:         level,
		slowThreshold: defaultSlowThreshold,
		parameterized: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// ParamsFilter implements gormlogger.ParamsFilter
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.parameterized {
		return sql, nil
	}
	return sql, params
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, at gormlogger.LogLevel, msg string, data []any) {
	if l.level < at {
		return
	}
	l.loggerFor(ctx).Sugar().Logf(zapLevel(at), strings.TrimSpace(msg), data...)
}

// Trace implements gormlogger.Interface. Failed statements log at error,
// slow ones at warn and the rest at debug.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl gormlogger.LogLevel
		msg string
	)
	switch {
	case err != nil:
		if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
			return
		}
		lvl, msg = gormlogger.Error, "SQL Error"
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		lvl, msg = gormlogger.Warn, "Slow SQL"
	default:
		lvl, msg = gormlogger.Info, "SQL Query"
	}
	if l.level < lvl {
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	switch lvl {
	case gormlogger.Error:
		l.loggerFor(ctx).Error(msg, append(fields, zap.Error(err))...)
	case gormlogger.Warn:
		l.loggerFor(ctx).Warn(msg, append(fields, zap.Duration("threshold", l.slowThreshold))...)
	default:
		l.loggerFor(ctx).Debug(msg, fields...)
	}
}

// loggerFor prefers the context logger, which already carries request and task fields
func (l *GormLogger) loggerFor(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.base
	}
	if scoped, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return scoped.Named("gorm")
	}
	if id := GetRequestID(ctx); id != "" {
		return l.base.With(zap.String("request_id", id))
	}
	return l.base
}

func zapLevel(level gormlogger.LogLevel) zapcore.Level {
	switch level {
	case gormlogger.Error:
		return zapcore.ErrorLevel
	case gormlogger.Warn:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

// MapGormLogLevel maps the application log level to a GORM level.
// SQL statements are only traced at debug.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "debug":
		return gormlogger.Info
	case "error", "fatal":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
