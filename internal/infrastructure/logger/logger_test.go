package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("writes json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)

		l.Info("report generated", zap.Int64("report_id", 7))
		require.NoError(t, l.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"report generated"`)
		assert.Contains(t, string(data), `"report_id":7`)
	})

	t.Run("unwritable file fails", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "app.log")})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestContextHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core)

	ctx, _ := WithRequestID(context.Background(), base, "req-1")
	ctx, _ = WithUserID(ctx, FromContext(ctx), 42)

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, int64(42), GetUserID(ctx))
	assert.Equal(t, "", GetTraceID(ctx))

	L(ctx).Info("hello")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, int64(42), fields["user_id"])
}

func TestFromContext_Empty(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Equal(t, int64(0), GetUserID(context.Background()))
}

func TestWithTask(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx, _ := WithTask(context.Background(), zap.New(core), "generate_report", "t-1", 2)
	FromContext(ctx).Info("running")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "generate_report", fields["task"])
	assert.Equal(t, "t-1", fields["task_id"])
	assert.Equal(t, int64(2), fields["attempt"])
}

func TestL_AddsTraceFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})

	ctx := trace.ContextWithSpanContext(WithContext(context.Background(), zap.New(core)), sc)
	L(ctx).Info("traced")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
	assert.Equal(t, traceID.String(), GetTraceID(ctx))
}

func TestGinMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "rid"); c.Next() })
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, "rid", GetRequestID(c.Request.Context()))
		c.Set("user_id", int64(5))
		c.Status(http.StatusOK)
	})
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok?x=1", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "x=1", entries[0].ContextMap()["query"])
	assert.Equal(t, int64(5), entries[0].ContextMap()["user_id"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestGetGinLogger_NotSet(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Info, WithSlowThreshold(10*time.Millisecond))
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is ignored")

	gl.Trace(ctx, time.Now(), sql, assert.AnError)
	assert.Equal(t, 1, logs.FilterMessage("SQL Error").Len())

	gl.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("Slow SQL").Len())

	gl.Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("SQL Query").Len())

	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), sql, assert.AnError)
	gl.LogMode(gormlogger.Warn).Trace(ctx, time.Now(), sql, nil)
	assert.Equal(t, 3, logs.Len())
}

func TestGormLogger_UsesContextLogger(t *testing.T) {
	baseCore, baseLogs := observer.New(zapcore.DebugLevel)
	taskCore, taskLogs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(baseCore), gormlogger.Error)

	ctx, _ := WithTask(context.Background(), zap.New(taskCore), "reports.generate", "t-1", 2)
	gl.Trace(ctx, time.Now(), func() (string, int64) { return "UPDATE reports", 0 }, assert.AnError)

	assert.Equal(t, 0, baseLogs.Len())
	require.Equal(t, 1, taskLogs.Len())
	assert.Equal(t, "t-1", taskLogs.All()[0].ContextMap()["task_id"])
}

func TestGormLogger_RecordNotFoundOptIn(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Error, WithIgnoreRecordNotFoundError(false))
	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	assert.Equal(t, 1, logs.Len())
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	gl := NewGormLogger(zap.NewNop(), gormlogger.Info)
	sql, params := gl.ParamsFilter(context.Background(), "SELECT * FROM bot_tokens WHERE token = ?", "X-BOT-TOKEN-abc")
	assert.Equal(t, "SELECT * FROM bot_tokens WHERE token = ?", sql)
	assert.Nil(t, params)

	raw := NewGormLogger(zap.NewNop(), gormlogger.Info, WithParameterizedQueries(false))
	_, params = raw.ParamsFilter(context.Background(), "SELECT ?", 1)
	assert.Equal(t, []any{1}, params)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("DEBUG"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("info"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("whatever"))
}

var (
	_ gormlogger.Interface = (*GormLogger)(nil)
	_ gorm.ParamsFilter    = (*GormLogger)(nil)
)
