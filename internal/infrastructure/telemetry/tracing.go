package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used by application services
const TracerName = "kkambbaki-backend"

// Span attribute keys shared by services and tasks
const (
	AttrUserID    = "user.id"
	AttrChildID   = "child.id"
	AttrGameCode  = "game.code"
	AttrSessionID = "game.session_id"
	AttrReportID  = "report.id"
	AttrTaskName  = "task.name"
	AttrTaskID    = "task.id"
)

// StartServiceSpan starts an internal span named {service}.{method}.
// keyValues are alternating string keys and values.
func StartServiceSpan(ctx context.Context, service, method string, keyValues ...any) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx,
		service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attributes(keyValues)...),
	)
}

// SetAttributes adds alternating key/value attributes to the span
func SetAttributes(span trace.Span, keyValues ...any) {
	span.SetAttributes(attributes(keyValues)...)
}

// RecordError marks the span failed. A nil error is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err, if any, and ends the span. Use with a named error return:
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "report", "generate")
//	defer func() { telemetry.End(span, err) }()
func End(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}

// TraceID returns the trace ID of the span in ctx, or ""
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.TraceID().IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

func attributes(keyValues []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		attrs = append(attrs, toAttribute(key, keyValues[i+1]))
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	default:
		return attribute.String(key, fmt.Sprintf("%v", v))
	}
}
