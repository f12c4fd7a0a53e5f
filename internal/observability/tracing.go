package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dbTracerName      = "supportdeck/db"
	serviceTracerName = "supportdeck/services"
)

type contextKey string

const (
	integrationKey contextKey = "observability.integration"
	requestIDKey   contextKey = "observability.request_id"
	routeKey       contextKey = "observability.route"
)

// Span is the application-level tracing span contract.
type Span interface {
	End()
	RecordError(error)
}

type otelSpan struct {
	inner trace.Span
}

// StartDBSpan starts a database tracing span for one query operation.
func StartDBSpan(ctx context.Context, queryName, operation string) (context.Context, Span) {
	queryName = strings.TrimSpace(queryName)
	if queryName == "" {
		queryName = "unknown"
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.system.name", "sqlite"),
		attribute.String("db.query_name", queryName),
		attribute.String("db.operation", strings.TrimSpace(operation)),
	}
	if integration, ok := IntegrationFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("supportdeck.integration", integration))
	}

	ctx, span := otel.Tracer(dbTracerName).Start(ctx, "db."+queryName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, otelSpan{inner: span}
}

// StartProviderSpan starts a client span around one call to an upstream payment or
// membership provider.
func StartProviderSpan(ctx context.Context, provider, operation string) (context.Context, Span) {
	attrs := []attribute.KeyValue{
		attribute.String("supportdeck.provider", strings.TrimSpace(provider)),
		attribute.String("supportdeck.operation", strings.TrimSpace(operation)),
	}
	if integration, ok := IntegrationFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("supportdeck.integration", integration))
	}
	ctx, span := otel.Tracer(serviceTracerName).Start(ctx, provider+"."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, otelSpan{inner: span}
}

// WithIntegration tags context and current span with the integration a request serves.
func WithIntegration(ctx context.Context, integration string) context.Context {
	integration = strings.TrimSpace(integration)
	if integration == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, integrationKey, integration)
	if span := trace.SpanFromContext(ctx); span != nil {
		span.SetAttributes(attribute.String("supportdeck.integration", integration))
	}
	return ctx
}

// WithRequestMetadata enriches context and current span with request metadata.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	setSpanRequestAttributes(ctx, requestID, route)
	return ctx
}

// IntegrationFromContext extracts the integration tag.
func IntegrationFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(integrationKey).(string)
	return value, ok && value != ""
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(requestIDKey).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	value, ok := ctx.Value(routeKey).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func setSpanRequestAttributes(ctx context.Context, requestID, route string) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, attribute.String("request.id", requestID))
	}
	if route != "" {
		attrs = append(attrs, attribute.String("http.route", route))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

func (s otelSpan) End() {
	if s.inner == nil {
		return
	}
	s.inner.End()
}

func (s otelSpan) RecordError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}
