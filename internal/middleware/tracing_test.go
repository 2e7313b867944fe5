package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/oduppinsjr/rapid-web-ai/internal/apperror"
	"github.com/oduppinsjr/rapid-web-ai/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const parentTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	prevProvider, prevPropagator := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevPropagator)
	})

	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return recorder
}

func attr(span sdktrace.ReadOnlySpan, key attribute.Key) attribute.Value {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value
		}
	}
	return attribute.Value{}
}

func TestTracingMiddleware_ContinuesIncomingTrace(t *testing.T) {
	recorder := installRecorder(t)

	core, logs := observer.New(zap.InfoLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(zap.NewNop()) })

	var handlerTraceID string
	e := echo.New()
	e.Use(TracingMiddleware("rapid-web-ai"))
	e.GET("/api/websites/:id", func(c echo.Context) error {
		handlerTraceID = trace.SpanContextFromContext(c.Request().Context()).TraceID().String()
		logger.FromContext(c).Info("loading website")
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/websites/42", nil)
	req.Header.Set("traceparent", "00-"+parentTraceID+"-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "GET /api/websites/:id", span.Name())
	assert.Equal(t, trace.SpanKindServer, span.SpanKind())
	assert.Equal(t, parentTraceID, span.Parent().TraceID().String())
	assert.True(t, span.Parent().IsRemote())
	assert.Equal(t, "/api/websites/:id", attr(span, "http.route").AsString())
	assert.Equal(t, int64(http.StatusNoContent), attr(span, "http.response.status_code").AsInt64())
	assert.Equal(t, codes.Unset, span.Status().Code)

	assert.Equal(t, parentTraceID, handlerTraceID)

	entries := logs.FilterMessage("loading website").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, parentTraceID, fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestTracingMiddleware_StatusFromUnhandledError(t *testing.T) {
	recorder := installRecorder(t)

	e := echo.New()
	e.Use(TracingMiddleware("rapid-web-ai"))
	e.GET("/boom", func(c echo.Context) error {
		return apperror.Storage("list websites", errors.New("connection reset by peer"))
	})
	e.GET("/missing", func(c echo.Context) error {
		return apperror.NotFound("Website")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.False(t, spans[0].Parent().IsValid())
	assert.Equal(t, int64(http.StatusInternalServerError), attr(spans[0], "http.response.status_code").AsInt64())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	require.NotEmpty(t, spans[0].Events())
	assert.Equal(t, "exception", spans[0].Events()[0].Name)

	// client errors are not span failures
	assert.Equal(t, int64(http.StatusNotFound), attr(spans[1], "http.response.status_code").AsInt64())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}
