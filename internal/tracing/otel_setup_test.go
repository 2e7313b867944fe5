package tracing

import (
	"context"
	"testing"

	"github.com/oduppinsjr/rapid-web-ai/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func testConfig(endpoint string) *config.Config {
	return &config.Config{
		ServiceName: "rapid-web-ai",
		Server:      config.ServerConfig{Env: "test"},
		Tracing:     config.TracingConfig{Endpoint: endpoint, SampleRatio: 1},
	}
}

func restoreGlobals(t *testing.T) {
	provider, propagator := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(provider)
		otel.SetTextMapPropagator(propagator)
	})
}

func TestSetup_Disabled(t *testing.T) {
	restoreGlobals(t)

	shutdown, err := Setup(testConfig(""), zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, isSDK)

	// trace headers are still read without an exporter
	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.Contains(t, fields, "baggage")
}

func TestSetup_Enabled(t *testing.T) {
	restoreGlobals(t)

	// the gRPC client connects lazily, nothing needs to listen here
	shutdown, err := Setup(testConfig("127.0.0.1:4317"), zap.NewNop())
	require.NoError(t, err)

	_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, isSDK)

	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	root := sdktrace.SamplingParameters{ParentContext: context.Background(), TraceID: traceID, Name: "GET /health"}

	assert.Equal(t, sdktrace.RecordAndSample, Sampler(1).ShouldSample(root).Decision)
	assert.Equal(t, sdktrace.Drop, Sampler(0).ShouldSample(root).Decision)

	// a sampled caller is followed even when new roots are never kept
	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     trace.SpanID{1},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	child := root
	child.ParentContext = trace.ContextWithRemoteSpanContext(context.Background(), parent)
	assert.Equal(t, sdktrace.RecordAndSample, Sampler(0).ShouldSample(child).Decision)
}

func TestPropagator_RoundTrip(t *testing.T) {
	header := propagation.HeaderCarrier{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx := Propagator().Extract(context.Background(), header)
	sc := trace.SpanContextFromContext(ctx)
	require.True(t, sc.IsValid())
	assert.True(t, sc.IsSampled())

	out := propagation.HeaderCarrier{}
	Propagator().Inject(ctx, out)
	assert.Equal(t, header.Get("traceparent"), out.Get("traceparent"))
}
