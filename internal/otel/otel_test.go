package otel

import (
	"context"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/imtaco/resonare-live/internal/log"
)

func TestInitDisabled(t *testing.T) {
	v := viper.New()
	Setup(v, "otel")
	var cfg struct {
		Otel Config `mapstructure:"otel"`
	}
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, "resonare-live", cfg.Otel.ServiceName)
	assert.False(t, cfg.Otel.TracingEnabled)

	shutdown, err := Init(context.Background(), &cfg.Otel, log.NewTest(t))
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestFactoryPrefixesNames(t *testing.T) {
	f := NewFactory("test", PrefixRealtime)
	assert.Equal(t, "live_realtime.subscriptions.active", f.name("subscriptions.active"))
	assert.Equal(t, "plain", NewFactory("test", "").name("plain"))

	var counter metric.Int64Counter
	f.Int64Counter(&counter, "test.counter")
	assert.NotNil(t, counter)

	var hist metric.Float64Histogram
	f.Float64Histogram(&hist, "test.duration", metric.WithUnit("s"))
	assert.NotNil(t, hist)
}

func TestSpanHelpers(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	_, span := StartSpan(context.Background(), tp.Tracer("test"), "social.ToggleLike",
		attribute.String("item.id", "entry-1"))
	SetSpanAttributes(span, attribute.Int("like.count", 3))
	RecordError(span, assert.AnError)
	RecordError(span, nil)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "social.ToggleLike", ended[0].Name())
	assert.Len(t, ended[0].Attributes(), 2)
	assert.Len(t, ended[0].Events(), 1)
	assert.Equal(t, assert.AnError.Error(), ended[0].Status().Description)
}
