package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	tp, err := NewTracerProvider(context.Background(), Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(context.Background()))
}

func TestStartServiceSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	_, span := StartServiceSpan(context.Background(), "settlement", "submit", attribute.String("agent_id", "a-1"))
	EndSpan(span, errors.New("lock not obtained"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "settlement.submit", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("agent_id", "a-1"))
}

func TestFieldMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewFieldMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.LoadTransition(ctx, "released")
	m.LoadTransition(ctx, "released")
	m.UnitsReleased(ctx, decimal.NewFromInt(80))
	m.ReconciliationSubmitted(ctx, decimal.NewFromInt(-20), 1)
	m.InvoiceRecorded(ctx, decimal.NewFromInt(2400))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = md.Data
		}
	}
	transitions, ok := names["fieldsales.stock_load.transitions"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, transitions.DataPoints, 1)
	assert.Equal(t, int64(2), transitions.DataPoints[0].Value)
	assert.Contains(t, names, "fieldsales.reconciliation.unloads_clamped")
	assert.Contains(t, names, "fieldsales.invoice.value")
}

func TestNewFieldMetrics_NilMeter(t *testing.T) {
	_, err := NewFieldMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, zap.NewNop()))
	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "fieldsales"}, zap.NewNop()))
	assert.NoError(t, db.Exec("SELECT 1").Error)
}
