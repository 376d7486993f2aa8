package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FieldMetrics records stock load and settlement activity.
type FieldMetrics struct {
	loadTransitions     metric.Int64Counter
	loadedUnits         metric.Float64Counter
	reconciliations     metric.Int64Counter
	reconciliationDelta metric.Float64Histogram
	unloadsClamped      metric.Int64Counter
	invoicesRecorded    metric.Int64Counter
	invoiceValue        metric.Float64Counter
	visitsRecorded      metric.Int64Counter
}

// NewFieldMetrics registers the field sales instruments on the meter.
func NewFieldMetrics(meter metric.Meter) (*FieldMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &FieldMetrics{}
	var err error

	if m.loadTransitions, err = meter.Int64Counter("fieldsales.stock_load.transitions",
		metric.WithDescription("Stock load status transitions"), metric.WithUnit("{transition}")); err != nil {
		return nil, err
	}
	if m.loadedUnits, err = meter.Float64Counter("fieldsales.stock_load.released_units",
		metric.WithDescription("Units released to agents"), metric.WithUnit("{unit}")); err != nil {
		return nil, err
	}
	if m.reconciliations, err = meter.Int64Counter("fieldsales.reconciliation.transitions",
		metric.WithDescription("Reconciliation status transitions"), metric.WithUnit("{transition}")); err != nil {
		return nil, err
	}
	if m.reconciliationDelta, err = meter.Float64Histogram("fieldsales.reconciliation.variance",
		metric.WithDescription("Cash variance of submitted reconciliations")); err != nil {
		return nil, err
	}
	if m.unloadsClamped, err = meter.Int64Counter("fieldsales.reconciliation.unloads_clamped",
		metric.WithDescription("Unload lines clamped to the remaining quantity"), metric.WithUnit("{line}")); err != nil {
		return nil, err
	}
	if m.invoicesRecorded, err = meter.Int64Counter("fieldsales.invoice.recorded",
		metric.WithDescription("Invoices recorded"), metric.WithUnit("{invoice}")); err != nil {
		return nil, err
	}
	if m.invoiceValue, err = meter.Float64Counter("fieldsales.invoice.value",
		metric.WithDescription("Invoiced sales value")); err != nil {
		return nil, err
	}
	if m.visitsRecorded, err = meter.Int64Counter("fieldsales.visit.recorded",
		metric.WithDescription("Customer visits recorded"), metric.WithUnit("{visit}")); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadTransition counts a stock load reaching status
func (m *FieldMetrics) LoadTransition(ctx context.Context, status string) {
	m.loadTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// UnitsReleased adds released quantity
func (m *FieldMetrics) UnitsReleased(ctx context.Context, qty decimal.Decimal) {
	m.loadedUnits.Add(ctx, qty.InexactFloat64())
}

// ReconciliationTransition counts a reconciliation reaching status
func (m *FieldMetrics) ReconciliationTransition(ctx context.Context, status string) {
	m.reconciliations.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// ReconciliationSubmitted records the variance and clamped line count of a submission
func (m *FieldMetrics) ReconciliationSubmitted(ctx context.Context, variance decimal.Decimal, clampedLines int) {
	m.reconciliationDelta.Record(ctx, variance.InexactFloat64())
	if clampedLines > 0 {
		m.unloadsClamped.Add(ctx, int64(clampedLines))
	}
}

// InvoiceRecorded counts an invoice and its value
func (m *FieldMetrics) InvoiceRecorded(ctx context.Context, value decimal.Decimal) {
	m.invoicesRecorded.Add(ctx, 1)
	m.invoiceValue.Add(ctx, value.InexactFloat64())
}

// VisitRecorded counts a visit by outcome
func (m *FieldMetrics) VisitRecorded(ctx context.Context, outcome string, successful bool) {
	m.visitsRecorded.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.Bool("successful", successful),
	))
}
