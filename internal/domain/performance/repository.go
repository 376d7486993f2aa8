package performance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VisitCounts summarises an agent's visits in a window
type VisitCounts struct {
	Total      int64
	Successful int64
}

// InvoiceTotals summarises an agent's invoices in a window
type InvoiceTotals struct {
	Count int64
	Value decimal.Decimal
}

// ActivityReader reads visit and invoice aggregates for [start, end)
type ActivityReader interface {
	CountVisits(ctx context.Context, agentID uuid.UUID, start, end time.Time) (VisitCounts, error)
	SumInvoices(ctx context.Context, agentID uuid.UUID, start, end time.Time) (InvoiceTotals, error)
}

// TargetRepository reads sales targets
type TargetRepository interface {
	// FindOverlapping returns the agent's targets whose period intersects [from, to]
	FindOverlapping(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]AgentTarget, error)
}

// KPICache stores computed KPIs keyed by agent and date range
type KPICache interface {
	Get(ctx context.Context, agentID uuid.UUID, from, to time.Time) (*AgentKPIs, bool, error)
	Set(ctx context.Context, kpis *AgentKPIs) error
	// InvalidateAgent drops every cached range for the agent
	InvalidateAgent(ctx context.Context, agentID uuid.UUID) error
}
