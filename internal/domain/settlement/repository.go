package settlement

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationFilter narrows reconciliation listings
type ReconciliationFilter struct {
	shared.Filter
	AgentID *uuid.UUID
	Status  *ReconciliationStatus
	From    *time.Time
	To      *time.Time
}

// ReconciliationRepository persists Reconciliation aggregates
type ReconciliationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Reconciliation, error)
	FindAll(ctx context.Context, filter ReconciliationFilter) ([]Reconciliation, int64, error)
	// FindByAgentDay returns every reconciliation on file for the agent-day
	FindByAgentDay(ctx context.Context, agentID uuid.UUID, businessDate time.Time) ([]Reconciliation, error)
	// Create inserts the reconciliation and its items atomically.
	// A second live reconciliation for the same agent-day yields ALREADY_EXISTS.
	Create(ctx context.Context, rec *Reconciliation) error
	// SaveTransition persists a status change guarded by status and version.
	// A lost race yields shared.ErrConcurrencyConflict and writes nothing.
	SaveTransition(ctx context.Context, rec *Reconciliation, from ReconciliationStatus) error
}

// PriceList resolves unit prices for products
type PriceList interface {
	UnitPrices(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}
