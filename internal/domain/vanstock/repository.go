package vanstock

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadFilter narrows stock load listings
type LoadFilter struct {
	shared.Filter
	AgentID *uuid.UUID
	Status  *LoadStatus
	From    *time.Time
	To      *time.Time
}

// StockLoadRepository persists StockLoad aggregates
type StockLoadRepository interface {
	// FindByID returns the load with its items or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*StockLoad, error)
	// FindAll returns one page of loads and the total count
	FindAll(ctx context.Context, filter LoadFilter) ([]StockLoad, int64, error)
	// Create inserts a new load and its items
	Create(ctx context.Context, load *StockLoad) error
	// SaveTransition persists a status change only if the stored row still
	// has status from and the version the aggregate was read at.
	// A lost race yields shared.ErrConcurrencyConflict and writes nothing.
	SaveTransition(ctx context.Context, load *StockLoad, from LoadStatus) error
	// FindReleasedBetween returns the agent's loads released in [start, end)
	FindReleasedBetween(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]StockLoad, error)
	// FindLatestReleased returns the agent's most recently released load
	// strictly before the given instant, or shared.ErrNotFound
	FindLatestReleased(ctx context.Context, agentID uuid.UUID, before time.Time) (*StockLoad, error)
}

// SalesReader exposes invoiced quantities to the ledger
type SalesReader interface {
	// SoldQuantities sums invoice item quantities per product for the agent's
	// invoices created in [start, end)
	SoldQuantities(ctx context.Context, agentID uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error)
}
