package sales

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
}

// VisitRepository persists agent visits
type VisitRepository interface {
	Create(ctx context.Context, visit *AgentVisit) error
	FindByID(ctx context.Context, id uuid.UUID) (*AgentVisit, error)
}

// RouteScheduleRepository reads planned routes
type RouteScheduleRepository interface {
	FindActiveByAgent(ctx context.Context, agentID uuid.UUID) ([]RouteSchedule, error)
}
