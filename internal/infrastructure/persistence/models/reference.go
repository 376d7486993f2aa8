package models

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the read-side view of the product catalog used for pricing
type ProductModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ActorRoleModel maps an actor to one role
type ActorRoleModel struct {
	ActorID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role    string    `gorm:"type:varchar(50);primaryKey"`
}

// TableName returns the table name for GORM
func (ActorRoleModel) TableName() string {
	return "actor_roles"
}

// ActorPermissionOverrideModel grants one extra permission to an actor
type ActorPermissionOverrideModel struct {
	ActorID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Permission string    `gorm:"type:varchar(100);primaryKey"`
}

// TableName returns the table name for GORM
func (ActorPermissionOverrideModel) TableName() string {
	return "actor_permission_overrides"
}

// AgentTargetModel is the persistence model for a sales target
type AgentTargetModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AgentID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time       `gorm:"type:date;not null"`
	PeriodEnd   time.Time       `gorm:"type:date;not null"`
	TargetValue decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AgentTargetModel) TableName() string {
	return "agent_targets"
}

// ToDomain converts the persistence model to a domain AgentTarget
func (m *AgentTargetModel) ToDomain() performance.AgentTarget {
	return performance.AgentTarget{
		ID:          m.ID,
		AgentID:     m.AgentID,
		PeriodStart: DateOnly(m.PeriodStart),
		PeriodEnd:   DateOnly(m.PeriodEnd),
		TargetValue: m.TargetValue,
	}
}

// AllModels lists every table the engine owns or reads, in dependency order
func AllModels() []any {
	return []any{
		&ProductModel{},
		&ActorRoleModel{},
		&ActorPermissionOverrideModel{},
		&AgentTargetModel{},
		&RouteScheduleModel{},
		&StockLoadModel{},
		&StockLoadItemModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
		&AgentVisitModel{},
		&ReconciliationModel{},
		&ReconciliationItemModel{},
	}
}
