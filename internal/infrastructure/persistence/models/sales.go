package models

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string             `gorm:"type:varchar(64);not null;uniqueIndex"`
	AgentID       uuid.UUID          `gorm:"type:uuid;not null;index:idx_invoices_agent_created,priority:1"`
	CustomerID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	VisitID       *uuid.UUID         `gorm:"type:uuid"`
	TotalAmount   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	Items         []InvoiceItemModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *sales.Invoice {
	inv := &sales.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		AgentID:           m.AgentID,
		CustomerID:        m.CustomerID,
		VisitID:           m.VisitID,
		TotalAmount:       m.TotalAmount,
		Items:             make([]sales.InvoiceItem, len(m.Items)),
	}
	for i, item := range m.Items {
		inv.Items[i] = sales.InvoiceItem{
			ID:        item.ID,
			InvoiceID: item.InvoiceID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return inv
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *sales.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber: inv.InvoiceNumber,
		AgentID:       inv.AgentID,
		CustomerID:    inv.CustomerID,
		VisitID:       inv.VisitID,
		TotalAmount:   inv.TotalAmount,
		Items:         make([]InvoiceItemModel, len(inv.Items)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, item := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:        item.ID,
			InvoiceID: inv.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return m
}

// InvoiceItemModel is the persistence model for an invoice line
type InvoiceItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// AgentVisitModel is the persistence model for an agent visit
type AgentVisitModel struct {
	AggregateModel
	AgentID    uuid.UUID          `gorm:"type:uuid;not null;index:idx_agent_visits_agent_date,priority:1"`
	CustomerID uuid.UUID          `gorm:"type:uuid;not null"`
	VisitDate  time.Time          `gorm:"not null;index:idx_agent_visits_agent_date,priority:2"`
	Outcome    sales.VisitOutcome `gorm:"type:varchar(20);not null"`
	InvoiceID  *uuid.UUID         `gorm:"type:uuid"`
	Notes      string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AgentVisitModel) TableName() string {
	return "agent_visits"
}

// ToDomain converts the persistence model to a domain AgentVisit
func (m *AgentVisitModel) ToDomain() *sales.AgentVisit {
	return &sales.AgentVisit{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		CustomerID:        m.CustomerID,
		VisitDate:         m.VisitDate,
		Outcome:           m.Outcome,
		InvoiceID:         m.InvoiceID,
		Notes:             m.Notes,
	}
}

// AgentVisitModelFromDomain creates a persistence model from a domain AgentVisit
func AgentVisitModelFromDomain(v *sales.AgentVisit) *AgentVisitModel {
	m := &AgentVisitModel{
		AgentID:    v.AgentID,
		CustomerID: v.CustomerID,
		VisitDate:  v.VisitDate.UTC(),
		Outcome:    v.Outcome,
		InvoiceID:  v.InvoiceID,
		Notes:      v.Notes,
	}
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	return m
}

// RouteScheduleModel is the persistence model for a planned route stop
type RouteScheduleModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	AgentID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null"`
	DayOfWeek  int       `gorm:"not null"`
	Active     bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RouteScheduleModel) TableName() string {
	return "route_schedules"
}

// ToDomain converts the persistence model to a domain RouteSchedule
func (m *RouteScheduleModel) ToDomain() sales.RouteSchedule {
	return sales.RouteSchedule{
		ID:         m.ID,
		AgentID:    m.AgentID,
		CustomerID: m.CustomerID,
		DayOfWeek:  time.Weekday(m.DayOfWeek),
		Active:     m.Active,
	}
}
