package models

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationModel is the persistence model for the Reconciliation aggregate root.
// A partial unique index on (agent_id, business_date) WHERE status <> 'disputed'
// keeps at most one live reconciliation per agent-day.
type ReconciliationModel struct {
	AggregateModel
	AgentID        uuid.UUID                       `gorm:"type:uuid;not null;index:idx_reconciliations_agent_day,priority:1"`
	BusinessDate   time.Time                       `gorm:"type:date;not null;index:idx_reconciliations_agent_day,priority:2"`
	Status         settlement.ReconciliationStatus `gorm:"type:varchar(20);not null;index"`
	TotalLoaded    decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	TotalSold      decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	TotalReturned  decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	TotalRemaining decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	CashCollected  decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	ExpectedCash   decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	Variance       decimal.Decimal                 `gorm:"type:decimal(18,4);not null"`
	SubmittedAt    *time.Time                      `gorm:""`
	ApprovedAt     *time.Time                      `gorm:""`
	ApprovedBy     *uuid.UUID                      `gorm:"type:uuid"`
	DisputedAt     *time.Time                      `gorm:""`
	DisputedBy     *uuid.UUID                      `gorm:"type:uuid"`
	DisputeNotes   string                          `gorm:"type:text"`
	Notes          string                          `gorm:"type:text"`
	SupersedesID   *uuid.UUID                      `gorm:"type:uuid"`
	Items          []ReconciliationItemModel       `gorm:"foreignKey:ReconciliationID;references:ID"`
}

// TableName returns the table name for GORM
func (ReconciliationModel) TableName() string {
	return "reconciliations"
}

// ToDomain converts the persistence model to a domain Reconciliation
func (m *ReconciliationModel) ToDomain() *settlement.Reconciliation {
	rec := &settlement.Reconciliation{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		BusinessDate:      DateOnly(m.BusinessDate),
		Status:            m.Status,
		TotalLoaded:       m.TotalLoaded,
		TotalSold:         m.TotalSold,
		TotalReturned:     m.TotalReturned,
		TotalRemaining:    m.TotalRemaining,
		CashCollected:     m.CashCollected,
		ExpectedCash:      m.ExpectedCash,
		Variance:          m.Variance,
		SubmittedAt:       m.SubmittedAt,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		DisputedAt:        m.DisputedAt,
		DisputedBy:        m.DisputedBy,
		DisputeNotes:      m.DisputeNotes,
		Notes:             m.Notes,
		SupersedesID:      m.SupersedesID,
		Items:             make([]settlement.ReconciliationItem, len(m.Items)),
	}
	for i := range m.Items {
		rec.Items[i] = m.Items[i].ToDomain()
	}
	return rec
}

// FromDomain populates the model from a domain Reconciliation
func (m *ReconciliationModel) FromDomain(r *settlement.Reconciliation) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.AgentID = r.AgentID
	m.BusinessDate = DateOnly(r.BusinessDate)
	m.Status = r.Status
	m.TotalLoaded = r.TotalLoaded
	m.TotalSold = r.TotalSold
	m.TotalReturned = r.TotalReturned
	m.TotalRemaining = r.TotalRemaining
	m.CashCollected = r.CashCollected
	m.ExpectedCash = r.ExpectedCash
	m.Variance = r.Variance
	m.SubmittedAt = utcPtr(r.SubmittedAt)
	m.ApprovedAt = utcPtr(r.ApprovedAt)
	m.ApprovedBy = r.ApprovedBy
	m.DisputedAt = utcPtr(r.DisputedAt)
	m.DisputedBy = r.DisputedBy
	m.DisputeNotes = r.DisputeNotes
	m.Notes = r.Notes
	m.SupersedesID = r.SupersedesID
	m.Items = make([]ReconciliationItemModel, len(r.Items))
	for i := range r.Items {
		m.Items[i] = ReconciliationItemModelFromDomain(&r.Items[i])
	}
}

// ReconciliationModelFromDomain creates a persistence model from a domain Reconciliation
func ReconciliationModelFromDomain(r *settlement.Reconciliation) *ReconciliationModel {
	m := &ReconciliationModel{}
	m.FromDomain(r)
	return m
}

// ReconciliationItemModel is the persistence model for a ReconciliationItem
type ReconciliationItemModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReconciliationID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null"`
	LoadedQuantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SoldQuantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalValue        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RequestedUnload   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnloadClamped     bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ReconciliationItemModel) TableName() string {
	return "reconciliation_items"
}

// ToDomain converts the persistence model to a domain ReconciliationItem
func (m *ReconciliationItemModel) ToDomain() settlement.ReconciliationItem {
	return settlement.ReconciliationItem{
		ID:                m.ID,
		ReconciliationID:  m.ReconciliationID,
		ProductID:         m.ProductID,
		LoadedQuantity:    m.LoadedQuantity,
		SoldQuantity:      m.SoldQuantity,
		ReturnedQuantity:  m.ReturnedQuantity,
		RemainingQuantity: m.RemainingQuantity,
		UnitPrice:         m.UnitPrice,
		TotalValue:        m.TotalValue,
		RequestedUnload:   m.RequestedUnload,
		UnloadClamped:     m.UnloadClamped,
	}
}

// ReconciliationItemModelFromDomain creates a persistence model from a domain ReconciliationItem
func ReconciliationItemModelFromDomain(i *settlement.ReconciliationItem) ReconciliationItemModel {
	return ReconciliationItemModel{
		ID:                i.ID,
		ReconciliationID:  i.ReconciliationID,
		ProductID:         i.ProductID,
		LoadedQuantity:    i.LoadedQuantity,
		SoldQuantity:      i.SoldQuantity,
		ReturnedQuantity:  i.ReturnedQuantity,
		RemainingQuantity: i.RemainingQuantity,
		UnitPrice:         i.UnitPrice,
		TotalValue:        i.TotalValue,
		RequestedUnload:   i.RequestedUnload,
		UnloadClamped:     i.UnloadClamped,
	}
}
