package models

import (
	"time"

	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockLoadModel is the persistence model for the StockLoad aggregate root
type StockLoadModel struct {
	AggregateModel
	AgentID         uuid.UUID            `gorm:"type:uuid;not null;index:idx_stock_loads_agent_released,priority:1"`
	Status          vanstock.LoadStatus  `gorm:"type:varchar(20);not null;index"`
	RequestedAt     time.Time            `gorm:"not null"`
	ApprovedAt      *time.Time           `gorm:""`
	ApprovedBy      *uuid.UUID           `gorm:"type:uuid"`
	ReleasedAt      *time.Time           `gorm:"index:idx_stock_loads_agent_released,priority:2"`
	ReleasedBy      *uuid.UUID           `gorm:"type:uuid"`
	RejectedAt      *time.Time           `gorm:""`
	RejectedBy      *uuid.UUID           `gorm:"type:uuid"`
	RejectionReason string               `gorm:"type:varchar(500)"`
	Notes           string               `gorm:"type:text"`
	Items           []StockLoadItemModel `gorm:"foreignKey:StockLoadID;references:ID"`
}

// TableName returns the table name for GORM
func (StockLoadModel) TableName() string {
	return "stock_loads"
}

// ToDomain converts the persistence model to a domain StockLoad
func (m *StockLoadModel) ToDomain() *vanstock.StockLoad {
	load := &vanstock.StockLoad{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		AgentID:           m.AgentID,
		Status:            m.Status,
		RequestedAt:       m.RequestedAt,
		ApprovedAt:        m.ApprovedAt,
		ApprovedBy:        m.ApprovedBy,
		ReleasedAt:        m.ReleasedAt,
		ReleasedBy:        m.ReleasedBy,
		RejectedAt:        m.RejectedAt,
		RejectedBy:        m.RejectedBy,
		RejectionReason:   m.RejectionReason,
		Notes:             m.Notes,
		Items:             make([]vanstock.StockLoadItem, len(m.Items)),
	}
	for i := range m.Items {
		load.Items[i] = m.Items[i].ToDomain()
	}
	return load
}

// FromDomain populates the model from a domain StockLoad
func (m *StockLoadModel) FromDomain(l *vanstock.StockLoad) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.AgentID = l.AgentID
	m.Status = l.Status
	m.RequestedAt = l.RequestedAt.UTC()
	m.ApprovedAt = utcPtr(l.ApprovedAt)
	m.ApprovedBy = l.ApprovedBy
	m.ReleasedAt = utcPtr(l.ReleasedAt)
	m.ReleasedBy = l.ReleasedBy
	m.RejectedAt = utcPtr(l.RejectedAt)
	m.RejectedBy = l.RejectedBy
	m.RejectionReason = l.RejectionReason
	m.Notes = l.Notes
	m.Items = make([]StockLoadItemModel, len(l.Items))
	for i := range l.Items {
		m.Items[i] = StockLoadItemModelFromDomain(&l.Items[i])
	}
}

// StockLoadModelFromDomain creates a persistence model from a domain StockLoad
func StockLoadModelFromDomain(l *vanstock.StockLoad) *StockLoadModel {
	m := &StockLoadModel{}
	m.FromDomain(l)
	return m
}

// StockLoadItemModel is the persistence model for a StockLoadItem
type StockLoadItemModel struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"`
	StockLoadID       uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID           `gorm:"type:uuid;not null"`
	RequestedQuantity decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ApprovedQuantity  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	ReleasedQuantity  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	CarryOverQuantity decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time           `gorm:"not null"`
	UpdatedAt         time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockLoadItemModel) TableName() string {
	return "stock_load_items"
}

// ToDomain converts the persistence model to a domain StockLoadItem
func (m *StockLoadItemModel) ToDomain() vanstock.StockLoadItem {
	return vanstock.StockLoadItem{
		ID:                m.ID,
		StockLoadID:       m.StockLoadID,
		ProductID:         m.ProductID,
		RequestedQuantity: m.RequestedQuantity,
		ApprovedQuantity:  fromNullDecimal(m.ApprovedQuantity),
		ReleasedQuantity:  fromNullDecimal(m.ReleasedQuantity),
		CarryOverQuantity: m.CarryOverQuantity,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// StockLoadItemModelFromDomain creates a persistence model from a domain StockLoadItem
func StockLoadItemModelFromDomain(i *vanstock.StockLoadItem) StockLoadItemModel {
	return StockLoadItemModel{
		ID:                i.ID,
		StockLoadID:       i.StockLoadID,
		ProductID:         i.ProductID,
		RequestedQuantity: i.RequestedQuantity,
		ApprovedQuantity:  toNullDecimal(i.ApprovedQuantity),
		ReleasedQuantity:  toNullDecimal(i.ReleasedQuantity),
		CarryOverQuantity: i.CarryOverQuantity,
		CreatedAt:         i.CreatedAt.UTC(),
		UpdatedAt:         i.UpdatedAt.UTC(),
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
