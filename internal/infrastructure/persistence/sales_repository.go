package persistence

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/sales"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository and the ledger's SalesReader
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts an invoice and its lines
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *sales.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateError(err, "Invoice")
		}
		if len(model.Items) == 0 {
			return nil
		}
		return translateError(tx.Create(&model.Items).Error, "Invoice item")
	})
}

// FindByID finds an invoice by ID with its lines
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Invoice")
	}
	return model.ToDomain(), nil
}

type soldRow struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// SoldQuantities sums invoiced quantity per product for invoices created in [start, end)
func (r *GormInvoiceRepository) SoldQuantities(ctx context.Context, agentID uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []soldRow
	err := r.db.WithContext(ctx).
		Table("invoice_items AS ii").
		Select("ii.product_id AS product_id, COALESCE(SUM(ii.quantity), 0) AS quantity").
		Joins("JOIN invoices i ON i.id = ii.invoice_id").
		Where("i.agent_id = ? AND i.created_at >= ? AND i.created_at < ?", agentID, start.UTC(), end.UTC()).
		Group("ii.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	sold := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sold[row.ProductID] = row.Quantity
	}
	return sold, nil
}

// GormVisitRepository implements VisitRepository using GORM
type GormVisitRepository struct {
	db *gorm.DB
}

// NewGormVisitRepository creates a new GormVisitRepository
func NewGormVisitRepository(db *gorm.DB) *GormVisitRepository {
	return &GormVisitRepository{db: db}
}

// Create inserts a visit
func (r *GormVisitRepository) Create(ctx context.Context, visit *sales.AgentVisit) error {
	return translateError(r.db.WithContext(ctx).Create(models.AgentVisitModelFromDomain(visit)).Error, "Visit")
}

// FindByID finds a visit by ID
func (r *GormVisitRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.AgentVisit, error) {
	var model models.AgentVisitModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Visit")
	}
	return model.ToDomain(), nil
}

// GormRouteScheduleRepository reads route schedules
type GormRouteScheduleRepository struct {
	db *gorm.DB
}

// NewGormRouteScheduleRepository creates a new GormRouteScheduleRepository
func NewGormRouteScheduleRepository(db *gorm.DB) *GormRouteScheduleRepository {
	return &GormRouteScheduleRepository{db: db}
}

// FindActiveByAgent returns the agent's active route stops
func (r *GormRouteScheduleRepository) FindActiveByAgent(ctx context.Context, agentID uuid.UUID) ([]sales.RouteSchedule, error) {
	var rows []models.RouteScheduleModel
	if err := r.db.WithContext(ctx).Where("agent_id = ? AND active = ?", agentID, true).Find(&rows).Error; err != nil {
		return nil, err
	}
	schedules := make([]sales.RouteSchedule, len(rows))
	for i := range rows {
		schedules[i] = rows[i].ToDomain()
	}
	return schedules, nil
}

// GormActivityRepository aggregates visits and invoices for KPI computation
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// CountVisits counts visits in [start, end). A visit is successful when its
// outcome is a sale or an invoice is linked to it.
func (r *GormActivityRepository) CountVisits(ctx context.Context, agentID uuid.UUID, start, end time.Time) (performance.VisitCounts, error) {
	var counts performance.VisitCounts
	err := r.db.WithContext(ctx).
		Model(&models.AgentVisitModel{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN outcome = ? OR invoice_id IS NOT NULL THEN 1 ELSE 0 END), 0) AS successful", sales.VisitOutcomeSale).
		Where("agent_id = ? AND visit_date >= ? AND visit_date < ?", agentID, start.UTC(), end.UTC()).
		Scan(&counts).Error
	return counts, err
}

// SumInvoices counts invoices and sums their value in [start, end)
func (r *GormActivityRepository) SumInvoices(ctx context.Context, agentID uuid.UUID, start, end time.Time) (performance.InvoiceTotals, error) {
	var totals performance.InvoiceTotals
	err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS value").
		Where("agent_id = ? AND created_at >= ? AND created_at < ?", agentID, start.UTC(), end.UTC()).
		Scan(&totals).Error
	return totals, err
}

// Compile-time interface checks
var (
	_ sales.InvoiceRepository       = (*GormInvoiceRepository)(nil)
	_ vanstock.SalesReader          = (*GormInvoiceRepository)(nil)
	_ sales.VisitRepository         = (*GormVisitRepository)(nil)
	_ sales.RouteScheduleRepository = (*GormRouteScheduleRepository)(nil)
	_ performance.ActivityReader    = (*GormActivityRepository)(nil)
)
