package persistence

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReconciliationRepository implements ReconciliationRepository using GORM
type GormReconciliationRepository struct {
	db *gorm.DB
}

// NewGormReconciliationRepository creates a new GormReconciliationRepository
func NewGormReconciliationRepository(db *gorm.DB) *GormReconciliationRepository {
	return &GormReconciliationRepository{db: db}
}

// FindByID finds a reconciliation by ID with its items
func (r *GormReconciliationRepository) FindByID(ctx context.Context, id uuid.UUID) (*settlement.Reconciliation, error) {
	var model models.ReconciliationModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Reconciliation")
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of reconciliations matching the filter
func (r *GormReconciliationRepository) FindAll(ctx context.Context, filter settlement.ReconciliationFilter) ([]settlement.Reconciliation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReconciliationModel{})
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("business_date >= ?", models.DateOnly(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("business_date <= ?", models.DateOnly(*filter.To))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ReconciliationModel
	if err := paginate(query, filter.Filter, ReconciliationSortFields).Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	recs := make([]settlement.Reconciliation, len(rows))
	for i := range rows {
		recs[i] = *rows[i].ToDomain()
	}
	return recs, total, nil
}

// FindByAgentDay returns every reconciliation filed for the agent-day, oldest first
func (r *GormReconciliationRepository) FindByAgentDay(ctx context.Context, agentID uuid.UUID, businessDate time.Time) ([]settlement.Reconciliation, error) {
	var rows []models.ReconciliationModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("agent_id = ? AND business_date = ?", agentID, models.DateOnly(businessDate)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	recs := make([]settlement.Reconciliation, len(rows))
	for i := range rows {
		recs[i] = *rows[i].ToDomain()
	}
	return recs, nil
}

// Create inserts the reconciliation header and items in one transaction
func (r *GormReconciliationRepository) Create(ctx context.Context, rec *settlement.Reconciliation) error {
	model := models.ReconciliationModelFromDomain(rec)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateError(err, "Reconciliation for this agent and day")
		}
		if len(model.Items) == 0 {
			return nil
		}
		return translateError(tx.Create(&model.Items).Error, "Reconciliation item")
	})
}

// SaveTransition writes the new status only if the stored row is still at
// (from, Version-1). Items are immutable after submission.
func (r *GormReconciliationRepository) SaveTransition(ctx context.Context, rec *settlement.Reconciliation, from settlement.ReconciliationStatus) error {
	model := models.ReconciliationModelFromDomain(rec)
	result := r.db.WithContext(ctx).Model(&models.ReconciliationModel{}).
		Where("id = ? AND status = ? AND version = ?", model.ID, from, model.Version-1).
		Updates(map[string]any{
			"status":        model.Status,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
			"approved_at":   model.ApprovedAt,
			"approved_by":   model.ApprovedBy,
			"disputed_at":   model.DisputedAt,
			"disputed_by":   model.DisputedBy,
			"dispute_notes": model.DisputeNotes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormReconciliationRepository implements ReconciliationRepository
var _ settlement.ReconciliationRepository = (*GormReconciliationRepository)(nil)
