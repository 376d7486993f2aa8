package persistence

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLoadRepository implements StockLoadRepository using GORM
type GormStockLoadRepository struct {
	db *gorm.DB
}

// NewGormStockLoadRepository creates a new GormStockLoadRepository
func NewGormStockLoadRepository(db *gorm.DB) *GormStockLoadRepository {
	return &GormStockLoadRepository{db: db}
}

// FindByID finds a stock load by ID with its items
func (r *GormStockLoadRepository) FindByID(ctx context.Context, id uuid.UUID) (*vanstock.StockLoad, error) {
	var model models.StockLoadModel
	if err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Stock load")
	}
	return model.ToDomain(), nil
}

// FindAll returns a page of stock loads matching the filter
func (r *GormStockLoadRepository) FindAll(ctx context.Context, filter vanstock.LoadFilter) ([]vanstock.StockLoad, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockLoadModel{})
	if filter.AgentID != nil {
		query = query.Where("agent_id = ?", *filter.AgentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("requested_at >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		query = query.Where("requested_at < ?", filter.To.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.StockLoadModel
	if err := paginate(query, filter.Filter, StockLoadSortFields).Preload("Items").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	loads := make([]vanstock.StockLoad, len(rows))
	for i := range rows {
		loads[i] = *rows[i].ToDomain()
	}
	return loads, total, nil
}

// Create inserts the load header and its items in one statement batch
func (r *GormStockLoadRepository) Create(ctx context.Context, load *vanstock.StockLoad) error {
	model := models.StockLoadModelFromDomain(load)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Create(model).Error; err != nil {
			return translateError(err, "Stock load")
		}
		if len(model.Items) == 0 {
			return nil
		}
		return translateError(tx.Create(&model.Items).Error, "Stock load item")
	})
}

// SaveTransition writes the new status and per-item quantities only if the
// stored row is still at (from, Version-1). Nothing is written otherwise.
func (r *GormStockLoadRepository) SaveTransition(ctx context.Context, load *vanstock.StockLoad, from vanstock.LoadStatus) error {
	model := models.StockLoadModelFromDomain(load)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.StockLoadModel{}).
			Where("id = ? AND status = ? AND version = ?", model.ID, from, model.Version-1).
			Updates(map[string]any{
				"status":           model.Status,
				"version":          model.Version,
				"updated_at":       model.UpdatedAt,
				"approved_at":      model.ApprovedAt,
				"approved_by":      model.ApprovedBy,
				"released_at":      model.ReleasedAt,
				"released_by":      model.ReleasedBy,
				"rejected_at":      model.RejectedAt,
				"rejected_by":      model.RejectedBy,
				"rejection_reason": model.RejectionReason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		for _, item := range model.Items {
			err := tx.Model(&models.StockLoadItemModel{}).
				Where("id = ?", item.ID).
				Updates(map[string]any{
					"approved_quantity":   item.ApprovedQuantity,
					"released_quantity":   item.ReleasedQuantity,
					"carry_over_quantity": item.CarryOverQuantity,
					"updated_at":          item.UpdatedAt,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// FindReleasedBetween returns the agent's loads released in [start, end)
func (r *GormStockLoadRepository) FindReleasedBetween(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]vanstock.StockLoad, error) {
	var rows []models.StockLoadModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("agent_id = ? AND status = ? AND released_at >= ? AND released_at < ?",
			agentID, vanstock.LoadStatusReleased, start.UTC(), end.UTC()).
		Order("released_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	loads := make([]vanstock.StockLoad, len(rows))
	for i := range rows {
		loads[i] = *rows[i].ToDomain()
	}
	return loads, nil
}

// FindLatestReleased returns the agent's most recent release before the instant
func (r *GormStockLoadRepository) FindLatestReleased(ctx context.Context, agentID uuid.UUID, before time.Time) (*vanstock.StockLoad, error) {
	var model models.StockLoadModel
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("agent_id = ? AND status = ? AND released_at < ?", agentID, vanstock.LoadStatusReleased, before.UTC()).
		Order("released_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		return nil, translateError(err, "Released load")
	}
	return model.ToDomain(), nil
}

// Ensure GormStockLoadRepository implements StockLoadRepository
var _ vanstock.StockLoadRepository = (*GormStockLoadRepository)(nil)
