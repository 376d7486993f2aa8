package persistence

import (
	"context"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormProductCatalog reads selling prices from the product catalog
type GormProductCatalog struct {
	db *gorm.DB
}

// NewGormProductCatalog creates a new GormProductCatalog
func NewGormProductCatalog(db *gorm.DB) *GormProductCatalog {
	return &GormProductCatalog{db: db}
}

// UnitPrices returns the selling price of each known product.
// Unknown products are absent from the result.
func (c *GormProductCatalog) UnitPrices(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	prices := make(map[uuid.UUID]decimal.Decimal, len(productIDs))
	if len(productIDs) == 0 {
		return prices, nil
	}
	var rows []models.ProductModel
	if err := c.db.WithContext(ctx).Select("id", "selling_price").Where("id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		prices[row.ID] = row.SellingPrice
	}
	return prices, nil
}

// GormAccessDirectory reads role assignments and permission grants
type GormAccessDirectory struct {
	db *gorm.DB
}

// NewGormAccessDirectory creates a new GormAccessDirectory
func NewGormAccessDirectory(db *gorm.DB) *GormAccessDirectory {
	return &GormAccessDirectory{db: db}
}

// RolesOf returns the actor's roles, skipping codes this engine does not know
func (d *GormAccessDirectory) RolesOf(ctx context.Context, actorID uuid.UUID) ([]identity.Role, error) {
	var codes []string
	if err := d.db.WithContext(ctx).Model(&models.ActorRoleModel{}).Where("actor_id = ?", actorID).Order("role").Pluck("role", &codes).Error; err != nil {
		return nil, err
	}
	roles := make([]identity.Role, 0, len(codes))
	for _, code := range codes {
		if role, ok := identity.ParseRole(code); ok {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// OverridesOf returns per-actor permission grants
func (d *GormAccessDirectory) OverridesOf(ctx context.Context, actorID uuid.UUID) ([]identity.Permission, error) {
	var codes []string
	if err := d.db.WithContext(ctx).Model(&models.ActorPermissionOverrideModel{}).Where("actor_id = ?", actorID).Order("permission").Pluck("permission", &codes).Error; err != nil {
		return nil, err
	}
	perms := make([]identity.Permission, len(codes))
	for i, code := range codes {
		perms[i] = identity.Permission(code)
	}
	return perms, nil
}

// GormTargetRepository reads agent sales targets
type GormTargetRepository struct {
	db *gorm.DB
}

// NewGormTargetRepository creates a new GormTargetRepository
func NewGormTargetRepository(db *gorm.DB) *GormTargetRepository {
	return &GormTargetRepository{db: db}
}

// FindOverlapping returns targets whose period intersects [from, to]
func (r *GormTargetRepository) FindOverlapping(ctx context.Context, agentID uuid.UUID, from, to time.Time) ([]performance.AgentTarget, error) {
	var rows []models.AgentTargetModel
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND period_start <= ? AND period_end >= ?", agentID, models.DateOnly(to), models.DateOnly(from)).
		Order("period_start").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	targets := make([]performance.AgentTarget, len(rows))
	for i := range rows {
		targets[i] = rows[i].ToDomain()
	}
	return targets, nil
}

// Compile-time interface checks
var (
	_ settlement.PriceList         = (*GormProductCatalog)(nil)
	_ identity.AccessDirectory     = (*GormAccessDirectory)(nil)
	_ performance.TargetRepository = (*GormTargetRepository)(nil)
)
