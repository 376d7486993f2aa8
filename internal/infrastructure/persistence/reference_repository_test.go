package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductCatalog_UnitPrices(t *testing.T) {
	db := setupTestDB(t)
	catalog := NewGormProductCatalog(db)
	now := time.Now().UTC()

	known := models.ProductModel{ID: uuid.New(), Code: "SKU-1", Name: "Cola 24x330", SellingPrice: decimal.NewFromInt(48), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.Create(&known).Error)

	missing := uuid.New()
	prices, err := catalog.UnitPrices(context.Background(), []uuid.UUID{known.ID, missing})
	require.NoError(t, err)
	assert.True(t, prices[known.ID].Equal(decimal.NewFromInt(48)))
	_, ok := prices[missing]
	assert.False(t, ok)

	none, err := catalog.UnitPrices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormAccessDirectory(t *testing.T) {
	db := setupTestDB(t)
	dir := NewGormAccessDirectory(db)
	actorID := uuid.New()

	require.NoError(t, db.Create(&[]models.ActorRoleModel{
		{ActorID: actorID, Role: "sales_agent"},
		{ActorID: actorID, Role: "warehouse_clerk"},
	}).Error)
	require.NoError(t, db.Create(&models.ActorPermissionOverrideModel{
		ActorID: actorID, Permission: string(identity.PermKPIRead),
	}).Error)

	roles, err := dir.RolesOf(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, []identity.Role{identity.RoleSalesAgent}, roles)

	perms, err := dir.OverridesOf(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, []identity.Permission{identity.PermKPIRead}, perms)
}

func TestGormTargetRepository_FindOverlapping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTargetRepository(db)
	agentID := uuid.New()
	now := time.Now().UTC()

	march := models.AgentTargetModel{
		ID: uuid.New(), AgentID: agentID,
		PeriodStart: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TargetValue: decimal.NewFromInt(31000), CreatedAt: now, UpdatedAt: now,
	}
	may := models.AgentTargetModel{
		ID: uuid.New(), AgentID: agentID,
		PeriodStart: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC),
		TargetValue: decimal.NewFromInt(10000), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, db.Create(&[]models.AgentTargetModel{march, may}).Error)

	targets, err := repo.FindOverlapping(context.Background(), agentID,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, march.ID, targets[0].ID)
}
