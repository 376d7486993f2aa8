package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockStockLoadRepository creates a GormStockLoadRepository with a mocked SQL connection
func newMockStockLoadRepository(t *testing.T) (*GormStockLoadRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockLoadRepository(gormDB), mock, mockDB
}

func newRequestedLoad(t *testing.T, agentID uuid.UUID, lines ...vanstock.LineQuantity) *vanstock.StockLoad {
	t.Helper()
	load, err := vanstock.NewStockLoad(agentID, lines, "")
	require.NoError(t, err)
	return load
}

func line(productID uuid.UUID, qty int64) vanstock.LineQuantity {
	return vanstock.LineQuantity{ProductID: productID, Quantity: decimal.NewFromInt(qty)}
}

func TestGormStockLoadRepository_SaveTransition_Mock(t *testing.T) {
	t.Run("guards the update with status and prior version", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLoadRepository(t)
		defer mockDB.Close()

		load := newRequestedLoad(t, uuid.New(), line(uuid.New(), 10))
		require.NoError(t, load.Approve(uuid.New(), nil))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_loads" SET .+ WHERE id = \$\d+ AND status = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "stock_load_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveTransition(context.Background(), load, vanstock.LoadStatusRequested)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race returns concurrency conflict and rolls back", func(t *testing.T) {
		repo, mock, mockDB := newMockStockLoadRepository(t)
		defer mockDB.Close()

		load := newRequestedLoad(t, uuid.New(), line(uuid.New(), 10))
		require.NoError(t, load.Approve(uuid.New(), nil))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "stock_loads" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.SaveTransition(context.Background(), load, vanstock.LoadStatusRequested)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormStockLoadRepository_FindByID_NotFound_Mock(t *testing.T) {
	repo, mock, mockDB := newMockStockLoadRepository(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "stock_loads" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockLoadRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLoadRepository(db)
	ctx := context.Background()

	agentID := uuid.New()
	productA, productB := uuid.New(), uuid.New()
	load := newRequestedLoad(t, agentID, line(productA, 100), line(productB, 40))
	load.SetCarryOver(productA, decimal.NewFromInt(5))
	require.NoError(t, repo.Create(ctx, load))

	stored, err := repo.FindByID(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, vanstock.LoadStatusRequested, stored.Status)
	require.Len(t, stored.Items, 2)
	assert.Nil(t, stored.GetItem(productA).ApprovedQuantity)
	assert.True(t, stored.GetItem(productA).CarryOverQuantity.Equal(decimal.NewFromInt(5)))

	require.NoError(t, stored.Approve(uuid.New(), []vanstock.LineQuantity{line(productA, 80)}))
	require.NoError(t, repo.SaveTransition(ctx, stored, vanstock.LoadStatusRequested))

	require.NoError(t, stored.Release(uuid.New(), nil))
	require.NoError(t, repo.SaveTransition(ctx, stored, vanstock.LoadStatusApproved))

	released, err := repo.FindByID(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, vanstock.LoadStatusReleased, released.Status)
	assert.Equal(t, 3, released.Version)
	require.NotNil(t, released.GetItem(productA).ReleasedQuantity)
	assert.True(t, released.GetItem(productA).ReleasedQuantity.Equal(decimal.NewFromInt(80)))
	assert.True(t, released.GetItem(productB).ReleasedQuantity.Equal(decimal.NewFromInt(40)))

	now := time.Now().UTC()
	inWindow, err := repo.FindReleasedBetween(ctx, agentID, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, inWindow, 1)

	latest, err := repo.FindLatestReleased(ctx, agentID, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, load.ID, latest.ID)

	_, err = repo.FindLatestReleased(ctx, agentID, now.Add(-time.Hour))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockLoadRepository_StaleTransitionConflicts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLoadRepository(db)
	ctx := context.Background()

	load := newRequestedLoad(t, uuid.New(), line(uuid.New(), 10))
	require.NoError(t, repo.Create(ctx, load))

	first, err := repo.FindByID(ctx, load.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, load.ID)
	require.NoError(t, err)

	require.NoError(t, first.Approve(uuid.New(), nil))
	require.NoError(t, repo.SaveTransition(ctx, first, vanstock.LoadStatusRequested))

	require.NoError(t, second.Reject(uuid.New(), "duplicate request"))
	err = repo.SaveTransition(ctx, second, vanstock.LoadStatusRequested)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, load.ID)
	require.NoError(t, err)
	assert.Equal(t, vanstock.LoadStatusApproved, stored.Status)
	assert.Empty(t, stored.RejectionReason)
}

func TestGormStockLoadRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockLoadRepository(db)
	ctx := context.Background()

	agentID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newRequestedLoad(t, agentID, line(uuid.New(), int64(i+1)))))
	}
	require.NoError(t, repo.Create(ctx, newRequestedLoad(t, uuid.New(), line(uuid.New(), 1))))

	status := vanstock.LoadStatusRequested
	loads, total, err := repo.FindAll(ctx, vanstock.LoadFilter{
		Filter:  shared.Filter{Page: 1, PageSize: 2, OrderBy: "requested_at", OrderDir: "asc"},
		AgentID: &agentID,
		Status:  &status,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, loads, 2)
	for _, l := range loads {
		assert.Equal(t, agentID, l.AgentID)
		assert.Len(t, l.Items, 1)
	}
}
