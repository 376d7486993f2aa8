package vanstock

import (
	"context"
	"sync"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.EventType()
	}
	return types
}

// MockStockLoadRepository is a mock implementation of vanstock.StockLoadRepository
type MockStockLoadRepository struct {
	mock.Mock
}

func (m *MockStockLoadRepository) FindByID(ctx context.Context, id uuid.UUID) (*vanstock.StockLoad, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vanstock.StockLoad), args.Error(1)
}

func (m *MockStockLoadRepository) FindAll(ctx context.Context, filter vanstock.LoadFilter) ([]vanstock.StockLoad, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]vanstock.StockLoad), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockLoadRepository) Create(ctx context.Context, load *vanstock.StockLoad) error {
	args := m.Called(ctx, load)
	return args.Error(0)
}

func (m *MockStockLoadRepository) SaveTransition(ctx context.Context, load *vanstock.StockLoad, from vanstock.LoadStatus) error {
	args := m.Called(ctx, load, from)
	return args.Error(0)
}

func (m *MockStockLoadRepository) FindReleasedBetween(ctx context.Context, agentID uuid.UUID, start, end time.Time) ([]vanstock.StockLoad, error) {
	args := m.Called(ctx, agentID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]vanstock.StockLoad), args.Error(1)
}

func (m *MockStockLoadRepository) FindLatestReleased(ctx context.Context, agentID uuid.UUID, before time.Time) (*vanstock.StockLoad, error) {
	args := m.Called(ctx, agentID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vanstock.StockLoad), args.Error(1)
}

// MockSalesReader is a mock implementation of vanstock.SalesReader
type MockSalesReader struct {
	mock.Mock
}

func (m *MockSalesReader) SoldQuantities(ctx context.Context, agentID uuid.UUID, start, end time.Time) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, agentID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func agentActor(id uuid.UUID) identity.Actor {
	return identity.NewActor(id, []identity.Role{identity.RoleSalesAgent}, nil)
}

func managerActor() identity.Actor {
	return identity.NewActor(uuid.New(), []identity.Role{identity.RoleSalesManager}, nil)
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// releasedLoad builds a released load of a single product
func releasedLoad(t interface{ Helper() }, agentID, productID uuid.UUID, qty int64, at time.Time) vanstock.StockLoad {
	t.Helper()
	load, err := vanstock.NewStockLoad(agentID, []vanstock.LineQuantity{{ProductID: productID, Quantity: dec(qty)}}, "")
	if err != nil {
		panic(err)
	}
	approver := uuid.New()
	if err := load.Approve(approver, nil); err != nil {
		panic(err)
	}
	if err := load.Release(approver, nil); err != nil {
		panic(err)
	}
	load.ReleasedAt = &at
	load.ClearDomainEvents()
	return *load
}
