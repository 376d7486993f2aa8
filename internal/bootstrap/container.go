// Package bootstrap wires repositories, services, event handlers and HTTP
// handlers into one object graph.
package bootstrap

import (
	"fmt"

	eventapp "github.com/fieldsales/erp/internal/application/event"
	identityapp "github.com/fieldsales/erp/internal/application/identity"
	performanceapp "github.com/fieldsales/erp/internal/application/performance"
	salesapp "github.com/fieldsales/erp/internal/application/sales"
	settlementapp "github.com/fieldsales/erp/internal/application/settlement"
	vanstockapp "github.com/fieldsales/erp/internal/application/vanstock"
	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/fieldsales/erp/internal/domain/settlement"
	"github.com/fieldsales/erp/internal/domain/shared"
	"github.com/fieldsales/erp/internal/domain/vanstock"
	"github.com/fieldsales/erp/internal/infrastructure/auth"
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/fieldsales/erp/internal/infrastructure/event"
	"github.com/fieldsales/erp/internal/infrastructure/persistence"
	"github.com/fieldsales/erp/internal/infrastructure/telemetry"
	"github.com/fieldsales/erp/internal/interfaces/http/handler"
	"github.com/fieldsales/erp/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Stores are the cache-backed collaborators. cache.Factory provides Redis
// or in-memory implementations.
type Stores struct {
	Presence identity.PresenceStore
	KPICache performance.KPICache
	Locker   shared.Locker
}

// Options configure NewContainer
type Options struct {
	Config  *config.Config
	DB      *gorm.DB
	Stores  Stores
	Logger  *zap.Logger
	Meter   metric.Meter // nil disables business and HTTP metrics
	Version string
	Checks  map[string]handler.Pinger
}

// Container holds the wired application
type Container struct {
	EventBus    *event.InMemoryEventBus
	Access      *identityapp.AccessService
	Presence    *identityapp.PresenceService
	Ledger      *vanstockapp.LedgerService
	Loads       *vanstockapp.LoadService
	Settlements *settlementapp.SettlementService
	Sales       *salesapp.IngestService
	KPIs        *performanceapp.KPIService

	opts Options
}

// NewContainer builds every service on top of the given database and stores
func NewContainer(opts Options) (*Container, error) {
	cfg := opts.Config
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	policy := vanstock.LoadPolicy(cfg.Ledger.LoadPolicy)
	if policy == "" {
		policy = vanstock.LoadPolicyLatest
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown ledger load policy %q", cfg.Ledger.LoadPolicy)
	}
	calendar := shared.NewBusinessCalendar(cfg.App.Location())

	loadRepo := persistence.NewGormStockLoadRepository(opts.DB)
	recRepo := persistence.NewGormReconciliationRepository(opts.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(opts.DB)
	visitRepo := persistence.NewGormVisitRepository(opts.DB)
	scheduleRepo := persistence.NewGormRouteScheduleRepository(opts.DB)
	activityRepo := persistence.NewGormActivityRepository(opts.DB)
	targetRepo := persistence.NewGormTargetRepository(opts.DB)
	catalog := persistence.NewGormProductCatalog(opts.DB)
	directory := persistence.NewGormAccessDirectory(opts.DB)

	bus := event.NewInMemoryEventBus(opts.Logger)

	c := &Container{EventBus: bus, opts: opts}
	c.Access = identityapp.NewAccessService(auth.NewJWTService(cfg.JWT), directory, opts.Logger)
	c.Presence = identityapp.NewPresenceService(opts.Stores.Presence, cfg.Presence.TTL)
	c.Ledger = vanstockapp.NewLedgerService(loadRepo, invoiceRepo, vanstock.NewInventoryLedger(policy), calendar)
	c.Loads = vanstockapp.NewLoadService(loadRepo, c.Ledger, bus)
	c.Settlements = settlementapp.NewSettlementService(
		recRepo, c.Ledger, catalog, opts.Stores.Locker,
		settlement.NewCalculator(cfg.Settlement.StrictUnload), calendar, bus,
	)
	c.Sales = salesapp.NewIngestService(invoiceRepo, visitRepo, catalog, recRepo, calendar, bus)
	c.KPIs = performanceapp.NewKPIService(activityRepo, targetRepo, scheduleRepo, opts.Stores.KPICache, calendar)

	bus.Subscribe(eventapp.NewKPIInvalidationHandler(c.KPIs, opts.Logger))
	if opts.Meter != nil {
		fieldMetrics, err := telemetry.NewFieldMetrics(opts.Meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create field metrics: %w", err)
		}
		bus.Subscribe(eventapp.NewMetricsHandler(fieldMetrics))
	}

	return c, nil
}

// Engine assembles the HTTP engine serving the container's services
func (c *Container) Engine() *gin.Engine {
	cfg := c.opts.Config
	return router.NewEngine(router.EngineConfig{
		HTTP:          cfg.HTTP,
		Telemetry:     cfg.Telemetry,
		Logger:        c.opts.Logger,
		Meter:         c.opts.Meter,
		Authenticator: c.Access,
		System:        handler.NewSystemHandler(c.opts.Version, c.opts.Checks),
		Field: router.FieldHandlers{
			Loads:       handler.NewLoadHandler(c.Loads),
			Ledger:      handler.NewLedgerHandler(c.Ledger),
			Settlements: handler.NewSettlementHandler(c.Settlements),
			KPIs:        handler.NewKPIHandler(c.KPIs),
			Sales:       handler.NewSalesHandler(c.Sales),
			Presence:    handler.NewPresenceHandler(c.Presence),
		},
	})
}
