package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldsales/erp/internal/domain/identity"
	"github.com/fieldsales/erp/internal/infrastructure/auth"
	"github.com/fieldsales/erp/internal/infrastructure/cache"
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/fieldsales/erp/internal/infrastructure/persistence/models"
	"github.com/fieldsales/erp/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FieldDaySuite drives a full agent day through the HTTP API on SQLite
type FieldDaySuite struct {
	suite.Suite

	db        *gorm.DB
	engine    *gin.Engine
	container *Container
	jwt       *auth.JWTService

	productID  uuid.UUID
	agent      uuid.UUID
	manager    uuid.UUID
	accountant uuid.UUID
	today      string
}

func TestFieldDaySuite(t *testing.T) {
	suite.Run(t, new(FieldDaySuite))
}

func (s *FieldDaySuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	t := s.T()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	require.NoError(t, db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_reconciliations_live_agent_day
		 ON reconciliations (agent_id, business_date) WHERE status <> 'disputed'`,
	).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	s.db = db

	cfg := &config.Config{
		App:        config.AppConfig{Name: "fieldsales-test", Timezone: "UTC"},
		JWT:        config.JWTConfig{Secret: "e2e-secret-with-enough-entropy", Issuer: "identity-test"},
		Ledger:     config.LedgerConfig{LoadPolicy: "latest"},
		Settlement: config.SettlementConfig{LockTTL: 5 * time.Second},
		KPI:        config.KPIConfig{CacheTTL: time.Minute},
		Presence:   config.PresenceConfig{TTL: time.Minute},
	}

	stores := cache.NewFactory(config.RedisConfig{})
	require.NoError(t, stores.Connect(context.Background()))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	s.container, err = NewContainer(Options{
		Config: cfg,
		DB:     db,
		Stores: Stores{
			Presence: stores.PresenceStore(),
			KPICache: stores.KPICache(cfg.KPI.CacheTTL),
			Locker:   stores.Locker(cfg.Settlement.LockTTL, cfg.Settlement.LockRetries),
		},
		Logger:  zaptest.NewLogger(t),
		Meter:   mp.Meter("fieldsales"),
		Version: "test",
		Checks: map[string]handler.Pinger{
			"database": handler.PingerFunc(sqlDB.PingContext),
		},
	})
	require.NoError(t, err)
	s.engine = s.container.Engine()
	s.jwt = auth.NewJWTService(cfg.JWT)

	s.productID = uuid.New()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.ProductModel{
		ID: s.productID, Code: "SKU-001", Name: "Juice 1L", SellingPrice: decimal.NewFromInt(48),
		CreatedAt: now, UpdatedAt: now,
	}).Error)

	s.agent, s.manager, s.accountant = uuid.New(), uuid.New(), uuid.New()
	require.NoError(t, db.Create([]models.ActorRoleModel{
		{ActorID: s.agent, Role: string(identity.RoleSalesAgent)},
		{ActorID: s.manager, Role: string(identity.RoleSalesManager)},
		{ActorID: s.accountant, Role: string(identity.RoleAccountant)},
	}).Error)

	s.today = now.Format("2006-01-02")
}

func (s *FieldDaySuite) token(actorID uuid.UUID) string {
	tok, err := s.jwt.Issue(actorID, "user-"+actorID.String()[:8], time.Hour)
	s.Require().NoError(err)
	return tok
}

func (s *FieldDaySuite) call(actorID uuid.UUID, method, path string, body any) (int, envelope) {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/api/v1/field"+path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID != uuid.Nil {
		req.Header.Set("Authorization", "Bearer "+s.token(actorID))
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *FieldDaySuite) decode(env envelope, out any) {
	s.Require().NoError(json.Unmarshal(env.Data, out))
}

func (s *FieldDaySuite) TestFullDay() {
	line := func(qty string) []map[string]any {
		return []map[string]any{{"product_id": s.productID, "quantity": qty}}
	}

	// request 100
	code, env := s.call(s.agent, http.MethodPost, "/loads", map[string]any{"items": line("100")})
	s.Require().Equal(http.StatusCreated, code, env.Error)
	var load struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	s.decode(env, &load)
	s.Equal("requested", load.Status)
	loadPath := "/loads/" + load.ID.String()

	// agents cannot approve their own loads
	code, env = s.call(s.agent, http.MethodPost, loadPath+"/approve", map[string]any{"items": line("80")})
	s.Equal(http.StatusForbidden, code)
	s.Equal("PERMISSION_DENIED", env.Error.Code)

	// approve 80, release as approved
	code, env = s.call(s.manager, http.MethodPost, loadPath+"/approve", map[string]any{"items": line("80")})
	s.Require().Equal(http.StatusOK, code, env.Error)
	code, env = s.call(s.manager, http.MethodPost, loadPath+"/release", nil)
	s.Require().Equal(http.StatusOK, code, env.Error)
	s.decode(env, &load)
	s.Equal("released", load.Status)

	// released is final for the load workflow
	code, env = s.call(s.manager, http.MethodPost, loadPath+"/reject", map[string]any{"reason": "late"})
	s.Equal(http.StatusUnprocessableEntity, code)
	s.Equal("INVALID_STATE_TRANSITION", env.Error.Code)

	// sell 50 at the catalog price of 48
	code, env = s.call(s.agent, http.MethodPost, "/invoices", map[string]any{
		"customer_id": uuid.New(),
		"items":       line("50"),
	})
	s.Require().Equal(http.StatusCreated, code, env.Error)

	code, env = s.call(s.agent, http.MethodPost, "/visits", map[string]any{
		"customer_id": uuid.New(),
		"outcome":     "no_sale",
	})
	s.Require().Equal(http.StatusCreated, code, env.Error)

	// ledger: 80 loaded, 50 sold, 30 remaining
	code, env = s.call(s.agent, http.MethodGet,
		"/agents/"+s.agent.String()+"/ledger?product_id="+s.productID.String()+"&date="+s.today, nil)
	s.Require().Equal(http.StatusOK, code, env.Error)
	var entry struct {
		Loaded    decimal.Decimal `json:"loaded"`
		Sold      decimal.Decimal `json:"sold"`
		Remaining decimal.Decimal `json:"remaining"`
	}
	s.decode(env, &entry)
	s.True(entry.Loaded.Equal(decimal.NewFromInt(80)), entry.Loaded.String())
	s.True(entry.Sold.Equal(decimal.NewFromInt(50)), entry.Sold.String())
	s.True(entry.Remaining.Equal(decimal.NewFromInt(30)), entry.Remaining.String())

	// another agent's ledger is off limits
	code, _ = s.call(s.agent, http.MethodGet, "/agents/"+s.manager.String()+"/ledger", nil)
	s.Equal(http.StatusForbidden, code)

	// unload 20 keeping 10, hand in 2400
	code, env = s.call(s.agent, http.MethodPost, "/reconciliations", map[string]any{
		"business_date":  s.today,
		"items":          []map[string]any{{"product_id": s.productID, "unload_quantity": "20"}},
		"cash_collected": "2400",
	})
	s.Require().Equal(http.StatusCreated, code, env.Error)
	var rec struct {
		ID           uuid.UUID       `json:"id"`
		Status       string          `json:"status"`
		ExpectedCash decimal.Decimal `json:"expected_cash"`
		Variance     decimal.Decimal `json:"variance"`
	}
	s.decode(env, &rec)
	s.Equal("submitted", rec.Status)
	s.True(rec.ExpectedCash.Equal(decimal.NewFromInt(2400)), rec.ExpectedCash.String())
	s.True(rec.Variance.IsZero(), rec.Variance.String())

	// a second live reconciliation for the day is refused
	code, _ = s.call(s.agent, http.MethodPost, "/reconciliations", map[string]any{
		"business_date":  s.today,
		"cash_collected": "2400",
	})
	s.Equal(http.StatusConflict, code)

	// finance approves
	code, env = s.call(s.accountant, http.MethodPost, "/reconciliations/"+rec.ID.String()+"/approve", nil)
	s.Require().Equal(http.StatusOK, code, env.Error)
	s.decode(env, &rec)
	s.Equal("approved", rec.Status)

	// the day's sales show up in the agent's KPIs
	code, env = s.call(s.manager, http.MethodGet,
		"/agents/"+s.agent.String()+"/kpis?from="+s.today+"&to="+s.today, nil)
	s.Require().Equal(http.StatusOK, code, env.Error)
	var kpis struct {
		TotalVisits     int64           `json:"total_visits"`
		TotalInvoices   int64           `json:"total_invoices"`
		TotalSalesValue decimal.Decimal `json:"total_sales_value"`
	}
	s.decode(env, &kpis)
	s.Equal(int64(1), kpis.TotalVisits)
	s.Equal(int64(1), kpis.TotalInvoices)
	s.True(kpis.TotalSalesValue.Equal(decimal.NewFromInt(2400)), kpis.TotalSalesValue.String())

	assert.Zero(s.T(), s.container.EventBus.Failures())
}

func (s *FieldDaySuite) TestPresence() {
	code, env := s.call(s.agent, http.MethodPost, "/presence/heartbeat", nil)
	s.Require().Equal(http.StatusOK, code, env.Error)

	code, env = s.call(s.manager, http.MethodGet, "/agents/"+s.agent.String()+"/presence", nil)
	s.Require().Equal(http.StatusOK, code, env.Error)
	var presence struct {
		Online bool `json:"online"`
	}
	s.decode(env, &presence)
	s.True(presence.Online)

	code, _ = s.call(s.manager, http.MethodPost, "/presence/heartbeat", nil)
	s.Equal(http.StatusForbidden, code)
}

func (s *FieldDaySuite) TestAuthentication() {
	code, env := s.call(uuid.Nil, http.MethodGet, "/loads", nil)
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("UNAUTHORIZED", env.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	s.Equal(http.StatusOK, w.Code)
}
