package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/fieldsales/erp/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("field", "/field")
		assert.Equal(t, "field", g.Name())
		assert.Equal(t, "/field", g.Prefix())
	})

	t.Run("middleware applies to subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test").Use(func(c *gin.Context) {
			c.Header("X-Group", "test")
			c.Next()
		})
		g.Group("items", "/items").
			GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
			POST("/:id/archive", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/items", nil))
		assert.Equal(t, "list", w.Body.String())
		assert.Equal(t, "test", w.Header().Get("X-Group"))

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/test/items/42/archive", nil))
		assert.Equal(t, "42", w.Body.String())
	})
}

func fieldEngine() *gin.Engine {
	engine := gin.New()
	NewRouter(engine).Register(NewFieldGroup(FieldHandlers{
		Loads:       handler.NewLoadHandler(nil),
		Ledger:      handler.NewLedgerHandler(nil),
		Settlements: handler.NewSettlementHandler(nil),
		KPIs:        handler.NewKPIHandler(nil),
		Sales:       handler.NewSalesHandler(nil),
		Presence:    handler.NewPresenceHandler(nil),
	})).Setup()
	return engine
}

func TestNewFieldGroup_RouteTable(t *testing.T) {
	engine := fieldEngine()

	var got []string
	for _, r := range engine.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	sort.Strings(got)

	want := []string{
		"GET /api/v1/field/agents/:agent_id/carry-over",
		"GET /api/v1/field/agents/:agent_id/kpis",
		"GET /api/v1/field/agents/:agent_id/ledger",
		"GET /api/v1/field/agents/:agent_id/presence",
		"GET /api/v1/field/loads",
		"GET /api/v1/field/loads/:id",
		"GET /api/v1/field/reconciliations",
		"GET /api/v1/field/reconciliations/:id",
		"POST /api/v1/field/invoices",
		"POST /api/v1/field/loads",
		"POST /api/v1/field/loads/:id/approve",
		"POST /api/v1/field/loads/:id/reject",
		"POST /api/v1/field/loads/:id/release",
		"POST /api/v1/field/presence/heartbeat",
		"POST /api/v1/field/reconciliations",
		"POST /api/v1/field/reconciliations/:id/approve",
		"POST /api/v1/field/reconciliations/:id/dispute",
		"POST /api/v1/field/visits",
	}
	assert.Equal(t, want, got)
}

var swagRouter = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)
var swagPathParam = regexp.MustCompile(`\{(\w+)\}`)

// Every mounted field route carries a swag @Router annotation so the
// generated API docs stay complete.
func TestNewFieldGroup_RoutesDocumented(t *testing.T) {
	files, err := filepath.Glob("../handler/*.go")
	require.NoError(t, err)

	documented := map[string]bool{}
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		src, err := os.ReadFile(f)
		require.NoError(t, err)
		for _, m := range swagRouter.FindAllStringSubmatch(string(src), -1) {
			path := swagPathParam.ReplaceAllString(m[1], ":$1")
			documented[strings.ToUpper(m[2])+" /api/v1"+path] = true
		}
	}
	require.NotEmpty(t, documented)

	for _, r := range fieldEngine().Routes() {
		route := r.Method + " " + r.Path
		assert.True(t, documented[route], "missing @Router for %s", route)
	}
}
