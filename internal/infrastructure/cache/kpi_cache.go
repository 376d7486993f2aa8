package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/fieldsales/erp/internal/domain/performance"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultKPIPrefix = "kpi:"

// RedisKPICache caches KPI results in Redis. Each agent has a generation
// counter embedded in its keys; invalidation bumps the counter so stale
// entries become unreachable and age out with their TTL.
type RedisKPICache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisKPICache creates a KPI cache with an existing Redis client
func NewRedisKPICache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisKPICache {
	if keyPrefix == "" {
		keyPrefix = defaultKPIPrefix
	}
	return &RedisKPICache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (c *RedisKPICache) generationKey(agentID uuid.UUID) string {
	return c.keyPrefix + "gen:" + agentID.String()
}

func (c *RedisKPICache) entryKey(ctx context.Context, agentID uuid.UUID, from, to time.Time) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey(agentID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return rangeKey(c.keyPrefix+strconv.FormatInt(gen, 10)+":", agentID, from, to), nil
}

// Get returns cached KPIs for the range
func (c *RedisKPICache) Get(ctx context.Context, agentID uuid.UUID, from, to time.Time) (*performance.AgentKPIs, bool, error) {
	key, err := c.entryKey(ctx, agentID, from, to)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read KPI cache: %w", err)
	}
	var kpis performance.AgentKPIs
	if err := json.Unmarshal(raw, &kpis); err != nil {
		return nil, false, err
	}
	return &kpis, true, nil
}

// Set stores KPIs for their range
func (c *RedisKPICache) Set(ctx context.Context, kpis *performance.AgentKPIs) error {
	key, err := c.entryKey(ctx, kpis.AgentID, kpis.From, kpis.To)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(kpis)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, c.ttl).Err()
}

// InvalidateAgent bumps the agent's generation counter
func (c *RedisKPICache) InvalidateAgent(ctx context.Context, agentID uuid.UUID) error {
	return c.client.Incr(ctx, c.generationKey(agentID)).Err()
}

func rangeKey(prefix string, agentID uuid.UUID, from, to time.Time) string {
	return prefix + agentID.String() + ":" + from.Format("2006-01-02") + ":" + to.Format("2006-01-02")
}

type kpiEntry struct {
	kpis      performance.AgentKPIs
	expiresAt time.Time
}

// InMemoryKPICache is a process-local KPI cache
type InMemoryKPICache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]map[string]kpiEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryKPICache creates an in-memory KPI cache
func NewInMemoryKPICache(ttl time.Duration) *InMemoryKPICache {
	return &InMemoryKPICache{
		entries: make(map[uuid.UUID]map[string]kpiEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns cached KPIs for the range if not expired
func (c *InMemoryKPICache) Get(_ context.Context, agentID uuid.UUID, from, to time.Time) (*performance.AgentKPIs, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[agentID][rangeKey("", agentID, from, to)]
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	kpis := entry.kpis
	return &kpis, true, nil
}

// Set stores KPIs for their range
func (c *InMemoryKPICache) Set(_ context.Context, kpis *performance.AgentKPIs) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	byRange, ok := c.entries[kpis.AgentID]
	if !ok {
		byRange = make(map[string]kpiEntry)
		c.entries[kpis.AgentID] = byRange
	}
	byRange[rangeKey("", kpis.AgentID, kpis.From, kpis.To)] = kpiEntry{kpis: *kpis, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// InvalidateAgent drops every cached range for the agent
func (c *InMemoryKPICache) InvalidateAgent(_ context.Context, agentID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, agentID)
	return nil
}

var (
	_ performance.KPICache = (*RedisKPICache)(nil)
	_ performance.KPICache = (*InMemoryKPICache)(nil)
)
