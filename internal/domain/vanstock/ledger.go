package vanstock

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LoadPolicy decides how several released loads on one day combine
type LoadPolicy string

const (
	// LoadPolicyLatest counts only the most recently released load of the day
	LoadPolicyLatest LoadPolicy = "latest"
	// LoadPolicyCumulative sums every load released that day
	LoadPolicyCumulative LoadPolicy = "cumulative"
)

// IsValid checks if the policy is known
func (p LoadPolicy) IsValid() bool {
	return p == LoadPolicyLatest || p == LoadPolicyCumulative
}

// LedgerEntry is an agent's position in one product for one business day.
// Remaining is negative when more was invoiced than loaded.
type LedgerEntry struct {
	AgentID   uuid.UUID
	ProductID uuid.UUID
	Date      time.Time
	Loaded    decimal.Decimal
	Sold      decimal.Decimal
	Remaining decimal.Decimal
}

// InventoryLedger derives day positions from released loads and invoiced sales.
// It holds no state: the same inputs always yield the same entries.
type InventoryLedger struct {
	policy LoadPolicy
}

// NewInventoryLedger creates a ledger using the given policy, defaulting to latest
func NewInventoryLedger(policy LoadPolicy) InventoryLedger {
	if !policy.IsValid() {
		policy = LoadPolicyLatest
	}
	return InventoryLedger{policy: policy}
}

// Policy returns the active load policy
func (l InventoryLedger) Policy() LoadPolicy {
	return l.policy
}

// Derive builds one entry per product that was loaded or sold on day.
// loads are the agent's loads released within the day; other statuses are ignored.
// Entries are ordered by product ID.
func (l InventoryLedger) Derive(agentID uuid.UUID, day time.Time, loads []StockLoad, sold map[uuid.UUID]decimal.Decimal) []LedgerEntry {
	loaded := l.loadedQuantities(loads)

	products := make(map[uuid.UUID]struct{}, len(loaded)+len(sold))
	for id := range loaded {
		products[id] = struct{}{}
	}
	for id := range sold {
		products[id] = struct{}{}
	}

	entries := make([]LedgerEntry, 0, len(products))
	for id := range products {
		entries = append(entries, newLedgerEntry(agentID, id, day, loaded[id], sold[id]))
	}
	sort.Slice(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].ProductID[:], entries[j].ProductID[:]) < 0
	})
	return entries
}

// DeriveProduct builds the entry of a single product. A product with no
// activity yields an all-zero entry.
func (l InventoryLedger) DeriveProduct(agentID, productID uuid.UUID, day time.Time, loads []StockLoad, sold decimal.Decimal) LedgerEntry {
	loaded := l.loadedQuantities(loads)
	return newLedgerEntry(agentID, productID, day, loaded[productID], sold)
}

func (l InventoryLedger) loadedQuantities(loads []StockLoad) map[uuid.UUID]decimal.Decimal {
	released := make([]*StockLoad, 0, len(loads))
	for i := range loads {
		if loads[i].Status == LoadStatusReleased && loads[i].ReleasedAt != nil {
			released = append(released, &loads[i])
		}
	}
	out := make(map[uuid.UUID]decimal.Decimal)
	if len(released) == 0 {
		return out
	}

	if l.policy == LoadPolicyLatest {
		released = []*StockLoad{latestReleased(released)}
	}
	for _, load := range released {
		for i := range load.Items {
			item := &load.Items[i]
			out[item.ProductID] = out[item.ProductID].Add(item.LoadedQuantity())
		}
	}
	return out
}

// latestReleased picks the load with the greatest release time; ties fall
// back to the greater ID so the choice is deterministic.
func latestReleased(loads []*StockLoad) *StockLoad {
	latest := loads[0]
	for _, load := range loads[1:] {
		switch {
		case load.ReleasedAt.After(*latest.ReleasedAt):
			latest = load
		case load.ReleasedAt.Equal(*latest.ReleasedAt) && bytes.Compare(load.ID[:], latest.ID[:]) > 0:
			latest = load
		}
	}
	return latest
}

func newLedgerEntry(agentID, productID uuid.UUID, day time.Time, loaded, sold decimal.Decimal) LedgerEntry {
	return LedgerEntry{
		AgentID:   agentID,
		ProductID: productID,
		Date:      day,
		Loaded:    loaded,
		Sold:      sold,
		Remaining: loaded.Sub(sold),
	}
}
