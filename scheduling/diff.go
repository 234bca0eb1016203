package scheduling

import "github.com/atelier/studio-engine/domain"

// =============================================================================
// USAGE DIFF
// =============================================================================
// The usage diff is the signed per-product change needed to move stock
// from reflecting the old recorded consumption to the new one in a
// single step. It is what makes re-saving a finished appointment safe:
// products from the previous finalization are returned and the new
// usage withdrawn in one net adjustment, instead of subtracting the
// same consumption twice.

// MergeUsage collapses repeated product ids by summing their
// quantities, preserving first-encounter order. Zero-quantity entries
// are dropped.
func MergeUsage(usage []domain.ProductUsage) []domain.ProductUsage {
	index := make(map[domain.ProductID]int, len(usage))
	merged := make([]domain.ProductUsage, 0, len(usage))
	for _, u := range usage {
		if u.Quantity == 0 {
			continue
		}
		if i, ok := index[u.ProductID]; ok {
			merged[i].Quantity += u.Quantity
			continue
		}
		index[u.ProductID] = len(merged)
		merged = append(merged, u)
	}
	return merged
}

// UsageDiff nets new usage against old usage per product. A positive
// value means "consume this much more than before" (stock decreases);
// a negative value means "return this much" (stock increases).
//
// Example: old={p1:1}, new={p1:3} gives {p1:+2}; old={p1:2}, new={p1:1}
// gives {p1:-1}. On first finalization old is empty and the diff equals
// the new usage.
func UsageDiff(old, new []domain.ProductUsage) map[domain.ProductID]int {
	diff := make(map[domain.ProductID]int, len(old)+len(new))
	for _, u := range old {
		diff[u.ProductID] -= u.Quantity
	}
	for _, u := range new {
		diff[u.ProductID] += u.Quantity
	}
	return diff
}
