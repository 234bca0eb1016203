package scheduling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atelier/studio-engine/domain"
	"github.com/atelier/studio-engine/scheduling"
)

func usage(id string, qty int) domain.ProductUsage {
	return domain.ProductUsage{ProductID: domain.ProductID(id), Quantity: qty}
}

func TestMergeUsage_SumsDuplicatesInFirstEncounterOrder(t *testing.T) {
	merged := scheduling.MergeUsage([]domain.ProductUsage{
		usage("gel", 1),
		usage("clay", 2),
		usage("gel", 2),
	})
	assert.Equal(t, []domain.ProductUsage{usage("gel", 3), usage("clay", 2)}, merged)
}

func TestMergeUsage_DropsZeroQuantities(t *testing.T) {
	merged := scheduling.MergeUsage([]domain.ProductUsage{
		usage("gel", 0),
		usage("clay", 1),
	})
	assert.Equal(t, []domain.ProductUsage{usage("clay", 1)}, merged)
}

func TestUsageDiff_NetsOldAgainstNew(t *testing.T) {
	// old: gel 3, clay 1; new: gel 5, oil 2
	// diff: gel +2, clay -1, oil +2
	diff := scheduling.UsageDiff(
		[]domain.ProductUsage{usage("gel", 3), usage("clay", 1)},
		[]domain.ProductUsage{usage("gel", 5), usage("oil", 2)},
	)
	assert.Equal(t, map[domain.ProductID]int{"gel": 2, "clay": -1, "oil": 2}, diff)
}

func TestUsageDiff_IdenticalUsageNetsToZero(t *testing.T) {
	old := []domain.ProductUsage{usage("gel", 3)}
	diff := scheduling.UsageDiff(old, old)
	assert.Equal(t, 0, diff["gel"])
}
