package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/atelier/studio-engine/domain"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestStartOfWeek_SundayBased(t *testing.T) {
	// March 11 2026 is a Wednesday; its week starts Sunday March 8.
	sunday := date(2026, time.March, 8, 0)
	assert.Equal(t, sunday, domain.StartOfWeek(date(2026, time.March, 11, 15)))
	assert.Equal(t, sunday, domain.StartOfWeek(date(2026, time.March, 8, 0)), "a Sunday starts its own week")
	assert.Equal(t, sunday, domain.StartOfWeek(date(2026, time.March, 14, 23)), "Saturday closes the week")
}

func TestSameWeek_BoundariesAreExclusive(t *testing.T) {
	wednesday := date(2026, time.March, 11, 15)

	assert.True(t, domain.SameWeek(wednesday, date(2026, time.March, 8, 0)))
	assert.True(t, domain.SameWeek(wednesday, date(2026, time.March, 14, 23)))
	assert.False(t, domain.SameWeek(wednesday, date(2026, time.March, 7, 23)), "previous Saturday")
	assert.False(t, domain.SameWeek(wednesday, date(2026, time.March, 15, 0)), "next Sunday")
}

func TestSameDay_IgnoresTimeOfDay(t *testing.T) {
	assert.True(t, domain.SameDay(date(2026, time.March, 10, 0), date(2026, time.March, 10, 23)))
	assert.False(t, domain.SameDay(date(2026, time.March, 10, 23), date(2026, time.March, 11, 0)))
}

func TestSameMonth_CrossesYears(t *testing.T) {
	assert.True(t, domain.SameMonth(date(2026, time.March, 1, 0), date(2026, time.March, 31, 23)))
	assert.False(t, domain.SameMonth(date(2025, time.March, 10, 0), date(2026, time.March, 10, 0)))
}
