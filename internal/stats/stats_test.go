package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"
)

var now = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func asset(id string, status metadata.Status, assignee *string) models.EnrichedAsset {
	a := models.EnrichedAsset{}
	a.ID = id
	a.Status = status
	a.AssignedTo = assignee
	a.Category = "laptop"
	return a
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestRatesOnEmptyCollection(t *testing.T) {
	assert.Equal(t, 0.0, UtilizationRate(nil))
	assert.Equal(t, 0.0, MaintenanceRate(nil))
	assert.Equal(t, 0.0, AverageAgeYears(nil, now))
}

func TestUtilizationRate(t *testing.T) {
	assets := []models.EnrichedAsset{
		asset("a1", metadata.StatusActive, strPtr("u1")),
		asset("a2", metadata.StatusActive, nil),
		asset("a3", metadata.StatusMaintenance, strPtr("u2")),
		asset("a4", metadata.StatusRetired, nil),
	}

	rate := UtilizationRate(assets)
	assert.Equal(t, 0.5, rate)
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)
}

func TestMaintenanceRate(t *testing.T) {
	assets := []models.EnrichedAsset{
		asset("a1", metadata.StatusMaintenance, nil),
		asset("a2", metadata.StatusActive, nil),
		asset("a3", metadata.StatusActive, nil),
		asset("a4", metadata.StatusMaintenance, nil),
	}

	rate := MaintenanceRate(assets)
	assert.Equal(t, 0.5, rate)
	assert.GreaterOrEqual(t, rate, 0.0)
	assert.LessOrEqual(t, rate, 1.0)
}

func TestTotalsByStatusAndCategory(t *testing.T) {
	assets := []models.EnrichedAsset{
		asset("a1", metadata.StatusActive, nil),
		asset("a2", metadata.StatusActive, nil),
		asset("a3", metadata.StatusDamaged, nil),
	}
	assets[2].Category = "phone"

	byStatus := TotalsByStatus(assets)
	assert.Equal(t, 2, byStatus[metadata.StatusActive])
	assert.Equal(t, 1, byStatus[metadata.StatusDamaged])

	byCategory := TotalsByCategory(assets)
	assert.Equal(t, 2, byCategory["laptop"])
	assert.Equal(t, 1, byCategory["phone"])
}

func TestAverageAgeYearsExcludesUnknownPurchaseDates(t *testing.T) {
	twoYearsAgo := now.AddDate(-2, 0, 0)
	fourYearsAgo := now.AddDate(-4, 0, 0)

	withDate := asset("a1", metadata.StatusActive, nil)
	withDate.PurchaseDate = timePtr(twoYearsAgo)
	olderWithDate := asset("a2", metadata.StatusActive, nil)
	olderWithDate.PurchaseDate = timePtr(fourYearsAgo)
	withoutDate := asset("a3", metadata.StatusActive, nil)

	avg := AverageAgeYears([]models.EnrichedAsset{withDate, olderWithDate, withoutDate}, now)

	// Mean of 2 and 4, not dragged toward 0 by the dateless asset.
	assert.InDelta(t, 3.0, avg, 0.01)
}

func TestUpcomingWarrantyExpirationsWindowAndOrder(t *testing.T) {
	inWindow := asset("a1", metadata.StatusActive, nil)
	inWindow.WarrantyExpiry = timePtr(now.AddDate(0, 0, 20))
	sooner := asset("a2", metadata.StatusActive, nil)
	sooner.WarrantyExpiry = timePtr(now.AddDate(0, 0, 5))
	past := asset("a3", metadata.StatusActive, nil)
	past.WarrantyExpiry = timePtr(now.AddDate(0, 0, -1))
	beyond := asset("a4", metadata.StatusActive, nil)
	beyond.WarrantyExpiry = timePtr(now.AddDate(0, 0, 45))
	none := asset("a5", metadata.StatusActive, nil)

	upcoming := UpcomingWarrantyExpirations(
		[]models.EnrichedAsset{inWindow, sooner, past, beyond, none}, now, 30)

	require.Len(t, upcoming, 2)
	assert.Equal(t, "a2", upcoming[0].ID)
	assert.Equal(t, "a1", upcoming[1].ID)
}

func TestOverdueMaintenance(t *testing.T) {
	overdue := asset("a1", metadata.StatusMaintenance, nil)
	overdue.ScheduledMaintenance = timePtr(now.AddDate(0, 0, -3))
	scheduled := asset("a2", metadata.StatusMaintenance, nil)
	scheduled.ScheduledMaintenance = timePtr(now.AddDate(0, 0, 3))
	untracked := asset("a3", metadata.StatusMaintenance, nil)
	activePast := asset("a4", metadata.StatusActive, nil)
	activePast.ScheduledMaintenance = timePtr(now.AddDate(0, 0, -3))

	result := OverdueMaintenance(
		[]models.EnrichedAsset{overdue, scheduled, untracked, activePast}, now)

	require.Len(t, result, 1)
	assert.Equal(t, "a1", result[0].ID)
}

func TestSummarizeIsDeterministicAndNonMutating(t *testing.T) {
	assets := []models.EnrichedAsset{
		asset("a1", metadata.StatusActive, strPtr("u1")),
		asset("a2", metadata.StatusMaintenance, nil),
	}
	original := make([]models.EnrichedAsset, len(assets))
	copy(original, assets)

	first := Summarize(assets, now)
	second := Summarize(assets, now)

	assert.Equal(t, first, second)
	assert.Equal(t, original, assets)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 1, first.Assigned)
}
