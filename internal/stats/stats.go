// Package stats computes aggregates over the current enriched asset
// collection. Every function is a pure fold: deterministic for a given input
// and explicit clock, never mutating the collection.
package stats

import (
	"sort"
	"time"

	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"
)

const hoursPerYear = 24 * 365.25

type Summary struct {
	Total           int                     `json:"total"`
	Assigned        int                     `json:"assigned"`
	UtilizationRate float64                 `json:"utilization_rate"`
	MaintenanceRate float64                 `json:"maintenance_rate"`
	AverageAgeYears float64                 `json:"average_age_years"`
	ByStatus        map[metadata.Status]int `json:"by_status"`
	ByCategory      map[string]int          `json:"by_category"`
}

func Summarize(assets []models.EnrichedAsset, now time.Time) Summary {
	return Summary{
		Total:           len(assets),
		Assigned:        assignedCount(assets),
		UtilizationRate: UtilizationRate(assets),
		MaintenanceRate: MaintenanceRate(assets),
		AverageAgeYears: AverageAgeYears(assets, now),
		ByStatus:        TotalsByStatus(assets),
		ByCategory:      TotalsByCategory(assets),
	}
}

func TotalsByStatus(assets []models.EnrichedAsset) map[metadata.Status]int {
	totals := make(map[metadata.Status]int)
	for _, asset := range assets {
		totals[asset.Status]++
	}
	return totals
}

func TotalsByCategory(assets []models.EnrichedAsset) map[string]int {
	totals := make(map[string]int)
	for _, asset := range assets {
		totals[asset.Category]++
	}
	return totals
}

// UtilizationRate is assigned / total, 0 for an empty collection.
func UtilizationRate(assets []models.EnrichedAsset) float64 {
	if len(assets) == 0 {
		return 0
	}
	return float64(assignedCount(assets)) / float64(len(assets))
}

// MaintenanceRate is count(status = maintenance) / total, 0 for an empty
// collection.
func MaintenanceRate(assets []models.EnrichedAsset) float64 {
	if len(assets) == 0 {
		return 0
	}

	inMaintenance := 0
	for _, asset := range assets {
		if asset.Status == metadata.StatusMaintenance {
			inMaintenance++
		}
	}
	return float64(inMaintenance) / float64(len(assets))
}

// AverageAgeYears is the mean age of assets with a known purchase date.
// Assets without one are excluded from the mean, not counted as age zero.
func AverageAgeYears(assets []models.EnrichedAsset, now time.Time) float64 {
	var totalYears float64
	counted := 0

	for _, asset := range assets {
		if asset.PurchaseDate == nil {
			continue
		}
		totalYears += now.Sub(*asset.PurchaseDate).Hours() / hoursPerYear
		counted++
	}

	if counted == 0 {
		return 0
	}
	return totalYears / float64(counted)
}

// UpcomingWarrantyExpirations returns assets whose warranty expires within
// [now, now+windowDays], ascending by expiry date.
func UpcomingWarrantyExpirations(assets []models.EnrichedAsset, now time.Time, windowDays int) []models.EnrichedAsset {
	end := now.AddDate(0, 0, windowDays)

	var upcoming []models.EnrichedAsset
	for _, asset := range assets {
		if asset.WarrantyExpiry == nil {
			continue
		}
		expiry := *asset.WarrantyExpiry
		if expiry.Before(now) || expiry.After(end) {
			continue
		}
		upcoming = append(upcoming, asset)
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].WarrantyExpiry.Before(*upcoming[j].WarrantyExpiry)
	})
	return upcoming
}

// OverdueMaintenance returns assets in maintenance whose scheduled
// maintenance date, where tracked, has already passed.
func OverdueMaintenance(assets []models.EnrichedAsset, now time.Time) []models.EnrichedAsset {
	var overdue []models.EnrichedAsset
	for _, asset := range assets {
		if asset.Status != metadata.StatusMaintenance {
			continue
		}
		if asset.ScheduledMaintenance == nil || !asset.ScheduledMaintenance.Before(now) {
			continue
		}
		overdue = append(overdue, asset)
	}
	return overdue
}

func assignedCount(assets []models.EnrichedAsset) int {
	assigned := 0
	for _, asset := range assets {
		if asset.AssignedTo != nil && *asset.AssignedTo != "" {
			assigned++
		}
	}
	return assigned
}
