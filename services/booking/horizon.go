package booking

import (
	"context"
	"time"

	"verdea/models"
)

// DefaultHorizonScanner implements HorizonScanner as a short-circuiting
// forward scan: it stops once maxResults qualifying days are collected, not
// once the search window is exhausted.
type DefaultHorizonScanner struct {
	Merge MergeEngine
}

// NextAvailableDays scans calendar days starting at startDate inclusive and
// returns the first days with at least one merged slot. An empty result
// means no availability in the horizon, not an error.
func (s *DefaultHorizonScanner) NextAvailableDays(ctx context.Context, gardenerIDs []string, startDate time.Time, clientID string, durationHours, maxDaysToSearch, maxResults int) []models.DayAvailability {
	days := make([]models.DayAvailability, 0, maxResults)
	for offset := 0; offset < maxDaysToSearch && len(days) < maxResults; offset++ {
		date := startDate.AddDate(0, 0, offset).Format("2006-01-02")
		slots := s.Merge.ComputeMergedSlots(ctx, gardenerIDs, date, clientID, durationHours)
		if len(slots) > 0 {
			days = append(days, models.DayAvailability{Date: date, Slots: slots})
		}
	}
	return days
}
