package schedule

import (
	"context"
)

// Defaults applied when a gardener has never saved projection settings.
const (
	DefaultWeeksToMaintain = 4
	DefaultMinNoticeHours  = 24
)

// ScheduleProjector materializes concrete availability days from a weekly
// template on a rolling horizon, without destroying confirmed bookings.
type ScheduleProjector interface {
	// Generate extends or rebuilds the materialized horizon. With
	// forceRegenerate false it only extends forward as needed; with true it
	// rewrites the whole horizon from today.
	Generate(ctx context.Context, gardenerID string, forceRegenerate bool) error
	// SaveTemplate replaces the weekly rules from per-day hour sets, then
	// regenerates the horizon.
	SaveTemplate(ctx context.Context, gardenerID string, weeklyHours map[int][]int) error
}
