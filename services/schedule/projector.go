package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	availabilityRepo "verdea/database/repository/availability"
	bookingRepo "verdea/database/repository/booking"
	scheduleRepo "verdea/database/repository/schedule"
	"verdea/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// DefaultScheduleProjector is the production implementation of
// ScheduleProjector.
type DefaultScheduleProjector struct {
	Schedules    scheduleRepo.ScheduleRepository
	Availability availabilityRepo.AvailabilityRepository
	Bookings     bookingRepo.BookingRepository
	Logger       *zap.Logger
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

func (p *DefaultScheduleProjector) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Generate materializes availability days for the gardener's horizon.
//
// Lazy mode (forceRegenerate false) writes only dates past the last
// generated one and skips any date already holding a confirmed booking.
// Force mode rewrites every date from today but subtracts the hours blocked
// by confirmed bookings, so regeneration can never resurface a booked hour.
func (p *DefaultScheduleProjector) Generate(ctx context.Context, gardenerID string, forceRegenerate bool) error {
	settings, err := p.Schedules.GetSettings(ctx, gardenerID)
	if err != nil {
		return fmt.Errorf("failed to load schedule settings: %w", err)
	}
	weeks := DefaultWeeksToMaintain
	if settings != nil && settings.WeeksToMaintain > 0 {
		weeks = settings.WeeksToMaintain
	}

	templates, err := p.Schedules.GetTemplates(ctx, gardenerID)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	byDay := make(map[int][]models.RecurringTemplate, 7)
	for _, t := range templates {
		byDay[t.DayOfWeek] = append(byDay[t.DayOfWeek], t)
	}

	nowTime := p.now()
	today := time.Date(nowTime.Year(), nowTime.Month(), nowTime.Day(), 0, 0, 0, 0, nowTime.Location())
	horizonEnd := today.AddDate(0, 0, weeks*7-1)

	start := today
	if !forceRegenerate && settings != nil && settings.LastGeneratedDate != "" {
		if last, perr := time.ParseInLocation(dateLayout, settings.LastGeneratedDate, nowTime.Location()); perr == nil && !last.Before(today) {
			start = last.AddDate(0, 0, 1)
		}
	}
	if !forceRegenerate && start.After(horizonEnd) {
		// Horizon already maintained, nothing to write.
		return nil
	}

	for d := start; !d.After(horizonEnd); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format(dateLayout)
		hours := templateHours(byDay[int(d.Weekday())])

		bookings, err := p.Bookings.GetConfirmedBookings(ctx, gardenerID, dateStr)
		if err != nil {
			return fmt.Errorf("failed to check bookings on %s: %w", dateStr, err)
		}
		if !forceRegenerate && len(bookings) > 0 {
			// Never touch a materialized date that holds a confirmed booking.
			continue
		}
		if forceRegenerate {
			hours = subtractBlocked(hours, bookings)
		}
		if err := p.Availability.SetHourlyAvailability(ctx, gardenerID, dateStr, hours); err != nil {
			return fmt.Errorf("failed to write availability for %s: %w", dateStr, err)
		}
	}

	if err := p.Schedules.SetLastGeneratedDate(ctx, gardenerID, horizonEnd.Format(dateLayout)); err != nil {
		return fmt.Errorf("failed to record generated horizon: %w", err)
	}
	p.Logger.Info("schedule horizon materialized",
		zap.String("gardenerId", gardenerID),
		zap.Bool("force", forceRegenerate),
		zap.String("through", horizonEnd.Format(dateLayout)))
	return nil
}

// SaveTemplate coalesces per-day hour sets into minimal (start, end) ranges,
// replaces the stored rules wholesale, then regenerates the horizon.
func (p *DefaultScheduleProjector) SaveTemplate(ctx context.Context, gardenerID string, weeklyHours map[int][]int) error {
	var templates []models.RecurringTemplate
	for day := 0; day < 7; day++ {
		for _, r := range CoalesceRanges(weeklyHours[day]) {
			templates = append(templates, models.RecurringTemplate{
				GardenerID: gardenerID,
				DayOfWeek:  day,
				StartHour:  r.StartHour,
				EndHour:    r.EndHour,
			})
		}
	}
	if err := p.Schedules.ReplaceTemplates(ctx, gardenerID, templates); err != nil {
		return fmt.Errorf("failed to replace templates: %w", err)
	}
	return p.Generate(ctx, gardenerID, true)
}

// CoalesceRanges merges a set of hours into minimal contiguous ranges with
// exclusive end hours.
func CoalesceRanges(hours []int) []models.HourRange {
	if len(hours) == 0 {
		return nil
	}
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	var ranges []models.HourRange
	current := models.HourRange{StartHour: sorted[0], EndHour: sorted[0] + 1}
	for _, h := range sorted[1:] {
		switch {
		case h < current.EndHour:
			// duplicate hour
		case h == current.EndHour:
			current.EndHour = h + 1
		default:
			ranges = append(ranges, current)
			current = models.HourRange{StartHour: h, EndHour: h + 1}
		}
	}
	return append(ranges, current)
}

// templateHours expands a day's rules into the hour list they cover.
func templateHours(rules []models.RecurringTemplate) []int {
	set := make(map[int]bool)
	for _, r := range rules {
		for h := r.StartHour; h < r.EndHour; h++ {
			set[h] = true
		}
	}
	hours := make([]int, 0, len(set))
	for h := range set {
		hours = append(hours, h)
	}
	sort.Ints(hours)
	return hours
}

// subtractBlocked removes the hours a confirmed booking occupies, including
// its trailing margin hour, from a candidate hour list.
func subtractBlocked(hours []int, bookings []models.Booking) []int {
	if len(bookings) == 0 {
		return hours
	}
	blocked := make(map[int]bool)
	for _, b := range bookings {
		for h := b.StartHour; h <= b.EndHour(); h++ {
			blocked[h] = true
		}
	}
	kept := make([]int, 0, len(hours))
	for _, h := range hours {
		if !blocked[h] {
			kept = append(kept, h)
		}
	}
	return kept
}
