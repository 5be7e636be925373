package booking

import (
	"context"

	bookingRepo "verdea/database/repository/booking"
	"verdea/models"

	"go.uber.org/zap"
)

const (
	// Limits for the alternative-slot probe.
	maxProbeAttempts = 12
	maxSuggestions   = 3
)

// DefaultBufferEngine is the production implementation of BufferEngine. It
// enforces the one-hour gap between different clients' jobs on the same
// gardener's calendar. Every read degrades to "unavailable" on storage
// failure; the engine never surfaces an error to its callers.
type DefaultBufferEngine struct {
	Bookings bookingRepo.BookingRepository
	Logger   *zap.Logger
}

// GetBookingsForDate returns the gardener's occupying bookings for one date,
// ascending by start hour. Returns nil on read error.
func (e *DefaultBufferEngine) GetBookingsForDate(ctx context.Context, gardenerID, date string) []models.Booking {
	bookings, err := e.Bookings.GetConfirmedBookings(ctx, gardenerID, date)
	if err != nil {
		e.Logger.Warn("failed to fetch bookings, treating day as unavailable",
			zap.String("gardenerId", gardenerID), zap.String("date", date), zap.Error(err))
		return nil
	}
	return bookings
}

// NeedsBuffer reports whether an existing booking forbids a new job starting
// at newStartHour. Only a different client's booking ending exactly at the
// new start hour triggers a buffer; same-client adjacency is always allowed.
func NeedsBuffer(existing models.Booking, newStartHour int, newClientID, date string) bool {
	if existing.Date != date {
		return false
	}
	if existing.ClientID == newClientID {
		return false
	}
	return existing.EndHour() == newStartHour
}

// ApplyBufferRules downgrades hours that sit immediately after a different
// client's booking. The input map is not mutated.
func (e *DefaultBufferEngine) ApplyBufferRules(ctx context.Context, gardenerID, date, clientID string, blocks map[int]bool) map[int]bool {
	bookings := e.GetBookingsForDate(ctx, gardenerID, date)

	adjusted := make(map[int]bool, len(blocks))
	for hour, available := range blocks {
		adjusted[hour] = available
		if !available {
			continue
		}
		for _, b := range bookings {
			if NeedsBuffer(b, hour, clientID, date) {
				adjusted[hour] = false
				break
			}
		}
	}
	return adjusted
}

// CanBookSequence checks whether [startHour, startHour+durationHours) can be
// booked by the client. Every hour is checked for direct overlap with an
// existing booking; only the first hour is buffer-checked. The trailing edge
// is deliberately not inspected: the gap rule binds whoever arrives second.
func (e *DefaultBufferEngine) CanBookSequence(ctx context.Context, gardenerID, date string, startHour, durationHours int, clientID string) models.BookingCheck {
	bookings := e.GetBookingsForDate(ctx, gardenerID, date)

	for hour := startHour; hour < startHour+durationHours; hour++ {
		for _, b := range bookings {
			if b.OccupiesHour(hour) {
				return models.BookingCheck{CanBook: false, Reason: models.ReasonDirectConflict}
			}
		}
	}
	for _, b := range bookings {
		if NeedsBuffer(b, startHour, clientID, date) {
			return models.BookingCheck{CanBook: false, Reason: models.ReasonBufferConflict}
		}
	}
	return models.BookingCheck{CanBook: true}
}

// SuggestAlternativeSlots scans forward from the requested start hour and
// proposes up to three admissible start hours, probing at most twelve
// candidates and never running past the close of the working day.
func (e *DefaultBufferEngine) SuggestAlternativeSlots(ctx context.Context, gardenerID, date string, requestedStartHour, durationHours int, clientID string) []int {
	var suggestions []int
	for probe := 0; probe < maxProbeAttempts && len(suggestions) < maxSuggestions; probe++ {
		start := requestedStartHour + probe
		if start+durationHours > DayEndHour {
			break
		}
		if e.CanBookSequence(ctx, gardenerID, date, start, durationHours, clientID).CanBook {
			suggestions = append(suggestions, start)
		}
	}
	return suggestions
}
