package booking

import (
	"context"
	"time"

	"verdea/models"
)

// Working day bounds: 12 one-hour blocks from 08:00 to 20:00.
const (
	DayStartHour = 8
	DayEndHour   = 20
)

// DefaultWorkRadiusKm applies when a gardener has not configured a radius.
const DefaultWorkRadiusKm = 20.0

// BufferEngine decides, hour by hour, whether a gardener is offerable to a
// specific client given raw availability and confirmed bookings.
type BufferEngine interface {
	GetBookingsForDate(ctx context.Context, gardenerID, date string) []models.Booking
	ApplyBufferRules(ctx context.Context, gardenerID, date, clientID string, blocks map[int]bool) map[int]bool
	CanBookSequence(ctx context.Context, gardenerID, date string, startHour, durationHours int, clientID string) models.BookingCheck
	SuggestAlternativeSlots(ctx context.Context, gardenerID, date string, requestedStartHour, durationHours int, clientID string) []int
}

// EligibilityResolver narrows the gardener population to those who can
// plausibly serve a request.
type EligibilityResolver interface {
	FindEligible(ctx context.Context, serviceIDs []string, clientAddress string) []models.Gardener
}

// MergeEngine computes every start hour at which at least one eligible
// gardener can deliver a contiguous block of the requested duration.
type MergeEngine interface {
	ComputeMergedSlots(ctx context.Context, gardenerIDs []string, date, clientID string, durationHours int) []models.MergedSlot
}

// HorizonScanner finds the first days with any merged slot, so clients are
// not asked to page through an empty calendar.
type HorizonScanner interface {
	NextAvailableDays(ctx context.Context, gardenerIDs []string, startDate time.Time, clientID string, durationHours, maxDaysToSearch, maxResults int) []models.DayAvailability
}

// BroadcastService creates pending booking rows for eligible gardeners and
// resolves the broadcast on first acceptance.
type BroadcastService interface {
	Broadcast(ctx context.Context, job JobSpec, gardenerIDs []string) ([]models.Booking, error)
	Accept(ctx context.Context, bookingID, gardenerID string) (*models.Booking, error)
	Decline(ctx context.Context, bookingID, gardenerID string) error
	PendingForGardener(ctx context.Context, gardenerID string) ([]models.Booking, error)
}
