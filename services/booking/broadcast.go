package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	availabilityRepo "verdea/database/repository/availability"
	bookingRepo "verdea/database/repository/booking"
	"verdea/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrBookingTaken signals a lost first-accept race: the row was no longer
// pending when the confirm update ran.
var ErrBookingTaken = errors.New("booking request is no longer available")

// ErrBookingExpired signals acceptance of a request past its TTL.
var ErrBookingExpired = errors.New("booking request has expired")

// PendingTTL is how long a broadcast row waits for a response.
const PendingTTL = 24 * time.Hour

// JobSpec describes one logical job to broadcast.
type JobSpec struct {
	ClientID      string  `json:"clientId"`
	ServiceID     string  `json:"serviceId"`
	Date          string  `json:"date"`
	StartHour     int     `json:"startHour"`
	DurationHours int     `json:"durationHours"`
	TotalPrice    float64 `json:"totalPrice"`
}

// DefaultBroadcastService implements BroadcastService.
type DefaultBroadcastService struct {
	Bookings     bookingRepo.BookingRepository
	Availability availabilityRepo.AvailabilityRepository
	Buffer       BufferEngine
	Logger       *zap.Logger
}

// Broadcast creates one pending booking row per eligible gardener, all
// sharing the same job fields and expiry.
func (s *DefaultBroadcastService) Broadcast(ctx context.Context, job JobSpec, gardenerIDs []string) ([]models.Booking, error) {
	if len(gardenerIDs) == 0 {
		return nil, fmt.Errorf("cannot broadcast job: no eligible gardeners")
	}
	if job.StartHour < DayStartHour || job.StartHour+job.DurationHours > DayEndHour {
		return nil, fmt.Errorf("job window [%d, %d) is outside the working day", job.StartHour, job.StartHour+job.DurationHours)
	}

	broadcastID := uuid.New().String()
	now := time.Now()
	expiresAt := now.Add(PendingTTL)

	bookings := make([]models.Booking, 0, len(gardenerIDs))
	for _, gardenerID := range dedupe(gardenerIDs) {
		bookings = append(bookings, models.Booking{
			ID:            uuid.New().String(),
			BroadcastID:   broadcastID,
			ClientID:      job.ClientID,
			GardenerID:    gardenerID,
			ServiceID:     job.ServiceID,
			Date:          job.Date,
			StartHour:     job.StartHour,
			DurationHours: job.DurationHours,
			Status:        models.BookingPending,
			TotalPrice:    job.TotalPrice,
			ExpiresAt:     expiresAt,
			CreatedAt:     now,
		})
	}

	if err := s.Bookings.CreatePendingBookings(ctx, bookings); err != nil {
		return nil, fmt.Errorf("failed to broadcast booking: %w", err)
	}
	s.Logger.Info("booking broadcast created",
		zap.String("broadcastId", broadcastID),
		zap.String("clientId", job.ClientID),
		zap.Int("gardeners", len(bookings)))
	return bookings, nil
}

// Accept resolves the broadcast in favor of one gardener. The confirm is a
// conditional update so a lost race surfaces as ErrBookingTaken instead of a
// second confirmed row. The accepted hours are then pulled from the
// gardener's pool, a trailing margin hour is blocked in a second write, and
// the sibling pending rows are cascade-cancelled.
func (s *DefaultBroadcastService) Accept(ctx context.Context, bookingID, gardenerID string) (*models.Booking, error) {
	b, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if b.GardenerID != gardenerID {
		return nil, fmt.Errorf("booking %s does not belong to gardener %s", bookingID, gardenerID)
	}
	if b.Status != models.BookingPending {
		return nil, ErrBookingTaken
	}
	if time.Now().After(b.ExpiresAt) {
		return nil, ErrBookingExpired
	}

	if check := s.Buffer.CanBookSequence(ctx, gardenerID, b.Date, b.StartHour, b.DurationHours, b.ClientID); !check.CanBook {
		return nil, fmt.Errorf("cannot accept booking: %s", check.Reason)
	}

	confirmed, err := s.Bookings.ConfirmBooking(ctx, bookingID, gardenerID)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm booking: %w", err)
	}
	if !confirmed {
		return nil, ErrBookingTaken
	}

	hours := make([]int, 0, b.DurationHours)
	for h := b.StartHour; h < b.EndHour(); h++ {
		hours = append(hours, h)
	}
	if err := s.Bookings.CancelSiblings(ctx, b.ClientID, b.ServiceID, b.Date, b.StartHour, b.ID); err != nil {
		s.Logger.Warn("failed to cancel sibling pending bookings",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
	if err := s.Availability.BlockHours(ctx, gardenerID, b.Date, hours); err != nil {
		s.Logger.Warn("failed to block booked hours",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
	// Trailing margin hour, blocked separately so a partial failure still
	// leaves the booked hours removed from the pool.
	if b.EndHour() < DayEndHour {
		if err := s.Availability.BlockHours(ctx, gardenerID, b.Date, []int{b.EndHour()}); err != nil {
			s.Logger.Warn("failed to block trailing margin hour",
				zap.String("bookingId", b.ID), zap.Error(err))
		}
	}

	b.Status = models.BookingConfirmed
	s.Logger.Info("booking confirmed",
		zap.String("bookingId", b.ID),
		zap.String("gardenerId", gardenerID),
		zap.String("date", b.Date),
		zap.Int("startHour", b.StartHour))
	return b, nil
}

// Decline marks a single pending row cancelled without touching siblings.
func (s *DefaultBroadcastService) Decline(ctx context.Context, bookingID, gardenerID string) error {
	b, err := s.Bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("failed to load booking: %w", err)
	}
	if b.GardenerID != gardenerID {
		return fmt.Errorf("booking %s does not belong to gardener %s", bookingID, gardenerID)
	}
	if b.Status != models.BookingPending {
		return fmt.Errorf("booking %s is not pending", bookingID)
	}
	if err := s.Bookings.UpdateStatus(ctx, bookingID, models.BookingCancelled); err != nil {
		return fmt.Errorf("failed to decline booking: %w", err)
	}
	return nil
}

// PendingForGardener lists open broadcast requests for a gardener; overdue
// rows are expired by the repository before the list is returned.
func (s *DefaultBroadcastService) PendingForGardener(ctx context.Context, gardenerID string) ([]models.Booking, error) {
	bookings, err := s.Bookings.GetPendingForGardener(ctx, gardenerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending bookings: %w", err)
	}
	return bookings, nil
}
