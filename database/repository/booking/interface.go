// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"verdea/database"
	"verdea/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository persists broadcast booking rows and enforces the
// first-accept-wins discipline with a conditional update.
type BookingRepository interface {
	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetConfirmedBookings(ctx context.Context, gardenerID, date string) ([]models.Booking, error)
	CreatePendingBookings(ctx context.Context, bookings []models.Booking) error
	// ConfirmBooking flips one pending row to confirmed. Returns false when the
	// row was no longer pending (lost race, already cancelled or expired).
	ConfirmBooking(ctx context.Context, bookingID, gardenerID string) (bool, error)
	CancelSiblings(ctx context.Context, clientID, serviceID, date string, startHour int, excludingID string) error
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error
	// GetPendingForGardener applies lazy expiry before returning the list:
	// pending rows whose expires_at has passed are moved to expired first.
	GetPendingForGardener(ctx context.Context, gardenerID string) ([]models.Booking, error)
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	HasConfirmedOnDate(ctx context.Context, gardenerID, date string) (bool, error)
	EnsureIndexes() error
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	return &mongoBookingRepo{
		coll: database.DB().Collection("bookings"),
	}
}
