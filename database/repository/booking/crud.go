// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"verdea/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBookingByID retrieves a booking by its ID.
func (r *mongoBookingRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking)
	if err != nil {
		return nil, fmt.Errorf("booking not found: %w", err)
	}
	return &booking, nil
}

// CreatePendingBookings inserts the broadcast rows in one batch.
func (r *mongoBookingRepo) CreatePendingBookings(ctx context.Context, bookings []models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, len(bookings))
	for i, b := range bookings {
		docs[i] = b
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error creating pending bookings: %w", err)
	}
	return nil
}

// ConfirmBooking performs the conditional first-accept-wins update. The
// status guard in the filter makes a lost race visible as MatchedCount == 0.
func (r *mongoBookingRepo) ConfirmBooking(ctx context.Context, bookingID, gardenerID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":         bookingID,
		"gardenerId": gardenerID,
		"status":     models.BookingPending,
	}
	update := bson.M{"$set": bson.M{
		"status":      models.BookingConfirmed,
		"confirmedAt": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("error confirming booking %s: %w", bookingID, err)
	}
	return res.MatchedCount == 1, nil
}

// CancelSiblings cancels every other pending row of the same broadcast job.
func (r *mongoBookingRepo) CancelSiblings(ctx context.Context, clientID, serviceID, date string, startHour int, excludingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"clientId":  clientID,
		"serviceId": serviceID,
		"date":      date,
		"startHour": startHour,
		"status":    models.BookingPending,
		"id":        bson.M{"$ne": excludingID},
	}
	update := bson.M{"$set": bson.M{"status": models.BookingCancelled}}
	if _, err := r.coll.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("error cancelling sibling bookings: %w", err)
	}
	return nil
}

// UpdateStatus sets the status of a single booking row.
func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID}
	update := bson.M{"$set": bson.M{"status": status}}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error updating booking %s: %w", bookingID, err)
	}
	return nil
}

// ExpireStale moves every overdue pending row to expired.
func (r *mongoBookingRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.BookingPending,
		"expiresAt": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.BookingExpired}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("error expiring stale bookings: %w", err)
	}
	return res.ModifiedCount, nil
}

var findSortDateStart = options.Find().SetSort(bson.D{
	{Key: "date", Value: 1},
	{Key: "startHour", Value: 1},
})
