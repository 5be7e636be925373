// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"verdea/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetConfirmedBookings returns a gardener's occupying bookings for one date,
// ascending by start hour. Completed bookings still occupy their hours.
func (r *mongoBookingRepo) GetConfirmedBookings(ctx context.Context, gardenerID, date string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"gardenerId": gardenerID,
		"date":       date,
		"status":     bson.M{"$in": []models.BookingStatus{models.BookingConfirmed, models.BookingCompleted}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "startHour", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching confirmed bookings for %s on %s: %w", gardenerID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding confirmed bookings for %s: %w", gardenerID, err)
	}
	return bookings, nil
}

// GetPendingForGardener lists a gardener's pending broadcast requests. Expiry
// is lazy: overdue rows are flipped to expired in the same read path so every
// caller sees a consistent view.
func (r *mongoBookingRepo) GetPendingForGardener(ctx context.Context, gardenerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	expireFilter := bson.M{
		"gardenerId": gardenerID,
		"status":     models.BookingPending,
		"expiresAt":  bson.M{"$lt": time.Now()},
	}
	expireUpdate := bson.M{"$set": bson.M{"status": models.BookingExpired}}
	if _, err := r.coll.UpdateMany(ctx, expireFilter, expireUpdate); err != nil {
		return nil, fmt.Errorf("error expiring overdue bookings for %s: %w", gardenerID, err)
	}

	filter := bson.M{"gardenerId": gardenerID, "status": models.BookingPending}
	cursor, err := r.coll.Find(ctx, filter, findSortDateStart)
	if err != nil {
		return nil, fmt.Errorf("error fetching pending bookings for %s: %w", gardenerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding pending bookings for %s: %w", gardenerID, err)
	}
	return bookings, nil
}

// HasConfirmedOnDate reports whether any confirmed booking occupies the date.
func (r *mongoBookingRepo) HasConfirmedOnDate(ctx context.Context, gardenerID, date string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"gardenerId": gardenerID,
		"date":       date,
		"status":     models.BookingConfirmed,
	}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error counting confirmed bookings for %s on %s: %w", gardenerID, date, err)
	}
	return count > 0, nil
}
