// File: database/repository/availability/crud.go
package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verdea/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Working-day bounds; hours outside [8, 20) are never stored.
const (
	minHour = 8
	maxHour = 20
)

// GetHourlyAvailability returns an hour-keyed availability map for one date.
// A missing day document means every hour is unavailable.
func (r *mongoAvailabilityRepo) GetHourlyAvailability(ctx context.Context, gardenerID, date string) (map[int]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	hours := make(map[int]bool, maxHour-minHour)
	for h := minHour; h < maxHour; h++ {
		hours[h] = false
	}

	var day models.AvailabilityDay
	err := r.coll.FindOne(ctx, bson.M{"gardenerId": gardenerID, "date": date}).Decode(&day)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return hours, nil
		}
		return nil, fmt.Errorf("error fetching availability for %s on %s: %w", gardenerID, date, err)
	}

	for _, h := range day.AvailableHours {
		if h >= minHour && h < maxHour {
			hours[h] = true
		}
	}
	return hours, nil
}

// SetHourlyAvailability replaces the full hour set for one date.
func (r *mongoAvailabilityRepo) SetHourlyAvailability(ctx context.Context, gardenerID, date string, availableHours []int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	valid := make([]int, 0, len(availableHours))
	for _, h := range availableHours {
		if h >= minHour && h < maxHour {
			valid = append(valid, h)
		}
	}

	day := models.AvailabilityDay{
		GardenerID:     gardenerID,
		Date:           date,
		AvailableHours: valid,
		UpdatedAt:      time.Now(),
	}
	filter := bson.M{"gardenerId": gardenerID, "date": date}
	_, err := r.coll.ReplaceOne(ctx, filter, day, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error replacing availability for %s on %s: %w", gardenerID, date, err)
	}
	return nil
}

// BlockHours removes hours from the bookable pool for one date.
func (r *mongoAvailabilityRepo) BlockHours(ctx context.Context, gardenerID, date string, hours []int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"gardenerId": gardenerID, "date": date}
	update := bson.M{
		"$pull": bson.M{"availableHours": bson.M{"$in": hours}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	if _, err := r.coll.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error blocking hours for %s on %s: %w", gardenerID, date, err)
	}
	return nil
}

// ReleaseHours returns hours to the bookable pool for one date.
func (r *mongoAvailabilityRepo) ReleaseHours(ctx context.Context, gardenerID, date string, hours []int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	valid := make([]int, 0, len(hours))
	for _, h := range hours {
		if h >= minHour && h < maxHour {
			valid = append(valid, h)
		}
	}

	filter := bson.M{"gardenerId": gardenerID, "date": date}
	update := bson.M{
		"$addToSet": bson.M{"availableHours": bson.M{"$each": valid}},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	_, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error releasing hours for %s on %s: %w", gardenerID, date, err)
	}
	return nil
}

// GetDaysInRange returns the materialized days for a gardener between two
// dates inclusive, ascending by date.
func (r *mongoAvailabilityRepo) GetDaysInRange(ctx context.Context, gardenerID, fromDate, toDate string) ([]models.AvailabilityDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"gardenerId": gardenerID,
		"date":       bson.M{"$gte": fromDate, "$lte": toDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching availability range for %s: %w", gardenerID, err)
	}
	defer cursor.Close(ctx)

	var days []models.AvailabilityDay
	if err := cursor.All(ctx, &days); err != nil {
		return nil, fmt.Errorf("error decoding availability range for %s: %w", gardenerID, err)
	}
	return days, nil
}
