// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"verdea/database"
	"verdea/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AvailabilityRepository persists per-gardener per-date hourly availability.
// Writes use full-replace semantics for a date; booked hours are pulled out
// of the pool via BlockHours.
type AvailabilityRepository interface {
	GetHourlyAvailability(ctx context.Context, gardenerID, date string) (map[int]bool, error)
	SetHourlyAvailability(ctx context.Context, gardenerID, date string, availableHours []int) error
	BlockHours(ctx context.Context, gardenerID, date string, hours []int) error
	ReleaseHours(ctx context.Context, gardenerID, date string, hours []int) error
	GetDaysInRange(ctx context.Context, gardenerID, fromDate, toDate string) ([]models.AvailabilityDay, error)
	EnsureIndexes() error
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo() AvailabilityRepository {
	return &mongoAvailabilityRepo{
		coll: database.DB().Collection("availability_days"),
	}
}
