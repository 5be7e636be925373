// File: database/repository/gardener/interface.go
package gardenerRepo

import (
	"context"

	"verdea/database"
	"verdea/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// GardenerRepository reads gardener profiles for eligibility resolution.
// Profile ownership (registration, edits) lives outside the booking engine.
type GardenerRepository interface {
	GetByID(ctx context.Context, gardenerID string) (*models.Gardener, error)
	// FindByServices returns available gardeners whose catalogue contains
	// every requested service ID (set containment, not overlap).
	FindByServices(ctx context.Context, serviceIDs []string) ([]models.Gardener, error)
	FindAvailable(ctx context.Context) ([]models.Gardener, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type mongoGardenerRepo struct {
	coll *mongo.Collection
}

// NewMongoGardenerRepo constructs a new MongoDB GardenerRepository.
func NewMongoGardenerRepo() GardenerRepository {
	return &mongoGardenerRepo{
		coll: database.DB().Collection("gardeners"),
	}
}
