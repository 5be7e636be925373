// File: database/repository/gardener/queries.go
package gardenerRepo

import (
	"context"
	"fmt"
	"time"

	"verdea/models"

	"go.mongodb.org/mongo-driver/bson"
)

// GetByID retrieves a gardener profile by its ID.
func (r *mongoGardenerRepo) GetByID(ctx context.Context, gardenerID string) (*models.Gardener, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var gardener models.Gardener
	err := r.coll.FindOne(ctx, bson.M{"id": gardenerID}).Decode(&gardener)
	if err != nil {
		return nil, fmt.Errorf("gardener not found: %w", err)
	}
	return &gardener, nil
}

// FindByServices runs the set-containment query ($all) against available
// gardeners. Callers fall back to FindAvailable plus client-side filtering
// when this yields nothing.
func (r *mongoGardenerRepo) FindByServices(ctx context.Context, serviceIDs []string) ([]models.Gardener, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"isAvailable": true,
		"serviceIds":  bson.M{"$all": serviceIDs},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error searching gardeners by services: %w", err)
	}
	defer cursor.Close(ctx)

	var gardeners []models.Gardener
	if err := cursor.All(ctx, &gardeners); err != nil {
		return nil, fmt.Errorf("error decoding gardeners: %w", err)
	}
	return gardeners, nil
}

// FindAvailable returns every gardener currently flagged available.
func (r *mongoGardenerRepo) FindAvailable(ctx context.Context) ([]models.Gardener, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"isAvailable": true})
	if err != nil {
		return nil, fmt.Errorf("error fetching available gardeners: %w", err)
	}
	defer cursor.Close(ctx)

	var gardeners []models.Gardener
	if err := cursor.All(ctx, &gardeners); err != nil {
		return nil, fmt.Errorf("error decoding gardeners: %w", err)
	}
	return gardeners, nil
}

// ListIDs returns the IDs of all gardeners, for horizon maintenance sweeps.
func (r *mongoGardenerRepo) ListIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing gardeners: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding gardener id: %w", err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, cursor.Err()
}
