// File: database/repository/schedule/crud.go
package scheduleRepo

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

// GetTemplates returns a gardener's weekly rules sorted by day and start hour.
func (r *mongoScheduleRepo) GetTemplates(ctx context.Context, gardenerID string) ([]models.RecurringTemplate, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "dayOfWeek", Value: 1},
		{Key: "startHour", Value: 1},
	})
	cursor, err := r.templateColl.Find(ctx, bson.M{"gardenerId": gardenerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching templates for %s: %w", gardenerID, err)
	}
	defer cursor.Close(ctx)

	var templates []models.RecurringTemplate
	if err := cursor.All(ctx, &templates); err != nil {
		return nil, fmt.Errorf("error decoding templates for %s: %w", gardenerID, err)
	}
	return templates, nil
}

// ReplaceTemplates deletes every existing rule and inserts the new set.
func (r *mongoScheduleRepo) ReplaceTemplates(ctx context.Context, gardenerID string, templates []models.RecurringTemplate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.templateColl.DeleteMany(ctx, bson.M{"gardenerId": gardenerID}); err != nil {
		return fmt.Errorf("error clearing templates for %s: %w", gardenerID, err)
	}
	if len(templates) == 0 {
		return nil
	}
	docs := make([]interface{}, len(templates))
	for i, t := range templates {
		t.GardenerID = gardenerID
		docs[i] = t
	}
	if _, err := r.templateColl.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error inserting templates for %s: %w", gardenerID, err)
	}
	return nil
}

// GetSettings returns projection settings, or nil when none are saved.
func (r *mongoScheduleRepo) GetSettings(ctx context.Context, gardenerID string) (*models.RecurringSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var settings models.RecurringSettings
	err := r.settingsColl.FindOne(ctx, bson.M{"gardenerId": gardenerID}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching settings for %s: %w", gardenerID, err)
	}
	return &settings, nil
}

// SaveSettings upserts projection settings for a gardener.
func (r *mongoScheduleRepo) SaveSettings(ctx context.Context, settings *models.RecurringSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"gardenerId": settings.GardenerID}
	_, err := r.settingsColl.ReplaceOne(ctx, filter, settings, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving settings for %s: %w", settings.GardenerID, err)
	}
	return nil
}

// SetLastGeneratedDate records how far the horizon has been materialized.
func (r *mongoScheduleRepo) SetLastGeneratedDate(ctx context.Context, gardenerID, date string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"gardenerId": gardenerID}
	update := bson.M{"$set": bson.M{"lastGeneratedDate": date}}
	_, err := r.settingsColl.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error updating last generated date for %s: %w", gardenerID, err)
	}
	return nil
}

// ListGardenerIDs returns every gardener with saved projection settings.
func (r *mongoScheduleRepo) ListGardenerIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.settingsColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error listing schedule settings: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			GardenerID string `bson:"gardenerId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("error decoding settings row: %w", err)
		}
		ids = append(ids, doc.GardenerID)
	}
	return ids, cursor.Err()
}
