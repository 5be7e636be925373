// File: database/repository/schedule/interface.go
package scheduleRepo

import (
	"context"

	"verdea/database"
	"verdea/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ScheduleRepository persists recurring weekly templates and their
// projection settings. Template saves replace wholesale.
type ScheduleRepository interface {
	GetTemplates(ctx context.Context, gardenerID string) ([]models.RecurringTemplate, error)
	ReplaceTemplates(ctx context.Context, gardenerID string, templates []models.RecurringTemplate) error
	GetSettings(ctx context.Context, gardenerID string) (*models.RecurringSettings, error)
	SaveSettings(ctx context.Context, settings *models.RecurringSettings) error
	SetLastGeneratedDate(ctx context.Context, gardenerID, date string) error
	ListGardenerIDs(ctx context.Context) ([]string, error)
}

type mongoScheduleRepo struct {
	templateColl *mongo.Collection
	settingsColl *mongo.Collection
}

// NewMongoScheduleRepo constructs a new MongoDB ScheduleRepository.
func NewMongoScheduleRepo() ScheduleRepository {
	db := database.DB()
	return &mongoScheduleRepo{
		templateColl: db.Collection("recurring_templates"),
		settingsColl: db.Collection("recurring_settings"),
	}
}
