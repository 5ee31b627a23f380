// File: database/repository/settings/interface.go
package settingsRepo

import (
	"context"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// SettingsRepository stores per-agent appointment settings. The admin
// surface writes them; the booking flow only ever reads.
type SettingsRepository interface {
	GetByAgentID(ctx context.Context, agentID string) (*models.AppointmentSettings, error)
	Upsert(ctx context.Context, settings models.AppointmentSettings) error
}

type mongoSettingsRepo struct {
	coll *mongo.Collection
}

// NewMongoSettingsRepo constructs a new MongoDB SettingsRepository.
func NewMongoSettingsRepo() SettingsRepository {
	db := database.MongoClient.Database("slotwise")
	return &mongoSettingsRepo{
		coll: db.Collection("appointment_settings"),
	}
}
