// File: database/repository/settings/crud.go
package settingsRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"slotwise/models"
)

// ErrSettingsNotFound is returned when the agent has no appointment
// settings configured yet.
var ErrSettingsNotFound = errors.New("appointment settings not found")

func (r *mongoSettingsRepo) GetByAgentID(ctx context.Context, agentID string) (*models.AppointmentSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"agentId": agentID}
	var settings models.AppointmentSettings
	if err := r.coll.FindOne(ctx, filter).Decode(&settings); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *mongoSettingsRepo) Upsert(ctx context.Context, settings models.AppointmentSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"agentId": settings.AgentID}
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, filter, settings, opts)
	return err
}
