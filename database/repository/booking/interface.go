// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"slotwise/database"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingRepository owns the persisted Booking entity: created by the
// wizard's submission, mutated only by reschedule.
type BookingRepository interface {
	Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetForReschedule(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	Reschedule(ctx context.Context, req models.RescheduleRequest) error
	BookedWindows(ctx context.Context, agentID, date string) ([]models.TimeWindow, error)
}

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo() BookingRepository {
	db := database.MongoClient.Database("slotwise")
	return &mongoBookingRepo{
		coll: db.Collection("bookings"),
	}
}
