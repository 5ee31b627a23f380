// File: database/repository/booking/crud.go
package bookingRepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"slotwise/models"
)

// ErrSlotTaken is returned when the requested interval collides with an
// existing booking for the same agent and date.
var ErrSlotTaken = errors.New("slot already booked")

// ErrBookingNotFound is returned when the booking does not exist or does
// not belong to the requesting user.
var ErrBookingNotFound = errors.New("booking not found")

func (r *mongoBookingRepo) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	taken, err := r.hasOverlap(ctx, req.AgentID, req.Date, req.StartTime, req.EndTime, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	booking := models.Booking{
		ID:           uuid.New().String(),
		AgentID:      req.AgentID,
		UserID:       req.UserID,
		Email:        req.Email,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Location:     req.Location,
		Name:         req.Name,
		Phone:        req.Phone,
		Notes:        req.Notes,
		UserTimezone: req.UserTimezone,
		CreatedAt:    time.Now(),
	}
	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) GetForReschedule(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bookingID, "userId": userID}
	var booking models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *mongoBookingRepo) Reschedule(ctx context.Context, req models.RescheduleRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var current models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": req.BookingID, "userId": req.UserID}).Decode(&current); err != nil {
		return err
	}

	taken, err := r.hasOverlap(ctx, current.AgentID, req.Date, req.StartTime, req.EndTime, req.BookingID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken
	}

	filter := bson.M{"id": req.BookingID, "userId": req.UserID}
	update := bson.M{"$set": bson.M{
		"date":         req.Date,
		"startTime":    req.StartTime,
		"endTime":      req.EndTime,
		"location":     req.Location,
		"userTimezone": req.UserTimezone,
		"notes":        req.Notes,
		"updatedAt":    time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *mongoBookingRepo) BookedWindows(ctx context.Context, agentID, date string) ([]models.TimeWindow, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"agentId": agentID, "date": date}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}

	windows := make([]models.TimeWindow, 0, len(bookings))
	for _, b := range bookings {
		windows = append(windows, models.TimeWindow{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return windows, nil
}

// hasOverlap checks for an existing booking intersecting the half-open
// interval. excludeID skips the booking being rescheduled. Times are
// zero-padded HH:MM, so lexicographic comparison matches minute order.
func (r *mongoBookingRepo) hasOverlap(ctx context.Context, agentID, date, startTime, endTime, excludeID string) (bool, error) {
	filter := bson.M{
		"agentId":   agentID,
		"date":      date,
		"startTime": bson.M{"$lt": endTime},
		"endTime":   bson.M{"$gt": startTime},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
