package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"slotwise/config"
	"slotwise/models"

	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// reminderLead is how long before the appointment start the reminder
// fires.
const reminderLead = time.Hour

// ReminderPayload is the task body for a scheduled appointment reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	AgentID   string `json:"agentId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	FireAt    string `json:"fireAt"` // RFC3339
}

// AsynqReminderScheduler enqueues delayed reminder tasks on the
// reminder queue. It satisfies wizard.ReminderScheduler.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderQueueDB,
		}),
	}
}

// ScheduleReminder enqueues a reminder one hour before the appointment
// start. Bookings made inside the lead window get the reminder
// immediately; bookings already started get none.
func (s *AsynqReminderScheduler) ScheduleReminder(ctx context.Context, booking models.Booking, startAt time.Time) error {
	now := time.Now()
	if !startAt.After(now) {
		log.Printf("[ReminderScheduler] skipping reminder for booking %s: start already passed", booking.ID)
		return nil
	}

	fireAt := startAt.Add(-reminderLead)
	if fireAt.Before(now) {
		fireAt = now
	}

	payload, err := json.Marshal(ReminderPayload{
		BookingID: booking.ID,
		AgentID:   booking.AgentID,
		Email:     booking.Email,
		Name:      booking.Name,
		Date:      booking.Date,
		StartTime: booking.StartTime,
		FireAt:    fireAt.Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	info, err := s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	if err != nil {
		return err
	}
	log.Printf("[ReminderScheduler] ⏰ Scheduled reminder %s for booking %s at %s", info.ID, booking.ID, fireAt.Format(time.RFC3339))
	return nil
}
