package wizard

import (
	"context"
	"testing"
	"time"

	"slotwise/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionStore(client, 30*time.Minute), mr
}

func TestSessionStore_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ny, _ := time.LoadLocation("America/New_York")
	startAt := time.Date(2026, time.March, 9, 9, 0, 0, 0, ny)
	session := &models.WizardSession{
		SessionID:    "s1",
		AgentID:      "agent-1",
		CustomerZone: "Asia/Kolkata",
		Step:         models.StepDetails,
		Settings:     wizardSettings(),
		Draft: models.BookingDraft{
			SelectedDate: "09-MAR-2026",
			SelectedSlot: &models.Slot{StartTime: "18:30", EndTime: "19:00", Available: true, StartAt: startAt},
			Name:         "Asha Rao",
		},
	}
	require.NoError(t, store.SaveBooking(ctx, session))

	got, err := store.GetBooking(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.StepDetails, got.Step)
	assert.Equal(t, "09-MAR-2026", got.Draft.SelectedDate)
	require.NotNil(t, got.Draft.SelectedSlot)

	// The start instant survives the JSON round-trip; the submission's
	// inverse timezone conversion depends on it.
	assert.True(t, got.Draft.SelectedSlot.StartAt.Equal(startAt))
}

func TestSessionStore_MissingSession(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.GetBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = store.GetReschedule(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBooking(ctx, &models.WizardSession{SessionID: "s1", Step: models.StepDate}))
	require.NoError(t, store.DeleteBooking(ctx, "s1"))
	_, err := store.GetBooking(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_SessionsExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBooking(ctx, &models.WizardSession{SessionID: "s1", Step: models.StepDate}))

	mr.FastForward(31 * time.Minute)
	_, err := store.GetBooking(ctx, "s1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_BookingAndRescheduleKeysAreDisjoint(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveBooking(ctx, &models.WizardSession{SessionID: "same-id", Step: models.StepDate}))
	require.NoError(t, store.SaveReschedule(ctx, &models.RescheduleSession{SessionID: "same-id", Step: models.RescheduleStepDate}))

	booking, err := store.GetBooking(ctx, "same-id")
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, booking.Step)

	resched, err := store.GetReschedule(ctx, "same-id")
	require.NoError(t, err)
	assert.Equal(t, models.RescheduleStepDate, resched.Step)
}
