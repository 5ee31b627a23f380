package wizard

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "slotwise/database/repository/booking"
	"slotwise/models"
	"slotwise/services/scheduling"
	"slotwise/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	settings *models.AppointmentSettings
	err      error
}

func (f *fakeSettingsRepo) GetByAgentID(ctx context.Context, agentID string) (*models.AppointmentSettings, error) {
	return f.settings, f.err
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, settings models.AppointmentSettings) error {
	f.settings = &settings
	return nil
}

type fakeBookings struct {
	created       []models.BookingRequest
	createErr     error
	booking       *models.Booking
	getErr        error
	rescheduled   []models.RescheduleRequest
	rescheduleErr error
}

func (f *fakeBookings) Create(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &models.Booking{
		ID:        "bk_1",
		AgentID:   req.AgentID,
		UserID:    req.UserID,
		Email:     req.Email,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Location:  req.Location,
		Name:      req.Name,
	}, nil
}

func (f *fakeBookings) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	if f.booking == nil {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookings) GetForReschedule(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.booking == nil || f.booking.ID != bookingID || f.booking.UserID != userID {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return f.booking, nil
}

func (f *fakeBookings) Reschedule(ctx context.Context, req models.RescheduleRequest) error {
	if f.rescheduleErr != nil {
		return f.rescheduleErr
	}
	f.rescheduled = append(f.rescheduled, req)
	return nil
}

func (f *fakeBookings) BookedWindows(ctx context.Context, agentID, date string) ([]models.TimeWindow, error) {
	return nil, nil
}

type fakePayments struct {
	amount    int64
	currency  string
	createErr error
	succeeded bool
	checkErr  error
}

func (f *fakePayments) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*PaymentIntentRef, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.amount = amount
	f.currency = currency
	return &PaymentIntentRef{ID: "pi_123", ClientSecret: "cs_test"}, nil
}

func (f *fakePayments) IntentSucceeded(ctx context.Context, intentID string) (bool, error) {
	return f.succeeded, f.checkErr
}

type fakeReminders struct {
	bookings []models.Booking
	startAts []time.Time
}

func (f *fakeReminders) ScheduleReminder(ctx context.Context, booking models.Booking, startAt time.Time) error {
	f.bookings = append(f.bookings, booking)
	f.startAts = append(f.startAts, startAt)
	return nil
}

// emptySource forces the fetcher onto the local generation path.
type emptySource struct {
	onCall func()
}

func (s *emptySource) AvailableSlots(ctx context.Context, agentID, date, customerZone string) ([]models.Slot, error) {
	if s.onCall != nil {
		s.onCall()
	}
	return nil, nil
}

func wizardSettings() *models.AppointmentSettings {
	return &models.AppointmentSettings{
		AgentID:  "agent-1",
		Timezone: "America/New_York",
		Availability: []models.AvailabilityRule{
			{Day: "Monday", Available: true, TimeSlots: []models.TimeWindow{{StartTime: "09:00", EndTime: "17:00"}}},
		},
		MeetingDuration: 30,
		BufferTime:      10,
		Price:           models.Price{IsFree: true},
		Locations:       []models.LocationKind{models.LocationGoogleMeet, models.LocationZoom},
	}
}

func wizardClock() *utils.FixedClock {
	return utils.NewFixedClock(time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC))
}

type wizardFixture struct {
	svc       *DefaultWizardService
	store     *SessionStore
	bookings  *fakeBookings
	payments  *fakePayments
	reminders *fakeReminders
	source    *emptySource
}

func newWizardFixture(t *testing.T, settings *models.AppointmentSettings) *wizardFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, 30*time.Minute)

	source := &emptySource{}
	bookings := &fakeBookings{}
	payments := &fakePayments{}
	reminders := &fakeReminders{}

	svc := &DefaultWizardService{
		SettingsRepo: &fakeSettingsRepo{settings: settings},
		Bookings:     bookings,
		Fetcher:      scheduling.NewFetcher(source, wizardClock()),
		Store:        store,
		Payments:     payments,
		Reminders:    reminders,
		Clock:        wizardClock(),
		PhoneRegion:  "US",
	}
	return &wizardFixture{svc: svc, store: store, bookings: bookings, payments: payments, reminders: reminders, source: source}
}

func validDetails() DetailsInput {
	return DetailsInput{
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "+12025550123",
		Location: models.LocationGoogleMeet,
	}
}

func TestWizard_FreeBookingFlow(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, session.Step)
	assert.NotEmpty(t, session.SessionID)

	// 09-MAR-2026 is a Monday after the US spring DST change, so
	// 09:00 EDT renders as 18:30 in Kolkata.
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	assert.Equal(t, models.StepTime, session.Step)
	require.Len(t, session.Slots, 12)
	assert.Equal(t, "18:30", session.Slots[0].StartTime)
	assert.Equal(t, "19:00", session.Slots[0].EndTime)
	assert.False(t, session.BusinessLocalOnly)

	// Clients pin slots by wall-clock times only.
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, models.Slot{StartTime: "18:30", EndTime: "19:00"})
	require.NoError(t, err)
	assert.Equal(t, models.StepDetails, session.Step)
	require.NotNil(t, session.Draft.SelectedSlot)
	assert.False(t, session.Draft.SelectedSlot.StartAt.IsZero())

	session, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, session.Step)
	assert.Equal(t, "bk_1", session.BookingID)

	// The submission converts back to business-local time.
	require.Len(t, fx.bookings.created, 1)
	req := fx.bookings.created[0]
	assert.Equal(t, "agent-1", req.AgentID)
	assert.Equal(t, "09-MAR-2026", req.Date)
	assert.Equal(t, "09:00", req.StartTime)
	assert.Equal(t, "09:30", req.EndTime)
	assert.Equal(t, "+12025550123", req.Phone)
	assert.Equal(t, "Asia/Kolkata", req.UserTimezone)

	// A reminder was queued for the concrete start instant.
	require.Len(t, fx.reminders.startAts, 1)
	ny, _ := time.LoadLocation("America/New_York")
	assert.Equal(t, time.Date(2026, time.March, 9, 9, 0, 0, 0, ny).UTC(), fx.reminders.startAts[0].UTC())

	// Free agents never touch the payment provider.
	assert.Zero(t, fx.payments.amount)
}

func TestWizard_PaidFlowRequiresPayment(t *testing.T) {
	settings := wizardSettings()
	settings.Price = models.Price{IsFree: false, Amount: 75.50, Currency: "usd"}
	fx := newWizardFixture(t, settings)
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)

	session, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	require.NoError(t, err)
	assert.Equal(t, models.StepPayment, session.Step)
	assert.Equal(t, "pi_123", session.PaymentIntentID)
	assert.Equal(t, "cs_test", session.PaymentClientSecret)
	assert.Equal(t, int64(7550), fx.payments.amount)
	assert.Equal(t, "usd", fx.payments.currency)
	assert.Empty(t, fx.bookings.created)

	// Payment not completed: no booking, wizard stays on payment.
	_, err = fx.svc.CompletePayment(ctx, session.SessionID)
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.Empty(t, fx.bookings.created)

	reloaded, err := fx.store.GetBooking(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepPayment, reloaded.Step)

	// Now the provider reports success.
	fx.payments.succeeded = true
	session, err = fx.svc.CompletePayment(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, session.Step)
	assert.Equal(t, "bk_1", session.BookingID)
	require.Len(t, fx.bookings.created, 1)
}

func TestWizard_ValidationFailsLocally(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	_, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)

	cases := []DetailsInput{
		{Name: "", Email: "a@b.com", Location: models.LocationZoom},
		{Name: "A", Email: "not-an-email", Location: models.LocationZoom},
		{Name: "A", Email: "a@b.com", Phone: "12", Location: models.LocationZoom},
		{Name: "A", Email: "a@b.com", Location: "carrier_pigeon"},
		{Name: "A", Email: "a@b.com", Location: models.LocationTeams}, // not offered by agent
	}
	for _, input := range cases {
		_, err := fx.svc.SubmitDetails(ctx, session.SessionID, input)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr, "%+v", input)
	}

	// Validation is local: nothing was submitted anywhere.
	assert.Empty(t, fx.bookings.created)
	assert.Zero(t, fx.payments.amount)
}

func TestWizard_BackPreservesDraft(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[2])
	require.NoError(t, err)

	session, err = fx.svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepTime, session.Step)

	session, err = fx.svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, session.Step)

	// Already at the first step: Back is a no-op, not an error.
	session, err = fx.svc.Back(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDate, session.Step)

	// Everything entered so far survives backward navigation.
	assert.Equal(t, "09-MAR-2026", session.Draft.SelectedDate)
	require.NotNil(t, session.Draft.SelectedSlot)
}

func TestWizard_ReselectingSameDateKeepsSlot(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)

	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-Mar-2026")
	require.NoError(t, err)
	assert.NotNil(t, session.Draft.SelectedSlot)
}

func TestWizard_ChangingDateClearsPinnedSlot(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)

	session, err = fx.svc.SelectDate(ctx, session.SessionID, "16-MAR-2026")
	require.NoError(t, err)
	assert.Nil(t, session.Draft.SelectedSlot)
	assert.Equal(t, "16-MAR-2026", session.Draft.SelectedDate)
}

func TestWizard_StaleFetchDropped(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	sessionID := session.SessionID

	// While the fetch for 09-MAR is in flight, the user moves on to
	// 16-MAR. The late result must not overwrite the newer selection.
	fx.source.onCall = func() {
		current, err := fx.store.GetBooking(ctx, sessionID)
		require.NoError(t, err)
		current.Draft.SelectedDate = "16-MAR-2026"
		require.NoError(t, fx.store.SaveBooking(ctx, current))
	}

	session, err = fx.svc.SelectDate(ctx, sessionID, "09-MAR-2026")
	require.NoError(t, err)
	assert.Equal(t, "16-MAR-2026", session.Draft.SelectedDate)
	assert.Empty(t, session.Slots)
}

func TestWizard_InvalidTransitions(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)

	_, err = fx.svc.SelectSlot(ctx, session.SessionID, models.Slot{StartTime: "09:00", EndTime: "09:30"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = fx.svc.CompletePayment(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestWizard_ConfirmedSessionIsTerminal(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)
	session, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	require.NoError(t, err)
	require.Equal(t, models.StepConfirmation, session.Step)
	require.Len(t, fx.bookings.created, 1)

	// The booking is made; the session accepts no further navigation
	// and a repeated submission must not create a second booking.
	_, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Len(t, fx.bookings.created, 1)

	_, err = fx.svc.SelectDate(ctx, session.SessionID, "16-MAR-2026")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = fx.svc.Back(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	reloaded, err := fx.store.GetBooking(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, reloaded.Step)
	assert.Equal(t, "bk_1", reloaded.BookingID)
}

func TestWizard_MidnightCrossingSlotSubmitsCorrectEnd(t *testing.T) {
	settings := wizardSettings()
	settings.Timezone = "Asia/Kolkata"
	fx := newWizardFixture(t, settings)
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)

	// Monday 09:00 IST on 09-MAR-2026 is Sunday 23:30 EDT in New York;
	// the slot's customer-local wall clock wraps past midnight.
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	require.NotEmpty(t, session.Slots)
	assert.Equal(t, "23:30", session.Slots[0].StartTime)
	assert.Equal(t, "00:00", session.Slots[0].EndTime)

	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)
	_, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	require.NoError(t, err)

	// The end converts from the start instant, not from the end clock
	// on the start's calendar date, so the DST change between the two
	// customer-local days cannot skew it.
	require.Len(t, fx.bookings.created, 1)
	req := fx.bookings.created[0]
	assert.Equal(t, "09-MAR-2026", req.Date)
	assert.Equal(t, "09:00", req.StartTime)
	assert.Equal(t, "09:30", req.EndTime)
}

func TestWizard_UnknownSession(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	_, err := fx.svc.SelectDate(ctx, "nope", "09-MAR-2026")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = fx.svc.Back(ctx, "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestWizard_SlotMustBeOffered(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)

	_, err = fx.svc.SelectSlot(ctx, session.SessionID, models.Slot{StartTime: "03:00", EndTime: "03:30"})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestWizard_UnbookableDateRejected(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)

	var vErr *ValidationError
	// A Sunday with no rule falls back, but a past date never books.
	_, err = fx.svc.SelectDate(ctx, session.SessionID, "12-JAN-2026")
	assert.ErrorAs(t, err, &vErr)

	_, err = fx.svc.SelectDate(ctx, session.SessionID, "garbage")
	assert.ErrorAs(t, err, &vErr)
}

func TestWizard_SettingsFailureIsTerminal(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	fx.svc.SettingsRepo = &fakeSettingsRepo{err: errors.New("mongo down")}

	_, err := fx.svc.StartSession(context.Background(), "agent-1", "user-1", "America/New_York")
	var loadErr *SettingsLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "agent-1", loadErr.AgentID)
}

func TestWizard_BusinessLocalOnlyFallback(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "Pacific/Atlantis")
	require.NoError(t, err)

	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	assert.True(t, session.BusinessLocalOnly)
	require.NotEmpty(t, session.Slots)
	assert.Equal(t, "09:00", session.Slots[0].StartTime)

	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)
	session, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	require.NoError(t, err)
	assert.Equal(t, models.StepConfirmation, session.Step)

	// Business-local sessions submit times untouched.
	require.Len(t, fx.bookings.created, 1)
	assert.Equal(t, "09:00", fx.bookings.created[0].StartTime)
	assert.Equal(t, "09-MAR-2026", fx.bookings.created[0].Date)
}

func TestWizard_SubmissionFailureKeepsStep(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	fx.bookings.createErr = bookingRepo.ErrSlotTaken
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)
	session, err = fx.svc.SelectDate(ctx, session.SessionID, "09-MAR-2026")
	require.NoError(t, err)
	session, err = fx.svc.SelectSlot(ctx, session.SessionID, session.Slots[0])
	require.NoError(t, err)

	_, err = fx.svc.SubmitDetails(ctx, session.SessionID, validDetails())
	var subErr *SubmissionError
	require.ErrorAs(t, err, &subErr)
	assert.ErrorIs(t, err, bookingRepo.ErrSlotTaken)

	reloaded, err := fx.store.GetBooking(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.StepDetails, reloaded.Step)
	assert.Empty(t, reloaded.BookingID)
}

func TestWizard_CancelDeletesSession(t *testing.T) {
	fx := newWizardFixture(t, wizardSettings())
	ctx := context.Background()

	session, err := fx.svc.StartSession(ctx, "agent-1", "user-1", "America/New_York")
	require.NoError(t, err)

	require.NoError(t, fx.svc.CancelSession(ctx, session.SessionID))
	_, err = fx.store.GetBooking(ctx, session.SessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
