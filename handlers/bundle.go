package handlers

// HandlerBundle groups the HTTP handlers for route registration.
type HandlerBundle struct {
	Wizard     *WizardHandler
	Reschedule *RescheduleHandler
	Slots      *SlotHandler
}
