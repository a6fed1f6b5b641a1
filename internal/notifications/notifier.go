package notifications

import "context"

type BookingConfirmationInput struct {
	Email     string
	Name      string
	EventID   string
	BookingID string
	Quantity  int
}

type EventCancelledInput struct {
	EventID string
	Title   string
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, input BookingConfirmationInput) error
	SendEventCancelled(ctx context.Context, input EventCancelledInput) error
}
