package jobs

import (
	"encoding/json"
	"time"
)

// BookingConfirmationPayload carries everything the worker needs to send
// a confirmation without loading the booking back from the DB.
type BookingConfirmationPayload struct {
	BookingID   string    `json:"booking_id"`
	EventID     string    `json:"event_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	RequestedAt time.Time `json:"requested_at"`
}

func (p BookingConfirmationPayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

// EventCancelledPayload notifies booked attendees when an owner flips an
// event to cancelled.
type EventCancelledPayload struct {
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	RequestedAt time.Time `json:"requested_at"`
}

func (p EventCancelledPayload) JSON() (json.RawMessage, error) {
	b, err := json.Marshal(p)

	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
