package booking

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound     = errors.New("booking not found")
	ErrSoldOut      = errors.New("not enough seats available")
	ErrNotCancelled = errors.New("booking could not be cancelled")
)

type CreateBookingRequest struct {
	EventID  string `json:"-"`
	UserID   string `json:"-"`
	Quantity int    `json:"quantity" binding:"required,min=1,max=10"`
}

// A factory to build a Booking from the incoming DTO

func NewFromCreateRequest(req CreateBookingRequest) Booking {
	now := time.Now().UTC()

	return Booking{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		UserID:    req.UserID,
		Quantity:  req.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
