package event

import (
	"errors"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

type Event struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	CategoryID     int       `json:"category_id"`
	VenueID        int       `json:"venue_id"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time,omitempty"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	Status         Status    `json:"status"`
	OrganizerID    string    `json:"organizer_id"`
	Tags           []string  `json:"tags"`
	Images         []string  `json:"images"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

var (
	ErrNotFound       = errors.New("event not found")
	ErrNotOwner       = errors.New("caller is not the organizer of this event")
	ErrEndBeforeStart = errors.New("end_date cannot be before start_date")

	// returned when an update would shrink total_seats below the
	// seats already booked
	ErrSeatsBelowBooked = errors.New("total_seats cannot drop below booked seats")
)

// with pointers if optional, it will be nil
type ListEventsFilter struct {
	CategoryID  *int
	VenueID     *int
	Status      *Status
	OrganizerID *string
	Query       *string
	From        *string
	To          *string
	Limit       int
}

// CreateEventRequest is bound from a multipart form: the create endpoint
// accepts an optional image file alongside these fields. Tags arrive as a
// single comma-separated string.
type CreateEventRequest struct {
	Title       string  `form:"title" binding:"required,min=3,max=200"`
	Description string  `form:"description" binding:"required,max=5000"`
	CategoryID  int     `form:"category_id" binding:"required,min=1"`
	VenueID     int     `form:"venue_id" binding:"required,min=1"`
	StartDate   string  `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string  `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime   string  `form:"start_time" binding:"required,datetime=15:04"`
	EndTime     string  `form:"end_time" binding:"omitempty,datetime=15:04"`
	Price       float64 `form:"price" binding:"gte=0"`
	Currency    string  `form:"currency" binding:"omitempty,len=3"`
	TotalSeats  int     `form:"total_seats" binding:"required,min=1,max=100000"`
	Tags        string  `form:"tags" binding:"omitempty,max=500"`
}

// NormalizeDates applies the end_date default and enforces the date
// ordering invariant. Runs after the per-field checks have passed, so
// both values are already well-formed dates.
func (r *CreateEventRequest) NormalizeDates() error {
	if r.EndDate == "" {
		r.EndDate = r.StartDate
	}

	return checkDateOrder(r.StartDate, r.EndDate)
}

// UpdateEventRequest carries partial-update semantics: nil means "leave the
// stored value unchanged". Tags are a JSON array here, unlike create.
type UpdateEventRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=3,max=200"`
	Description *string   `json:"description" binding:"omitempty,max=5000"`
	CategoryID  *int      `json:"category_id" binding:"omitempty,min=1"`
	VenueID     *int      `json:"venue_id" binding:"omitempty,min=1"`
	StartDate   *string   `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string   `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime   *string   `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime     *string   `json:"end_time" binding:"omitempty,datetime=15:04"`
	Price       *float64  `json:"price" binding:"omitempty,gte=0"`
	Currency    *string   `json:"currency" binding:"omitempty,len=3"`
	TotalSeats  *int      `json:"total_seats" binding:"omitempty,min=1,max=100000"`
	Tags        *[]string `json:"tags"`
	Status      *Status   `json:"status" binding:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

// ApplyTo merges the supplied fields into e and reapplies the date
// ordering and seat invariants against the merged values.
func (r UpdateEventRequest) ApplyTo(e *Event) error {
	if r.Title != nil {
		e.Title = *r.Title
	}
	if r.Description != nil {
		e.Description = *r.Description
	}
	if r.CategoryID != nil {
		e.CategoryID = *r.CategoryID
	}
	if r.VenueID != nil {
		e.VenueID = *r.VenueID
	}
	if r.StartDate != nil {
		e.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		e.EndDate = *r.EndDate
	}
	if r.StartTime != nil {
		e.StartTime = *r.StartTime
	}
	if r.EndTime != nil {
		e.EndTime = *r.EndTime
	}
	if r.Price != nil {
		e.Price = *r.Price
	}
	if r.Currency != nil {
		e.Currency = *r.Currency
	}
	if r.TotalSeats != nil {
		// booked seats survive a resize; available_seats tracks the
		// new total so available <= total always holds
		booked := e.TotalSeats - e.AvailableSeats

		if *r.TotalSeats < booked {
			return ErrSeatsBelowBooked
		}

		e.TotalSeats = *r.TotalSeats
		e.AvailableSeats = *r.TotalSeats - booked
	}
	if r.Tags != nil {
		e.Tags = NormalizeTags(*r.Tags)
	}
	if r.Status != nil {
		e.Status = *r.Status
	}

	if e.EndDate == "" {
		e.EndDate = e.StartDate
	}

	return checkDateOrder(e.StartDate, e.EndDate)
}

func checkDateOrder(start, end string) error {
	sd, err := time.Parse(DateLayout, start)
	if err != nil {
		return err
	}

	ed, err := time.Parse(DateLayout, end)
	if err != nil {
		return err
	}

	if ed.Before(sd) {
		return ErrEndBeforeStart
	}

	return nil
}
