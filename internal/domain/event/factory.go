package event

import (
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds the stored record from a validated create
// request. Server-assigned fields: id, organizer, available_seats (full
// capacity), status and the currency default.
func NewFromCreateRequest(req CreateEventRequest, organizerID, defaultCurrency string, images []string) Event {
	now := time.Now().UTC()

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	if images == nil {
		images = []string{}
	}

	return Event{
		ID:             uuid.NewString(),
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		VenueID:        req.VenueID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Price:          req.Price,
		Currency:       currency,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         StatusUpcoming,
		OrganizerID:    organizerID,
		Tags:           ParseTags(req.Tags),
		Images:         images,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
