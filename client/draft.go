package client

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// EventDraft is the editable form state for creating or updating an
// event. Tags are held as the raw comma-separated input the user types.
type EventDraft struct {
	Title       string
	Description string
	CategoryID  int
	VenueID     int
	StartDate   string
	EndDate     string
	StartTime   string
	EndTime     string
	Price       float64
	TotalSeats  int
	Tags        string
	Status      string
}

// DraftFromEvent seeds an edit form from a fetched event. The tag list
// is joined back into the comma-separated display form.
func DraftFromEvent(e Event) EventDraft {
	return EventDraft{
		Title:       e.Title,
		Description: e.Description,
		CategoryID:  e.CategoryID,
		VenueID:     e.VenueID,
		StartDate:   e.StartDate,
		EndDate:     e.EndDate,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Price:       e.Price,
		TotalSeats:  e.TotalSeats,
		Tags:        strings.Join(e.Tags, ", "),
		Status:      e.Status,
	}
}

// Validate runs the same checks the form runs before submitting. The
// server remains authoritative; this only catches the obvious mistakes
// early. All violations are reported at once.
func (d EventDraft) Validate() []FieldError {
	var errs []FieldError

	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, FieldError{Field: field, Rule: "required", Message: "is required"})
		}
	}

	require("title", d.Title)
	require("description", d.Description)
	require("start_date", d.StartDate)
	require("start_time", d.StartTime)

	if d.CategoryID < 1 {
		errs = append(errs, FieldError{Field: "category_id", Rule: "required", Message: "is required"})
	}

	if d.VenueID < 1 {
		errs = append(errs, FieldError{Field: "venue_id", Rule: "required", Message: "is required"})
	}

	if d.Price < 0 {
		errs = append(errs, FieldError{Field: "price", Rule: "gte", Param: "0", Message: "must be zero or more"})
	}

	if d.TotalSeats < 1 {
		errs = append(errs, FieldError{Field: "total_seats", Rule: "min", Param: "1", Message: "must be at least 1"})
	}

	start, startErr := time.Parse(dateLayout, d.StartDate)

	if d.StartDate != "" && startErr != nil {
		errs = append(errs, FieldError{Field: "start_date", Rule: "datetime", Param: dateLayout, Message: "must match format " + dateLayout})
	}

	if d.EndDate != "" {
		end, err := time.Parse(dateLayout, d.EndDate)

		if err != nil {
			errs = append(errs, FieldError{Field: "end_date", Rule: "datetime", Param: dateLayout, Message: "must match format " + dateLayout})
		} else if startErr == nil && end.Before(start) {
			// cross-field check only once both dates parse
			errs = append(errs, FieldError{Field: "end_date", Rule: "date_order", Message: "cannot be before start_date"})
		}
	}

	return errs
}

// ParsedTags returns the draft's tags as the trimmed, non-empty, ordered
// list the server will store.
func (d EventDraft) ParsedTags() []string {
	parts := strings.Split(d.Tags, ",")

	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}

	return tags
}

// Payload is the JSON body shape for a full update of the draft.
func (d EventDraft) Payload() map[string]any {
	payload := map[string]any{
		"title":       d.Title,
		"description": d.Description,
		"category_id": d.CategoryID,
		"venue_id":    d.VenueID,
		"start_date":  d.StartDate,
		"start_time":  d.StartTime,
		"price":       d.Price,
		"total_seats": d.TotalSeats,
		"tags":        d.ParsedTags(),
	}

	if d.EndDate != "" {
		payload["end_date"] = d.EndDate
	}

	if d.EndTime != "" {
		payload["end_time"] = d.EndTime
	}

	if d.Status != "" {
		payload["status"] = d.Status
	}

	return payload
}

// formFields flattens the draft for the multipart create endpoint.
func (d EventDraft) formFields() map[string]string {
	fields := map[string]string{
		"title":       d.Title,
		"description": d.Description,
		"category_id": strconv.Itoa(d.CategoryID),
		"venue_id":    strconv.Itoa(d.VenueID),
		"start_date":  d.StartDate,
		"start_time":  d.StartTime,
		"price":       strconv.FormatFloat(d.Price, 'f', -1, 64),
		"total_seats": strconv.Itoa(d.TotalSeats),
		"tags":        strings.Join(d.ParsedTags(), ","),
	}

	if d.EndDate != "" {
		fields["end_date"] = d.EndDate
	}

	if d.EndTime != "" {
		fields["end_time"] = d.EndTime
	}

	return fields
}
