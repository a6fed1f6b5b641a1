package client_test

import (
	"reflect"
	"testing"

	"github.com/geocoder89/tickethub/client"
)

func validDraft() client.EventDraft {
	return client.EventDraft{
		Title:       "Kathmandu Jazz Night",
		Description: "An evening of live jazz",
		CategoryID:  1,
		VenueID:     2,
		StartDate:   "2026-10-01",
		StartTime:   "18:00",
		EndTime:     "22:00",
		Price:       1500,
		TotalSeats:  120,
		Tags:        "music, live, outdoor",
	}
}

func TestDraftValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if errs := validDraft().Validate(); len(errs) != 0 {
			t.Errorf("unexpected violations: %+v", errs)
		}
	})

	t.Run("reports_all_missing_fields_at_once", func(t *testing.T) {
		errs := client.EventDraft{}.Validate()

		fields := map[string]bool{}

		for _, e := range errs {
			fields[e.Field] = true
		}

		for _, want := range []string{"title", "description", "category_id", "venue_id", "start_date", "start_time", "total_seats"} {
			if !fields[want] {
				t.Errorf("expected a violation for %q, got %+v", want, errs)
			}
		}
	})

	t.Run("end_time_optional", func(t *testing.T) {
		d := validDraft()
		d.EndTime = ""

		if errs := d.Validate(); len(errs) != 0 {
			t.Errorf("unexpected violations: %+v", errs)
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		d := validDraft()
		d.EndDate = "2026-09-30"

		errs := d.Validate()

		if len(errs) != 1 || errs[0].Field != "end_date" || errs[0].Rule != "date_order" {
			t.Errorf("violations = %+v", errs)
		}
	})

	t.Run("equal_dates_ok", func(t *testing.T) {
		d := validDraft()
		d.EndDate = d.StartDate

		if errs := d.Validate(); len(errs) != 0 {
			t.Errorf("unexpected violations: %+v", errs)
		}
	})

	t.Run("negative_price", func(t *testing.T) {
		d := validDraft()
		d.Price = -1

		errs := d.Validate()

		if len(errs) != 1 || errs[0].Field != "price" {
			t.Errorf("violations = %+v", errs)
		}
	})

	t.Run("zero_price_is_free_event", func(t *testing.T) {
		d := validDraft()
		d.Price = 0

		if errs := d.Validate(); len(errs) != 0 {
			t.Errorf("unexpected violations: %+v", errs)
		}
	})
}

func TestDraftTagsRoundTrip(t *testing.T) {
	d := validDraft()

	want := []string{"music", "live", "outdoor"}

	if got := d.ParsedTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("ParsedTags() = %v, want %v", got, want)
	}

	e := client.Event{Tags: want}
	seeded := client.DraftFromEvent(e)

	if seeded.Tags != "music, live, outdoor" {
		t.Errorf("seeded tags = %q", seeded.Tags)
	}

	if got := seeded.ParsedTags(); !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}

func TestDraftFromEventSeedsAllFields(t *testing.T) {
	e := client.Event{
		Title:       "Jazz Night",
		Description: "Live jazz",
		CategoryID:  1,
		VenueID:     2,
		StartDate:   "2026-10-01",
		EndDate:     "2026-10-02",
		StartTime:   "18:00",
		EndTime:     "22:00",
		Price:       1500,
		TotalSeats:  120,
		Status:      "upcoming",
		Tags:        []string{"music"},
	}

	d := client.DraftFromEvent(e)

	if d.Title != e.Title || d.StartDate != e.StartDate || d.EndDate != e.EndDate || d.TotalSeats != e.TotalSeats {
		t.Errorf("draft = %+v", d)
	}

	if errs := d.Validate(); len(errs) != 0 {
		t.Errorf("seeded draft should validate cleanly: %+v", errs)
	}
}

func TestDraftPayloadTags(t *testing.T) {
	d := validDraft()
	d.Tags = " rock ,, indie ,"

	payload := d.Payload()

	tags, ok := payload["tags"].([]string)

	if !ok {
		t.Fatalf("tags payload type = %T", payload["tags"])
	}

	if !reflect.DeepEqual(tags, []string{"rock", "indie"}) {
		t.Errorf("tags = %v", tags)
	}

	if _, present := payload["end_date"]; present {
		t.Error("empty end_date should be omitted from the payload")
	}
}
