package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/geocoder89/tickethub/internal/domain/event"
	"github.com/geocoder89/tickethub/internal/domain/job"
	"github.com/geocoder89/tickethub/internal/http/handlers"
	"github.com/geocoder89/tickethub/internal/http/middlewares"
	"github.com/geocoder89/tickethub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// keep gin quiet during tests

func init() {
	gin.SetMode(gin.TestMode)
}

const testOrganizerID = "0b54ad99-5be1-4b21-9f2a-30a5e3a5c001"

// Fake implementations of the handler-side repository interfaces

type fakeEventsRepo struct {
	createFn     func(ctx context.Context, e event.Event) (event.Event, error)
	getFn        func(ctx context.Context, id string) (event.Event, error)
	listCursorFn func(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error)
	updateFn     func(ctx context.Context, e event.Event) (event.Event, error)
	deleteFn     func(ctx context.Context, id string) error

	updateCalls int
	deleteCalls int
}

func (f *fakeEventsRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	if f.createFn != nil {
		return f.createFn(ctx, e)
	}

	return e, nil
}

func (f *fakeEventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}

	return event.Event{}, event.ErrNotFound
}

func (f *fakeEventsRepo) ListCursor(ctx context.Context, filter event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error) {
	if f.listCursorFn != nil {
		return f.listCursorFn(ctx, filter, after)
	}

	return []event.Event{}, false, nil
}

func (f *fakeEventsRepo) Update(ctx context.Context, e event.Event) (event.Event, error) {
	f.updateCalls++

	if f.updateFn != nil {
		return f.updateFn(ctx, e)
	}

	return e, nil
}

func (f *fakeEventsRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalls++

	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}

	return nil
}

type fakeRefs struct {
	existFn func(ctx context.Context, categoryID, venueID int) error
}

func (f *fakeRefs) ExistCategoryAndVenue(ctx context.Context, categoryID, venueID int) error {
	if f.existFn != nil {
		return f.existFn(ctx, categoryID, venueID)
	}

	return nil
}

type fakeImages struct{}

func (f *fakeImages) SaveEventImage(ctx *gin.Context, file *multipart.FileHeader) (string, error) {
	return "uploads/events/event-test.png", nil
}

type fakeJobs struct {
	created []job.CreateRequest
}

func (f *fakeJobs) Create(ctx context.Context, req job.CreateRequest) (job.Job, error) {
	f.created = append(f.created, req)
	return job.New(req), nil
}

func (f *fakeJobs) CreateTx(ctx context.Context, tx pgx.Tx, req job.CreateRequest) (job.Job, error) {
	f.created = append(f.created, req)
	return job.New(req), nil
}

func newEventsHandler(repo *fakeEventsRepo, jobsRepo *fakeJobs) *handlers.EventsHandler {
	return handlers.NewEventsHandler(repo, &fakeRefs{}, &fakeImages{}, nil, jobsRepo, "NPR")
}

// mounts one handler with an injected identity, like RequireAuth would

func setupRouter(method, path, userID string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	if userID != "" {
		r.Use(func(c *gin.Context) {
			middlewares.SetIdentityForTest(c, userID, "organizer@example.com", "user")
			c.Next()
		})
	}

	r.Handle(method, path, h)

	return r
}

func validCreateForm() url.Values {
	form := url.Values{}
	form.Set("title", "Kathmandu Jazz Night")
	form.Set("description", "An evening of live jazz")
	form.Set("category_id", "1")
	form.Set("venue_id", "2")
	form.Set("start_date", "2026-10-01")
	form.Set("start_time", "18:00")
	form.Set("end_time", "22:00")
	form.Set("price", "1500")
	form.Set("total_seats", "120")
	form.Set("tags", "music, live, outdoor")

	return form
}

func postForm(r *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()

	var env map[string]json.RawMessage

	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not valid JSON: %v, body=%s", err, w.Body.String())
	}

	return env
}

func TestCreateEvent(t *testing.T) {
	t.Run("success_sets_server_fields", func(t *testing.T) {
		repo := &fakeEventsRepo{}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", testOrganizerID, h.CreateEvent)

		w := postForm(r, "/events", validCreateForm())

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var created event.Event

		if err := json.Unmarshal(env["data"], &created); err != nil {
			t.Fatalf("bad data payload: %v", err)
		}

		if created.OrganizerID != testOrganizerID {
			t.Errorf("organizer_id = %q, want caller id", created.OrganizerID)
		}
		if created.AvailableSeats != created.TotalSeats {
			t.Errorf("available_seats = %d, want total_seats %d", created.AvailableSeats, created.TotalSeats)
		}
		if created.Status != event.StatusUpcoming {
			t.Errorf("status = %q, want upcoming", created.Status)
		}
		if created.Currency != "NPR" {
			t.Errorf("currency = %q, want default NPR", created.Currency)
		}
		if created.EndDate != "2026-10-01" {
			t.Errorf("end_date = %q, want defaulted to start_date", created.EndDate)
		}
		if len(created.Tags) != 3 || created.Tags[0] != "music" || created.Tags[2] != "outdoor" {
			t.Errorf("tags = %v, want parsed [music live outdoor]", created.Tags)
		}
		if !utils.IsUUID(created.ID) {
			t.Errorf("id = %q, want server-assigned uuid", created.ID)
		}
	})

	t.Run("missing_required_fields_lists_all_violations", func(t *testing.T) {
		repo := &fakeEventsRepo{
			createFn: func(ctx context.Context, e event.Event) (event.Event, error) {
				t.Fatal("repo must not be called on validation failure")
				return event.Event{}, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", testOrganizerID, h.CreateEvent)

		form := url.Values{}
		form.Set("description", "no title, no dates")

		w := postForm(r, "/events", form)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var fieldErrs []handlers.FieldError

		if err := json.Unmarshal(env["errors"], &fieldErrs); err != nil {
			t.Fatalf("errors payload missing: %v, body=%s", err, w.Body.String())
		}

		// every violated field must be reported, not just the first
		missing := map[string]bool{}

		for _, fe := range fieldErrs {
			missing[fe.Field] = true
		}

		for _, want := range []string{"title", "category_id", "venue_id", "start_date", "start_time", "total_seats"} {
			if !missing[want] {
				t.Errorf("expected a violation for %q, got %v", want, fieldErrs)
			}
		}
	})

	t.Run("end_date_before_start_date_rejected", func(t *testing.T) {
		repo := &fakeEventsRepo{
			createFn: func(ctx context.Context, e event.Event) (event.Event, error) {
				t.Fatal("repo must not be called when the date order is invalid")
				return event.Event{}, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", testOrganizerID, h.CreateEvent)

		form := validCreateForm()
		form.Set("end_date", "2026-09-30")

		w := postForm(r, "/events", form)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("equal_dates_allowed", func(t *testing.T) {
		repo := &fakeEventsRepo{}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", testOrganizerID, h.CreateEvent)

		form := validCreateForm()
		form.Set("end_date", "2026-10-01")

		w := postForm(r, "/events", form)

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("end_time_optional", func(t *testing.T) {
		repo := &fakeEventsRepo{}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", testOrganizerID, h.CreateEvent)

		form := validCreateForm()
		form.Del("end_time")

		w := postForm(r, "/events", form)

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("missing_identity_unauthorized", func(t *testing.T) {
		h := newEventsHandler(&fakeEventsRepo{}, &fakeJobs{})
		r := setupRouter(http.MethodPost, "/events", "", h.CreateEvent)

		w := postForm(r, "/events", validCreateForm())

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d, want 401", w.Code)
		}
	})
}

func storedEvent() event.Event {
	return event.Event{
		ID:             "7d4ccf5e-88f3-43cc-9a52-2f1a6b3c9d10",
		Title:          "Kathmandu Jazz Night",
		Description:    "An evening of live jazz",
		CategoryID:     1,
		VenueID:        2,
		StartDate:      "2026-10-01",
		EndDate:        "2026-10-02",
		StartTime:      "18:00",
		EndTime:        "22:00",
		Price:          1500,
		Currency:       "NPR",
		TotalSeats:     120,
		AvailableSeats: 100,
		Status:         event.StatusUpcoming,
		OrganizerID:    testOrganizerID,
		Tags:           []string{"music", "live"},
	}
}

func putJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestUpdateEvent(t *testing.T) {
	stored := storedEvent()

	t.Run("partial_update_leaves_other_fields", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/"+stored.ID, `{"title": "Jazz Night (rescheduled)"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var updated event.Event

		if err := json.Unmarshal(env["data"], &updated); err != nil {
			t.Fatalf("bad data payload: %v", err)
		}

		if updated.Title != "Jazz Night (rescheduled)" {
			t.Errorf("title not updated: %q", updated.Title)
		}
		if updated.Description != stored.Description || updated.Price != stored.Price || updated.StartDate != stored.StartDate {
			t.Errorf("omitted fields changed: %+v", updated)
		}
		if updated.AvailableSeats != stored.AvailableSeats {
			t.Errorf("available_seats changed on update: %d", updated.AvailableSeats)
		}
	})

	t.Run("non_owner_forbidden_no_mutation", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", uuid.NewString(), h.UpdateEvent)

		w := putJSON(r, "/events/"+stored.ID, `{"title": "Hijacked title"}`)

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want 403, body=%s", w.Code, w.Body.String())
		}

		if repo.updateCalls != 0 {
			t.Errorf("repo.Update called %d times on a forbidden request", repo.updateCalls)
		}
	})

	t.Run("end_date_invariant_checked_against_stored_start", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		// stored start_date is 2026-10-01
		w := putJSON(r, "/events/"+stored.ID, `{"end_date": "2026-09-15"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}

		if repo.updateCalls != 0 {
			t.Errorf("repo.Update called despite invalid date order")
		}
	})

	t.Run("seat_shrink_below_booked_rejected", func(t *testing.T) {
		// stored has 120 total, 100 available, so 20 seats are booked
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/"+stored.ID, `{"total_seats": 10}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var fields []struct {
			Field string `json:"field"`
		}

		if err := json.Unmarshal(env["errors"], &fields); err != nil {
			t.Fatalf("bad errors payload: %v", err)
		}

		if len(fields) != 1 || fields[0].Field != "total_seats" {
			t.Errorf("errors = %+v, want one violation on total_seats", fields)
		}

		if repo.updateCalls != 0 {
			t.Errorf("repo.Update called despite seat invariant violation")
		}
	})

	t.Run("seat_shrink_keeps_booked_seats", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/"+stored.ID, `{"total_seats": 50}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var updated event.Event

		if err := json.Unmarshal(env["data"], &updated); err != nil {
			t.Fatalf("bad data payload: %v", err)
		}

		if updated.TotalSeats != 50 || updated.AvailableSeats != 30 {
			t.Errorf("seats = %d/%d, want 30/50", updated.AvailableSeats, updated.TotalSeats)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return event.Event{}, event.ErrNotFound
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/"+uuid.NewString(), `{"title": "whatever it takes"}`)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})

	t.Run("cancelling_enqueues_notice", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		jobsRepo := &fakeJobs{}
		h := newEventsHandler(repo, jobsRepo)
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/"+stored.ID, `{"status": "cancelled"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if len(jobsRepo.created) != 1 {
			t.Fatalf("jobs enqueued = %d, want 1", len(jobsRepo.created))
		}

		if jobsRepo.created[0].Type != "event.cancelled_notice" {
			t.Errorf("job type = %q", jobsRepo.created[0].Type)
		}
	})

	t.Run("invalid_uuid_rejected", func(t *testing.T) {
		h := newEventsHandler(&fakeEventsRepo{}, &fakeJobs{})
		r := setupRouter(http.MethodPut, "/events/:id", testOrganizerID, h.UpdateEvent)

		w := putJSON(r, "/events/not-a-uuid", `{"title": "does not matter"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
	})
}

func TestDeleteEvent(t *testing.T) {
	stored := storedEvent()

	t.Run("owner_can_delete", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodDelete, "/events/:id", testOrganizerID, h.DeleteEvent)

		req := httptest.NewRequest(http.MethodDelete, "/events/"+stored.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if repo.deleteCalls != 1 {
			t.Errorf("repo.Delete called %d times, want 1", repo.deleteCalls)
		}
	})

	t.Run("non_owner_forbidden", func(t *testing.T) {
		repo := &fakeEventsRepo{
			getFn: func(ctx context.Context, id string) (event.Event, error) {
				return stored, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodDelete, "/events/:id", uuid.NewString(), h.DeleteEvent)

		req := httptest.NewRequest(http.MethodDelete, "/events/"+stored.ID, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Fatalf("got status %d, want 403", w.Code)
		}

		if repo.deleteCalls != 0 {
			t.Errorf("repo.Delete called on a forbidden request")
		}
	})
}

func TestListEvents(t *testing.T) {
	t.Run("filters_passed_through", func(t *testing.T) {
		var got event.ListEventsFilter

		repo := &fakeEventsRepo{
			listCursorFn: func(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error) {
				got = f
				return []event.Event{storedEvent()}, false, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events", "", h.ListEvents)

		req := httptest.NewRequest(http.MethodGet, "/events?category_id=3&status=upcoming&q=jazz&limit=5", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if got.CategoryID == nil || *got.CategoryID != 3 {
			t.Errorf("category filter not passed: %+v", got)
		}
		if got.Status == nil || *got.Status != event.StatusUpcoming {
			t.Errorf("status filter not passed: %+v", got)
		}
		if got.Query == nil || *got.Query != "jazz" {
			t.Errorf("query filter not passed: %+v", got)
		}
		if got.Limit != 5 {
			t.Errorf("limit = %d, want 5", got.Limit)
		}
	})

	t.Run("cursor_decoded_and_next_cursor_emitted", func(t *testing.T) {
		last := storedEvent()

		cursor, err := utils.EncodeEventCursor("2026-09-20", "0198e3a0-32a9-4a1a-8d54-77b8e9a0f555")

		if err != nil {
			t.Fatalf("failed to build cursor: %v", err)
		}

		repo := &fakeEventsRepo{
			listCursorFn: func(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error) {
				if after == nil || after.StartDate != "2026-09-20" {
					return nil, false, errors.New("cursor not decoded into after position")
				}
				return []event.Event{last}, true, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events", "", h.ListEvents)

		req := httptest.NewRequest(http.MethodGet, "/events?cursor="+cursor, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var data struct {
			NextCursor *string `json:"next_cursor"`
			HasMore    bool    `json:"has_more"`
		}

		if err := json.Unmarshal(env["data"], &data); err != nil {
			t.Fatalf("bad data payload: %v", err)
		}

		if !data.HasMore || data.NextCursor == nil {
			t.Errorf("expected has_more with a next_cursor, got %+v", data)
		}

		decoded, err := utils.DecodeEventCursor(*data.NextCursor)

		if err != nil {
			t.Fatalf("next_cursor does not decode: %v", err)
		}

		if decoded.ID != last.ID || decoded.StartDate != last.StartDate {
			t.Errorf("next_cursor = %+v, want position of last item", decoded)
		}
	})

	t.Run("invalid_cursor_rejected", func(t *testing.T) {
		h := newEventsHandler(&fakeEventsRepo{}, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events", "", h.ListEvents)

		req := httptest.NewRequest(http.MethodGet, "/events?cursor=%21%21not-base64", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
	})

	t.Run("my_events_forces_organizer_filter", func(t *testing.T) {
		var got event.ListEventsFilter

		repo := &fakeEventsRepo{
			listCursorFn: func(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error) {
				got = f
				return nil, false, nil
			},
		}
		h := newEventsHandler(repo, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events/my/events", testOrganizerID, h.MyEvents)

		// a caller-supplied organizer_id must not override the identity
		req := httptest.NewRequest(http.MethodGet, "/events/my/events?organizer_id="+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		if got.OrganizerID == nil || *got.OrganizerID != testOrganizerID {
			t.Errorf("organizer filter = %v, want forced to caller id", got.OrganizerID)
		}
	})
}

func TestGetEventByID(t *testing.T) {
	t.Run("not_found", func(t *testing.T) {
		h := newEventsHandler(&fakeEventsRepo{}, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events/:id", "", h.GetEventByID)

		req := httptest.NewRequest(http.MethodGet, "/events/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404", w.Code)
		}
	})

	t.Run("invalid_uuid", func(t *testing.T) {
		h := newEventsHandler(&fakeEventsRepo{}, &fakeJobs{})
		r := setupRouter(http.MethodGet, "/events/:id", "", h.GetEventByID)

		req := httptest.NewRequest(http.MethodGet, "/events/123", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400", w.Code)
		}
	})
}

// compile-time checks that the fakes satisfy the handler interfaces
var (
	_ handlers.EventsRepository = (*fakeEventsRepo)(nil)
	_ handlers.ReferenceChecker = (*fakeRefs)(nil)
	_ handlers.ImageStore       = (*fakeImages)(nil)
	_ handlers.JobsEnqueuer     = (*fakeJobs)(nil)
	_ handlers.TxJobsEnqueuer   = (*fakeJobs)(nil)
)
