package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/tickethub/internal/config"
	"github.com/geocoder89/tickethub/internal/domain/category"
	"github.com/geocoder89/tickethub/internal/domain/event"
	"github.com/geocoder89/tickethub/internal/domain/job"
	"github.com/geocoder89/tickethub/internal/domain/venue"
	"github.com/geocoder89/tickethub/internal/http/middlewares"
	"github.com/geocoder89/tickethub/internal/jobs"
	"github.com/geocoder89/tickethub/internal/storage"
	"github.com/geocoder89/tickethub/internal/utils"
	"github.com/gin-gonic/gin"
)

type EventsRepository interface {
	Create(ctx context.Context, e event.Event) (event.Event, error)
	GetByID(ctx context.Context, id string) (event.Event, error)
	ListCursor(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error)
	Update(ctx context.Context, e event.Event) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type ReferenceChecker interface {
	ExistCategoryAndVenue(ctx context.Context, categoryID, venueID int) error
}

type ImageStore interface {
	SaveEventImage(ctx *gin.Context, file *multipart.FileHeader) (string, error)
}

// ListCache is satisfied by the redis cache; nil disables caching.
type ListCache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, val any) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type JobsEnqueuer interface {
	Create(ctx context.Context, req job.CreateRequest) (job.Job, error)
}

type EventsHandler struct {
	repo            EventsRepository
	refs            ReferenceChecker
	images          ImageStore
	cache           ListCache
	jobs            JobsEnqueuer
	defaultCurrency string
}

func NewEventsHandler(repo EventsRepository, refs ReferenceChecker, images ImageStore, cache ListCache, jobsRepo JobsEnqueuer, defaultCurrency string) *EventsHandler {
	if defaultCurrency == "" {
		defaultCurrency = "NPR"
	}

	return &EventsHandler{
		repo:            repo,
		refs:            refs,
		images:          images,
		cache:           cache,
		jobs:            jobsRepo,
		defaultCurrency: defaultCurrency,
	}
}

type listResponse struct {
	Events     []event.Event `json:"events"`
	NextCursor *string       `json:"next_cursor,omitempty"`
	HasMore    bool          `json:"has_more"`
}

func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	organizerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || organizerID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	var req event.CreateEventRequest

	if !BindForm(ctx, &req) {
		return
	}

	// cross-field date rule runs only after the per-field checks passed
	if err := req.NormalizeDates(); err != nil {
		RespondValidation(ctx, "Invalid request body", []FieldError{{
			Field:   "end_date",
			Rule:    "date_order",
			Message: "cannot be before start_date",
		}})
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.refs.ExistCategoryAndVenue(cctx, req.CategoryID, req.VenueID); err != nil {
		switch {
		case errors.Is(err, category.ErrNotFound):
			RespondNotFound(ctx, "Category not found")
		case errors.Is(err, venue.ErrNotFound):
			RespondNotFound(ctx, "Venue not found")
		default:
			RespondInternal(ctx, "Could not create event")
		}
		return
	}

	var images []string

	file, err := ctx.FormFile("image")

	if err == nil && file != nil {
		path, err := h.images.SaveEventImage(ctx, file)

		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImageType) {
				RespondValidation(ctx, "Invalid request body", []FieldError{{
					Field:   "image",
					Rule:    "filetype",
					Message: "must be a jpg, png, gif or webp image",
				}})
				return
			}

			RespondInternal(ctx, "Could not store event image")
			return
		}

		images = append(images, path)
	}

	e := event.NewFromCreateRequest(req, organizerID, h.defaultCurrency, images)

	created, err := h.repo.Create(cctx, e)

	if err != nil {
		RespondInternal(ctx, "Could not create event")
		return
	}

	h.invalidateListCache(cctx)

	RespondData(ctx, http.StatusCreated, created)
}

func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	h.list(ctx, nil)
}

// MyEvents is the general list endpoint with the organizer filter forced
// from the authenticated caller, not a separate code path.
func (h *EventsHandler) MyEvents(ctx *gin.Context) {
	organizerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || organizerID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	h.list(ctx, &organizerID)
}

func (h *EventsHandler) list(ctx *gin.Context, forcedOrganizer *string) {
	filter, cursor, ok := parseListQuery(ctx)

	if !ok {
		return
	}

	if forcedOrganizer != nil {
		filter.OrganizerID = forcedOrganizer
	}

	var after *event.Event

	var cursorPtr *string

	if cursor != "" {
		c, err := utils.DecodeEventCursor(cursor)

		if err != nil {
			RespondBadRequest(ctx, "Invalid cursor")
			return
		}

		after = &event.Event{StartDate: c.StartDate, ID: c.ID}
		cursorPtr = &cursor
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	cacheKey := ""

	if h.cache != nil {
		var orgPtr *string
		if filter.OrganizerID != nil {
			orgPtr = filter.OrganizerID
		}
		var statusPtr *string
		if filter.Status != nil {
			s := string(*filter.Status)
			statusPtr = &s
		}

		cacheKey = utils.BuildEventsListCacheKey(filter.Limit, filter.CategoryID, filter.VenueID, statusPtr, orgPtr, filter.Query, filter.From, filter.To, cursorPtr)

		var cached listResponse

		if err := h.cache.Get(cctx, cacheKey, &cached); err == nil {
			RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": cached})
			return
		}
	}

	items, hasMore, err := h.repo.ListCursor(cctx, filter, after)

	if err != nil {
		RespondInternal(ctx, "Could not list events")
		return
	}

	resp := listResponse{Events: items, HasMore: hasMore}

	if hasMore && len(items) > 0 {
		last := items[len(items)-1]

		next, err := utils.EncodeEventCursor(last.StartDate, last.ID)

		if err == nil {
			resp.NextCursor = &next
		}
	}

	if h.cache != nil && cacheKey != "" {
		if err := h.cache.Set(cctx, cacheKey, resp); err != nil {
			slog.Default().DebugContext(cctx, "events list cache set failed", "err", err)
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": resp})
}

func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	e, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not fetch event")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": e})
}

func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID")
		return
	}

	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	current, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not update event")
		return
	}

	// ownership gate before any mutation
	if current.OrganizerID != callerID {
		RespondForbidden(ctx, "You can only edit your own events")
		return
	}

	if req.CategoryID != nil || req.VenueID != nil {
		catID := current.CategoryID
		venID := current.VenueID

		if req.CategoryID != nil {
			catID = *req.CategoryID
		}
		if req.VenueID != nil {
			venID = *req.VenueID
		}

		if err := h.refs.ExistCategoryAndVenue(cctx, catID, venID); err != nil {
			switch {
			case errors.Is(err, category.ErrNotFound):
				RespondNotFound(ctx, "Category not found")
			case errors.Is(err, venue.ErrNotFound):
				RespondNotFound(ctx, "Venue not found")
			default:
				RespondInternal(ctx, "Could not update event")
			}
			return
		}
	}

	wasCancelled := current.Status == event.StatusCancelled

	if err := req.ApplyTo(&current); err != nil {
		if errors.Is(err, event.ErrSeatsBelowBooked) {
			RespondValidation(ctx, "Invalid request body", []FieldError{{
				Field:   "total_seats",
				Rule:    "min",
				Message: "cannot drop below seats already booked",
			}})
			return
		}
		RespondValidation(ctx, "Invalid request body", []FieldError{{
			Field:   "end_date",
			Rule:    "date_order",
			Message: "cannot be before start_date",
		}})
		return
	}

	updated, err := h.repo.Update(cctx, current)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not update event")
		return
	}

	h.invalidateListCache(cctx)

	// fan out a cancellation notice once, on the transition into cancelled
	if h.jobs != nil && !wasCancelled && updated.Status == event.StatusCancelled {
		h.enqueueCancelledNotice(cctx, updated)
	}

	RespondData(ctx, http.StatusOK, updated)
}

func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	id := ctx.Param("id")

	if !utils.IsUUID(id) {
		RespondBadRequest(ctx, "event id must be a valid UUID")
		return
	}

	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	current, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not delete event")
		return
	}

	if current.OrganizerID != callerID {
		RespondForbidden(ctx, "You can only delete your own events")
		return
	}

	// deletion is immediate and unconditional; existing bookings are not
	// a guard (see DESIGN.md)
	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not delete event")
		return
	}

	h.invalidateListCache(cctx)

	RespondMessage(ctx, http.StatusOK, "Event deleted")
}

func (h *EventsHandler) enqueueCancelledNotice(ctx context.Context, e event.Event) {
	payload := jobs.EventCancelledPayload{
		EventID:     e.ID,
		Title:       e.Title,
		RequestedAt: time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		slog.Default().ErrorContext(ctx, "encode cancelled payload failed", "event_id", e.ID, "err", err)
		return
	}

	key := "event:cancelled:" + e.ID

	_, err = h.jobs.Create(ctx, job.CreateRequest{
		Type:           string(jobs.TypeEventCancelled),
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		MaxAttempts:    10,
		IdempotencyKey: &key,
	})

	if err != nil {
		slog.Default().ErrorContext(ctx, "enqueue cancelled notice failed", "event_id", e.ID, "err", err)
	}
}

func (h *EventsHandler) invalidateListCache(ctx context.Context) {
	if h.cache == nil {
		return
	}

	if err := h.cache.DeleteByPrefix(ctx, utils.EventsListCachePrefix); err != nil {
		slog.Default().DebugContext(ctx, "events list cache invalidation failed", "err", err)
	}
}

func parseListQuery(ctx *gin.Context) (event.ListEventsFilter, string, bool) {
	var f event.ListEventsFilter

	f.Limit = 20

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err != nil || n < 1 || n > 100 {
			RespondBadRequest(ctx, "limit must be an integer between 1 and 100")
			return f, "", false
		}

		f.Limit = n
	}

	intParam := func(name string) (*int, bool) {
		raw := ctx.Query(name)

		if raw == "" {
			return nil, true
		}

		n, err := strconv.Atoi(raw)

		if err != nil || n < 1 {
			RespondBadRequest(ctx, name+" must be a positive integer")
			return nil, false
		}

		return &n, true
	}

	var ok bool

	if f.CategoryID, ok = intParam("category_id"); !ok {
		return f, "", false
	}

	if f.VenueID, ok = intParam("venue_id"); !ok {
		return f, "", false
	}

	if raw := ctx.Query("status"); raw != "" {
		s := event.Status(raw)

		if !s.IsValid() {
			RespondBadRequest(ctx, "status must be one of upcoming, ongoing, completed, cancelled")
			return f, "", false
		}

		f.Status = &s
	}

	if raw := ctx.Query("organizer_id"); raw != "" {
		f.OrganizerID = &raw
	}

	if raw := ctx.Query("q"); raw != "" {
		f.Query = &raw
	}

	dateParam := func(name string) (*string, bool) {
		raw := ctx.Query(name)

		if raw == "" {
			return nil, true
		}

		if _, err := time.Parse(event.DateLayout, raw); err != nil {
			RespondBadRequest(ctx, name+" must match format "+event.DateLayout)
			return nil, false
		}

		return &raw, true
	}

	if f.From, ok = dateParam("from"); !ok {
		return f, "", false
	}

	if f.To, ok = dateParam("to"); !ok {
		return f, "", false
	}

	return f, ctx.Query("cursor"), true
}
