package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/tickethub/internal/config"
	"github.com/geocoder89/tickethub/internal/domain/booking"
	"github.com/geocoder89/tickethub/internal/domain/event"
	"github.com/geocoder89/tickethub/internal/domain/job"
	"github.com/geocoder89/tickethub/internal/domain/user"
	"github.com/geocoder89/tickethub/internal/http/middlewares"
	"github.com/geocoder89/tickethub/internal/jobs"
	"github.com/geocoder89/tickethub/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

type BookingsRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	CreateTx(ctx context.Context, tx pgx.Tx, req booking.CreateBookingRequest) (booking.Booking, error)
	Cancel(ctx context.Context, eventID, bookingID, userID string) error
	ListByEvent(ctx context.Context, eventID string) ([]booking.Booking, error)
}

type TxJobsEnqueuer interface {
	CreateTx(ctx context.Context, tx pgx.Tx, req job.CreateRequest) (job.Job, error)
}

type UsersGetter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type BookingsHandler struct {
	repo   BookingsRepository
	events EventsRepository
	users  UsersGetter
	jobs   TxJobsEnqueuer
}

func NewBookingsHandler(repo BookingsRepository, events EventsRepository, users UsersGetter, jobsRepo TxJobsEnqueuer) *BookingsHandler {
	return &BookingsHandler{
		repo:   repo,
		events: events,
		users:  users,
		jobs:   jobsRepo,
	}
}

// CreateBooking reserves seats and enqueues the confirmation notice in
// the same transaction, so a booking never exists without its job.
func (h *BookingsHandler) CreateBooking(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if !utils.IsUUID(eventID) {
		RespondBadRequest(ctx, "event id must be a valid UUID")
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	var req booking.CreateBookingRequest

	if !BindJSON(ctx, &req) {
		return
	}

	req.EventID = eventID
	req.UserID = userID

	cctx, cancel := config.WithTimeout(4 * time.Second)

	defer cancel()

	ev, err := h.events.GetByID(cctx, eventID)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not create booking")
		return
	}

	if ev.Status == event.StatusCancelled || ev.Status == event.StatusCompleted {
		RespondConflict(ctx, "Event is no longer open for booking")
		return
	}

	tx, err := h.repo.BeginTx(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not create booking")
		return
	}

	defer func() {
		_ = tx.Rollback(cctx)
	}()

	bk, err := h.repo.CreateTx(cctx, tx, req)

	if err != nil {
		switch {
		case errors.Is(err, event.ErrNotFound):
			RespondNotFound(ctx, "Event not found")
		case errors.Is(err, booking.ErrSoldOut):
			RespondConflict(ctx, "Not enough seats available")
		default:
			RespondInternal(ctx, "Could not create booking")
		}
		return
	}

	if err := h.enqueueConfirmationTx(cctx, tx, bk); err != nil {
		RespondInternal(ctx, "Could not create booking")
		return
	}

	if err := tx.Commit(cctx); err != nil {
		RespondInternal(ctx, "Could not create booking")
		return
	}

	RespondData(ctx, http.StatusCreated, bk)
}

func (h *BookingsHandler) CancelBooking(ctx *gin.Context) {
	eventID := ctx.Param("id")
	bookingID := ctx.Param("bookingId")

	if !utils.IsUUID(eventID) || !utils.IsUUID(bookingID) {
		RespondBadRequest(ctx, "ids must be valid UUIDs")
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	if err := h.repo.Cancel(cctx, eventID, bookingID, userID); err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			RespondNotFound(ctx, "Booking not found")
			return
		}
		RespondInternal(ctx, "Could not cancel booking")
		return
	}

	RespondMessage(ctx, http.StatusOK, "Booking cancelled")
}

// ListEventBookings is restricted to the event's organizer.
func (h *BookingsHandler) ListEventBookings(ctx *gin.Context) {
	eventID := ctx.Param("id")

	if !utils.IsUUID(eventID) {
		RespondBadRequest(ctx, "event id must be a valid UUID")
		return
	}

	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || userID == "" {
		RespondUnauthorized(ctx, "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	ev, err := h.events.GetByID(cctx, eventID)

	if err != nil {
		if errors.Is(err, event.ErrNotFound) {
			RespondNotFound(ctx, "Event not found")
			return
		}
		RespondInternal(ctx, "Could not list bookings")
		return
	}

	if ev.OrganizerID != userID {
		RespondForbidden(ctx, "You can only view bookings for your own events")
		return
	}

	items, err := h.repo.ListByEvent(cctx, eventID)

	if err != nil {
		RespondInternal(ctx, "Could not list bookings")
		return
	}

	RespondData(ctx, http.StatusOK, items)
}

func (h *BookingsHandler) enqueueConfirmationTx(ctx context.Context, tx pgx.Tx, bk booking.Booking) error {
	email := ""
	name := ""

	if h.users != nil {
		u, err := h.users.GetByID(ctx, bk.UserID)

		if err != nil {
			slog.Default().WarnContext(ctx, "booking confirmation recipient lookup failed", "user_id", bk.UserID, "err", err)
		} else {
			email = u.Email
			name = u.Name
		}
	}

	payload := jobs.BookingConfirmationPayload{
		BookingID:   bk.ID,
		EventID:     bk.EventID,
		UserID:      bk.UserID,
		Email:       email,
		Name:        name,
		Quantity:    bk.Quantity,
		RequestedAt: time.Now().UTC(),
	}

	raw, err := payload.JSON()

	if err != nil {
		return err
	}

	key := "booking:confirm:" + bk.ID

	_, err = h.jobs.CreateTx(ctx, tx, job.CreateRequest{
		Type:           string(jobs.TypeBookingConfirmation),
		Payload:        raw,
		RunAt:          time.Now().UTC(),
		MaxAttempts:    10,
		IdempotencyKey: &key,
	})

	return err
}
