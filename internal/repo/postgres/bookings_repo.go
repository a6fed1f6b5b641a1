package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/tickethub/internal/domain/booking"
	"github.com/geocoder89/tickethub/internal/domain/event"
	"github.com/geocoder89/tickethub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewBookingsRepo(pool *pgxpool.Pool, prom *observability.Prom) *BookingsRepo {
	return &BookingsRepo{
		pool: pool,
		prom: prom,
	}
}

func (repo *BookingsRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (repo *BookingsRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return repo.pool.BeginTx(ctx, pgx.TxOptions{})
}

// CreateTx books seats inside the caller's transaction: locks the event
// row, checks availability, decrements and inserts the booking. Seat
// accounting is the only writer of available_seats.
func (repo *BookingsRepo) CreateTx(ctx context.Context, tx pgx.Tx, req booking.CreateBookingRequest) (bk booking.Booking, err error) {
	var available int

	err = repo.observe("bookings.create_tx.seat_lock", func() error {
		return tx.QueryRow(ctx, `
			SELECT available_seats
			FROM events
			WHERE id = $1
			FOR UPDATE
		`, req.EventID).Scan(&available)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = event.ErrNotFound
		}

		return
	}

	if available < req.Quantity {
		err = booking.ErrSoldOut
		return
	}

	err = repo.observe("bookings.create_tx.decrement", func() error {
		_, e := tx.Exec(ctx, `
			UPDATE events
			SET available_seats = available_seats - $2, updated_at = NOW()
			WHERE id = $1
		`, req.EventID, req.Quantity)
		return e
	})

	if err != nil {
		return
	}

	bk = booking.NewFromCreateRequest(req)

	err = repo.observe("bookings.create_tx.insert", func() error {
		_, e := tx.Exec(ctx, `
			INSERT INTO bookings (id, event_id, user_id, quantity, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, bk.ID, bk.EventID, bk.UserID, bk.Quantity, bk.CreatedAt, bk.UpdatedAt)
		return e
	})

	return
}

// Cancel removes a booking and restores its seats in one transaction.
// Only the booking's owner may cancel; the caller id is matched in SQL so
// a mismatch reads as not-found.
func (repo *BookingsRepo) Cancel(ctx context.Context, eventID, bookingID, userID string) (err error) {
	tx, err := repo.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var quantity int

	err = repo.observe("bookings.cancel.delete", func() error {
		return tx.QueryRow(ctx, `
			DELETE FROM bookings
			WHERE id = $1 AND event_id = $2 AND user_id = $3
			RETURNING quantity
		`, bookingID, eventID, userID).Scan(&quantity)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = booking.ErrNotFound
		}
		return
	}

	err = repo.observe("bookings.cancel.restore_seats", func() error {
		_, e := tx.Exec(ctx, `
			UPDATE events
			SET available_seats = LEAST(total_seats, available_seats + $2),
			    updated_at = NOW()
			WHERE id = $1
		`, eventID, quantity)
		return e
	})

	if err != nil {
		return
	}

	err = tx.Commit(ctx)

	return
}

func (repo *BookingsRepo) ListByEvent(ctx context.Context, eventID string) (bks []booking.Booking, err error) {
	err = repo.observe("bookings.list_by_event", func() error {
		rows, e := repo.pool.Query(ctx, `
			SELECT id, event_id, user_id, quantity, created_at, updated_at
			FROM bookings
			WHERE event_id = $1
			ORDER BY created_at ASC, id ASC
		`, eventID)

		if e != nil {
			return e
		}

		defer rows.Close()

		bks = make([]booking.Booking, 0, 32)

		for rows.Next() {
			var b booking.Booking

			if e := rows.Scan(&b.ID, &b.EventID, &b.UserID, &b.Quantity, &b.CreatedAt, &b.UpdatedAt); e != nil {
				return e
			}

			bks = append(bks, b)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return bks, nil
}
