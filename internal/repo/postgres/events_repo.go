package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/geocoder89/tickethub/internal/domain/event"
	"github.com/geocoder89/tickethub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id,
	title,
	description,
	category_id,
	venue_id,
	to_char(start_date, 'YYYY-MM-DD'),
	to_char(end_date, 'YYYY-MM-DD'),
	start_time,
	end_time,
	price,
	currency,
	total_seats,
	available_seats,
	status,
	organizer_id,
	tags,
	images,
	created_at,
	updated_at`

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event

	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.CategoryID,
		&e.VenueID,
		&e.StartDate,
		&e.EndDate,
		&e.StartTime,
		&e.EndTime,
		&e.Price,
		&e.Currency,
		&e.TotalSeats,
		&e.AvailableSeats,
		&e.Status,
		&e.OrganizerID,
		&e.Tags,
		&e.Images,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	return e, err
}

func (r *EventsRepo) Create(ctx context.Context, e event.Event) (event.Event, error) {
	err := r.observe("events.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO events(
				id, title, description, category_id, venue_id,
				start_date, end_date, start_time, end_time,
				price, currency, total_seats, available_seats,
				status, organizer_id, tags, images, created_at, updated_at
			) VALUES (
				$1,$2,$3,$4,$5,
				$6::date,$7::date,$8,$9,
				$10,$11,$12,$13,
				$14,$15,$16,$17,$18,$19
			)`,
			e.ID, e.Title, e.Description, e.CategoryID, e.VenueID,
			e.StartDate, e.EndDate, e.StartTime, e.EndTime,
			e.Price, e.Currency, e.TotalSeats, e.AvailableSeats,
			string(e.Status), e.OrganizerID, e.Tags, e.Images, e.CreatedAt, e.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return event.Event{}, err
	}

	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	var e event.Event
	var err error

	err = r.observe("events.get_by_id", func() error {
		e, err = scanEvent(r.pool.QueryRow(ctx,
			`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return e, nil
}

// ListCursor returns one page ordered by (start_date, id) plus the cursor
// for the next page when more rows remain.
func (r *EventsRepo) ListCursor(ctx context.Context, f event.ListEventsFilter, after *event.Event) ([]event.Event, bool, error) {
	var conds []string
	var args []interface{}

	argsPosition := 1

	add := func(cond string, val interface{}) {
		conds = append(conds, fmt.Sprintf(cond, argsPosition))
		args = append(args, val)
		argsPosition++
	}

	if f.CategoryID != nil {
		add("category_id = $%d", *f.CategoryID)
	}

	if f.VenueID != nil {
		add("venue_id = $%d", *f.VenueID)
	}

	if f.Status != nil {
		add("status = $%d", string(*f.Status))
	}

	if f.OrganizerID != nil {
		add("organizer_id = $%d", *f.OrganizerID)
	}

	if f.Query != nil {
		add("title ILIKE '%%' || $%d || '%%'", *f.Query)
	}

	if f.From != nil {
		add("start_date >= $%d::date", *f.From)
	}

	if f.To != nil {
		add("start_date <= $%d::date", *f.To)
	}

	if after != nil {
		conds = append(conds, fmt.Sprintf("(start_date, id) > ($%d::date, $%d)", argsPosition, argsPosition+1))
		args = append(args, after.StartDate, after.ID)
		argsPosition += 2
	}

	query := `SELECT ` + eventColumns + ` FROM events`

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination; fetch one extra row to detect more pages
	query += fmt.Sprintf(" ORDER BY start_date ASC, id ASC LIMIT $%d", argsPosition)
	args = append(args, f.Limit+1)

	var output []event.Event

	err := r.observe("events.list_cursor", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]event.Event, 0, f.Limit)

		for rows.Next() {
			e, err := scanEvent(rows)

			if err != nil {
				return err
			}

			output = append(output, e)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, false, err
	}

	hasMore := len(output) > f.Limit

	if hasMore {
		output = output[:f.Limit]
	}

	return output, hasMore, nil
}

// Update writes the already-merged record back. The handler owns the
// partial-update merge and the ownership check.
func (r *EventsRepo) Update(ctx context.Context, e event.Event) (event.Event, error) {
	var out event.Event
	var err error

	err = r.observe("events.update", func() error {
		out, err = scanEvent(r.pool.QueryRow(ctx,
			`UPDATE events
				SET title = $2,
					description = $3,
					category_id = $4,
					venue_id = $5,
					start_date = $6::date,
					end_date = $7::date,
					start_time = $8,
					end_time = $9,
					price = $10,
					currency = $11,
					total_seats = $12,
					available_seats = $13,
					tags = $14,
					images = $15,
					status = $16,
					updated_at = NOW()
			WHERE id = $1
			RETURNING `+eventColumns,
			e.ID,
			e.Title,
			e.Description,
			e.CategoryID,
			e.VenueID,
			e.StartDate,
			e.EndDate,
			e.StartTime,
			e.EndTime,
			e.Price,
			e.Currency,
			e.TotalSeats,
			e.AvailableSeats,
			e.Tags,
			e.Images,
			string(e.Status),
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, err
	}

	return out, nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	var affected int64

	err := r.observe("events.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)

		if err != nil {
			return err
		}

		affected = tag.RowsAffected()
		return nil
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return event.ErrNotFound
	}

	return nil
}
