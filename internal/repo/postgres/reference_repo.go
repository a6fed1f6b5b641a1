package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/tickethub/internal/domain/category"
	"github.com/geocoder89/tickethub/internal/domain/venue"
	"github.com/geocoder89/tickethub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceRepo serves the read-mostly form population data: categories
// and venues.
type ReferenceRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewReferenceRepo(pool *pgxpool.Pool, prom *observability.Prom) *ReferenceRepo {
	return &ReferenceRepo{pool: pool, prom: prom}
}

func (r *ReferenceRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ReferenceRepo) ListCategories(ctx context.Context) ([]category.Category, error) {
	var out []category.Category

	err := r.observe("reference.list_categories", func() error {
		rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]category.Category, 0, 16)

		for rows.Next() {
			var c category.Category

			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}

			out = append(out, c)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ReferenceRepo) CreateCategory(ctx context.Context, c category.Category) (category.Category, error) {
	var created category.Category

	err := r.observe("reference.create_category", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO categories(name) VALUES ($1) RETURNING id, name`, c.Name,
		).Scan(&created.ID, &created.Name)
	})

	if err != nil {
		return category.Category{}, err
	}

	return created, nil
}

func (r *ReferenceRepo) ListVenues(ctx context.Context) ([]venue.Venue, error) {
	var out []venue.Venue

	err := r.observe("reference.list_venues", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT id, name, city, address, capacity FROM venues ORDER BY name ASC`)

		if err != nil {
			return err
		}

		defer rows.Close()

		out = make([]venue.Venue, 0, 16)

		for rows.Next() {
			var v venue.Venue

			if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.Address, &v.Capacity); err != nil {
				return err
			}

			out = append(out, v)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

func (r *ReferenceRepo) GetVenueByID(ctx context.Context, id int) (venue.Venue, error) {
	var v venue.Venue

	err := r.observe("reference.get_venue", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id, name, city, address, capacity FROM venues WHERE id = $1`, id,
		).Scan(&v.ID, &v.Name, &v.City, &v.Address, &v.Capacity)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return venue.Venue{}, venue.ErrNotFound
		}
		return venue.Venue{}, err
	}

	return v, nil
}

func (r *ReferenceRepo) CreateVenue(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	var created venue.Venue

	err := r.observe("reference.create_venue", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO venues(name, city, address, capacity)
			VALUES ($1,$2,$3,$4)
			RETURNING id, name, city, address, capacity`,
			v.Name, v.City, v.Address, v.Capacity,
		).Scan(&created.ID, &created.Name, &created.City, &created.Address, &created.Capacity)
	})

	if err != nil {
		return venue.Venue{}, err
	}

	return created, nil
}

// ExistCategoryAndVenue verifies the referenced ids before an event write.
func (r *ReferenceRepo) ExistCategoryAndVenue(ctx context.Context, categoryID, venueID int) error {
	var catOK, venOK bool

	err := r.observe("reference.exist_check", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT
				EXISTS(SELECT 1 FROM categories WHERE id = $1),
				EXISTS(SELECT 1 FROM venues WHERE id = $2)
		`, categoryID, venueID).Scan(&catOK, &venOK)
	})

	if err != nil {
		return err
	}

	if !catOK {
		return category.ErrNotFound
	}

	if !venOK {
		return venue.ErrNotFound
	}

	return nil
}
