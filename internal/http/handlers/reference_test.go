package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/tickethub/internal/cache"
	"github.com/geocoder89/tickethub/internal/domain/category"
	"github.com/geocoder89/tickethub/internal/domain/venue"
	"github.com/geocoder89/tickethub/internal/http/handlers"
	"github.com/geocoder89/tickethub/internal/repo/postgres"
	"github.com/geocoder89/tickethub/internal/storage"
)

// The router hands the concrete repos straight to the handlers, so the
// postgres types must keep satisfying the handler-side interfaces.
var (
	_ handlers.ReferenceRepository = (*postgres.ReferenceRepo)(nil)
	_ handlers.ReferenceChecker    = (*postgres.ReferenceRepo)(nil)
	_ handlers.EventsRepository    = (*postgres.EventsRepo)(nil)
	_ handlers.BookingsRepository  = (*postgres.BookingsRepo)(nil)
	_ handlers.JobsEnqueuer        = (*postgres.JobsRepo)(nil)
	_ handlers.TxJobsEnqueuer      = (*postgres.JobsRepo)(nil)
	_ handlers.UsersGetter         = (*postgres.UsersRepo)(nil)
	_ handlers.UserReader          = (*postgres.UsersRepo)(nil)
	_ handlers.UserWriter          = (*postgres.UsersRepo)(nil)
	_ handlers.ImageStore          = (*storage.DiskStore)(nil)
	_ handlers.ListCache           = (*cache.Cache)(nil)
)

type fakeReferenceRepo struct {
	listCategoriesFn func(ctx context.Context) ([]category.Category, error)
	createCategoryFn func(ctx context.Context, c category.Category) (category.Category, error)
	listVenuesFn     func(ctx context.Context) ([]venue.Venue, error)
	getVenueFn       func(ctx context.Context, id int) (venue.Venue, error)
	createVenueFn    func(ctx context.Context, v venue.Venue) (venue.Venue, error)
}

func (f *fakeReferenceRepo) ListCategories(ctx context.Context) ([]category.Category, error) {
	if f.listCategoriesFn != nil {
		return f.listCategoriesFn(ctx)
	}

	return []category.Category{}, nil
}

func (f *fakeReferenceRepo) CreateCategory(ctx context.Context, c category.Category) (category.Category, error) {
	if f.createCategoryFn != nil {
		return f.createCategoryFn(ctx, c)
	}

	c.ID = 1
	return c, nil
}

func (f *fakeReferenceRepo) ListVenues(ctx context.Context) ([]venue.Venue, error) {
	if f.listVenuesFn != nil {
		return f.listVenuesFn(ctx)
	}

	return []venue.Venue{}, nil
}

func (f *fakeReferenceRepo) GetVenueByID(ctx context.Context, id int) (venue.Venue, error) {
	if f.getVenueFn != nil {
		return f.getVenueFn(ctx, id)
	}

	return venue.Venue{}, venue.ErrNotFound
}

func (f *fakeReferenceRepo) CreateVenue(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	if f.createVenueFn != nil {
		return f.createVenueFn(ctx, v)
	}

	v.ID = 1
	return v, nil
}

var _ handlers.ReferenceRepository = (*fakeReferenceRepo)(nil)

// map-backed stand-in for the redis cache

type fakeListCache struct {
	entries map[string][]byte
	deletes []string
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{entries: map[string][]byte{}}
}

func (f *fakeListCache) Get(ctx context.Context, key string, out any) error {
	raw, ok := f.entries[key]

	if !ok {
		return errors.New("cache miss")
	}

	return json.Unmarshal(raw, out)
}

func (f *fakeListCache) Set(ctx context.Context, key string, val any) error {
	raw, err := json.Marshal(val)

	if err != nil {
		return err
	}

	f.entries[key] = raw
	return nil
}

func (f *fakeListCache) DeleteByPrefix(ctx context.Context, prefix string) error {
	f.deletes = append(f.deletes, prefix)

	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}

	return nil
}

var _ handlers.ListCache = (*fakeListCache)(nil)

func getPath(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestListCategories(t *testing.T) {
	t.Run("serves_from_repo_then_cache", func(t *testing.T) {
		repoCalls := 0
		repo := &fakeReferenceRepo{
			listCategoriesFn: func(ctx context.Context) ([]category.Category, error) {
				repoCalls++
				return []category.Category{{ID: 1, Name: "Music"}}, nil
			},
		}
		listCache := newFakeListCache()

		h := handlers.NewReferenceHandler(repo, listCache)
		r := setupRouter(http.MethodGet, "/events/categories", "", h.ListCategories)

		for range 2 {
			w := getPath(r, "/events/categories")

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
			}
		}

		if repoCalls != 1 {
			t.Errorf("repo hit %d times, want 1 (second read from cache)", repoCalls)
		}
	})

	t.Run("nil_cache_still_serves", func(t *testing.T) {
		h := handlers.NewReferenceHandler(&fakeReferenceRepo{}, nil)
		r := setupRouter(http.MethodGet, "/events/categories", "", h.ListCategories)

		w := getPath(r, "/events/categories")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestCreateCategory(t *testing.T) {
	t.Run("created_and_cache_dropped", func(t *testing.T) {
		var got category.Category

		repo := &fakeReferenceRepo{
			createCategoryFn: func(ctx context.Context, c category.Category) (category.Category, error) {
				got = c
				c.ID = 7
				return c, nil
			},
		}
		listCache := newFakeListCache()

		h := handlers.NewReferenceHandler(repo, listCache)
		r := setupRouter(http.MethodPost, "/events/categories", "", h.CreateCategory)

		req := httptest.NewRequest(http.MethodPost, "/events/categories", strings.NewReader(`{"name": "Theatre"}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
		}

		if got.Name != "Theatre" {
			t.Errorf("repo received %+v", got)
		}

		if len(listCache.deletes) == 0 {
			t.Errorf("category cache not invalidated after create")
		}
	})

	t.Run("name_required", func(t *testing.T) {
		h := handlers.NewReferenceHandler(&fakeReferenceRepo{}, nil)
		r := setupRouter(http.MethodPost, "/events/categories", "", h.CreateCategory)

		req := httptest.NewRequest(http.MethodPost, "/events/categories", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}

func TestGetVenueByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo := &fakeReferenceRepo{
			getVenueFn: func(ctx context.Context, id int) (venue.Venue, error) {
				return venue.Venue{ID: id, Name: "City Hall", City: "Kathmandu", Capacity: 500}, nil
			},
		}

		h := handlers.NewReferenceHandler(repo, nil)
		r := setupRouter(http.MethodGet, "/events/venues/:id", "", h.GetVenueByID)

		w := getPath(r, "/events/venues/3")

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
		}

		env := decodeEnvelope(t, w)

		var v venue.Venue

		if err := json.Unmarshal(env["data"], &v); err != nil {
			t.Fatalf("bad data payload: %v", err)
		}

		if v.ID != 3 || v.Name != "City Hall" {
			t.Errorf("venue = %+v", v)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		h := handlers.NewReferenceHandler(&fakeReferenceRepo{}, nil)
		r := setupRouter(http.MethodGet, "/events/venues/:id", "", h.GetVenueByID)

		w := getPath(r, "/events/venues/99")

		if w.Code != http.StatusNotFound {
			t.Fatalf("got status %d, want 404, body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("non_numeric_id", func(t *testing.T) {
		h := handlers.NewReferenceHandler(&fakeReferenceRepo{}, nil)
		r := setupRouter(http.MethodGet, "/events/venues/:id", "", h.GetVenueByID)

		w := getPath(r, "/events/venues/main-hall")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
		}
	})
}
