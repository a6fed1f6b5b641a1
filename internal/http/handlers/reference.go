package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/tickethub/internal/config"
	"github.com/geocoder89/tickethub/internal/domain/category"
	"github.com/geocoder89/tickethub/internal/domain/venue"
	"github.com/gin-gonic/gin"
)

const (
	categoriesCacheKey = "reference:categories:v1"
	venuesCacheKey     = "reference:venues:v1"
)

type ReferenceRepository interface {
	ListCategories(ctx context.Context) ([]category.Category, error)
	CreateCategory(ctx context.Context, c category.Category) (category.Category, error)
	ListVenues(ctx context.Context) ([]venue.Venue, error)
	GetVenueByID(ctx context.Context, id int) (venue.Venue, error)
	CreateVenue(ctx context.Context, v venue.Venue) (venue.Venue, error)
}

// ReferenceHandler serves the category and venue lookup tables. The lists
// change rarely, so reads go through the cache and writes drop it.
type ReferenceHandler struct {
	repo  ReferenceRepository
	cache ListCache
}

func NewReferenceHandler(repo ReferenceRepository, cache ListCache) *ReferenceHandler {
	return &ReferenceHandler{repo: repo, cache: cache}
}

func (h *ReferenceHandler) ListCategories(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	if h.cache != nil {
		var cached []category.Category

		if err := h.cache.Get(cctx, categoriesCacheKey, &cached); err == nil {
			RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": cached})
			return
		}
	}

	items, err := h.repo.ListCategories(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list categories")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(cctx, categoriesCacheKey, items); err != nil {
			slog.Default().DebugContext(cctx, "categories cache set failed", "err", err)
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *ReferenceHandler) CreateCategory(ctx *gin.Context) {
	var req category.CreateCategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	created, err := h.repo.CreateCategory(cctx, category.Category{Name: req.Name})

	if err != nil {
		RespondInternal(ctx, "Could not create category")
		return
	}

	h.dropCache(cctx, categoriesCacheKey)

	RespondData(ctx, http.StatusCreated, created)
}

func (h *ReferenceHandler) ListVenues(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	if h.cache != nil {
		var cached []venue.Venue

		if err := h.cache.Get(cctx, venuesCacheKey, &cached); err == nil {
			RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": cached})
			return
		}
	}

	items, err := h.repo.ListVenues(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list venues")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(cctx, venuesCacheKey, items); err != nil {
			slog.Default().DebugContext(cctx, "venues cache set failed", "err", err)
		}
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *ReferenceHandler) GetVenueByID(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))

	if err != nil || id < 1 {
		RespondBadRequest(ctx, "venue id must be a positive integer")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	v, err := h.repo.GetVenueByID(cctx, id)

	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			RespondNotFound(ctx, "Venue not found")
			return
		}
		RespondInternal(ctx, "Could not fetch venue")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"success": true, "data": v})
}

func (h *ReferenceHandler) CreateVenue(ctx *gin.Context) {
	var req venue.CreateVenueRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	created, err := h.repo.CreateVenue(cctx, venue.Venue{
		Name:     req.Name,
		City:     req.City,
		Address:  req.Address,
		Capacity: req.Capacity,
	})

	if err != nil {
		RespondInternal(ctx, "Could not create venue")
		return
	}

	h.dropCache(cctx, venuesCacheKey)

	RespondData(ctx, http.StatusCreated, created)
}

func (h *ReferenceHandler) dropCache(ctx context.Context, key string) {
	if h.cache == nil {
		return
	}

	if err := h.cache.DeleteByPrefix(ctx, key); err != nil {
		slog.Default().DebugContext(ctx, "reference cache invalidation failed", "key", key, "err", err)
	}
}
