// Package handlers exposes the catalog service over HTTP.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anime-catalog/internal/platform/analytics"
	"github.com/example/anime-catalog/internal/platform/api"
	"github.com/example/anime-catalog/internal/platform/httpserver"
	"github.com/example/anime-catalog/services/catalog/internal/domain"
)

const maxQueryLen = 200

// Catalog is the subset of the anime service the handlers need.
type Catalog interface {
	SearchByTitle(ctx context.Context, title string) ([]domain.Info, error)
	GetByID(ctx context.Context, id int) (*domain.Info, error)
}

type searchResponse struct {
	Query string        `json:"query"`
	Hits  []domain.Info `json:"hits"`
	Total int           `json:"total"`
}

type animeResponse struct {
	ID int `json:"id"`
	domain.Info
}

// Register mounts the catalog routes on r.
func Register(r chi.Router, catalog Catalog, events *analytics.Publisher) {
	r.Get("/v1/anime", Search(catalog, events))
	r.Get("/v1/anime/{anime_id}", GetAnime(catalog, events))
}

func Search(catalog Catalog, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			api.BadRequest(w, "MISSING_QUERY", "Query parameter q is required", rid, map[string]any{"q": "required"})
			return
		}
		if len(q) > maxQueryLen {
			api.BadRequest(w, "QUERY_TOO_LONG", "Query parameter q is too long", rid, map[string]any{"max_length": maxQueryLen})
			return
		}

		hits, err := catalog.SearchByTitle(r.Context(), q)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		if hits == nil {
			hits = []domain.Info{}
		}
		events.SearchPerformed(rid, q, len(hits))
		api.WriteJSON(w, http.StatusOK, searchResponse{Query: q, Hits: hits, Total: len(hits)})
	}
}

func GetAnime(catalog Catalog, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		raw := strings.TrimSpace(chi.URLParam(r, "anime_id"))
		id, err := strconv.Atoi(raw)
		if raw == "" || err != nil || id <= 0 {
			api.BadRequest(w, "INVALID_ANIME_ID", "anime_id must be a positive integer", rid, map[string]any{"anime_id": raw})
			return
		}

		info, err := catalog.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, rid, err)
			return
		}
		events.AnimeViewed(rid, id, info != nil)
		if info == nil {
			api.NotFound(w, "NOT_FOUND", "Anime not found", rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, animeResponse{ID: id, Info: *info})
	}
}
