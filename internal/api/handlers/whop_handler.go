package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// RecommendationsCacheControl lets a CDN serve recommendations for an hour
// and revalidate in the background for two more.
const RecommendationsCacheControl = "public, s-maxage=3600, stale-while-revalidate=7200"

// WhopHandler serves the public catalog.
type WhopHandler struct {
	catalog Catalog
	recs    Recommender
	log     logger.Logger
}

func NewWhopHandler(catalog Catalog, recs Recommender, log logger.Logger) *WhopHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &WhopHandler{catalog: catalog, recs: recs, log: log}
}

// List handles GET /api/whops
func (h *WhopHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.catalog.List(r.Context(), service.ListParams{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "pageSize"),
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Get handles GET /api/whops/{id}
func (h *WhopHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Recommendations handles GET /api/whops/{id}/recommendations
func (h *WhopHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.recs.Recommend(r.Context(), chi.URLParam(r, "id"), queryInt(r, "limit"), queryBool(r, "debug"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.Header().Set("Cache-Control", RecommendationsCacheControl)
	writeJSON(w, http.StatusOK, resp)
}

// SubmitReview handles POST /api/whops/{id}/reviews
// the review stays hidden until an admin verifies it
func (h *WhopHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewInput
	if !decodeJSON(w, r, &in) {
		return
	}
	review, err := h.catalog.SubmitReview(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}
