package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// AdminHandler serves the authenticated /admin routes.
type AdminHandler struct {
	catalog Catalog
	log     logger.Logger
}

func NewAdminHandler(catalog Catalog, log logger.Logger) *AdminHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &AdminHandler{catalog: catalog, log: log}
}

// --- Whops ---

// CreateWhop handles POST /admin/whops
// an empty category is classified and the price normalized
func (h *AdminHandler) CreateWhop(w http.ResponseWriter, r *http.Request) {
	var in models.WhopInput
	if !decodeJSON(w, r, &in) {
		return
	}
	whop, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, whop)
}

// UpdateWhop handles PUT /admin/whops/{id}
func (h *AdminHandler) UpdateWhop(w http.ResponseWriter, r *http.Request) {
	var in models.WhopInput
	if !decodeJSON(w, r, &in) {
		return
	}
	whop, err := h.catalog.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, whop)
}

// DeleteWhop handles DELETE /admin/whops/{id}
func (h *AdminHandler) DeleteWhop(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkDeleteWhops handles POST /admin/whops/bulk-delete
func (h *AdminHandler) BulkDeleteWhops(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	res, err := h.catalog.BulkDelete(r.Context(), ids)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ImportWhops handles POST /admin/whops/import
func (h *AdminHandler) ImportWhops(w http.ResponseWriter, r *http.Request) {
	var items []models.WhopInput
	if !decodeJSON(w, r, &items) {
		return
	}
	if len(items) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "no items to import"})
		return
	}
	res, err := h.catalog.Import(r.Context(), items)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- Promo codes ---

// CreatePromo handles POST /admin/whops/{id}/promo-codes
func (h *AdminHandler) CreatePromo(w http.ResponseWriter, r *http.Request) {
	var in models.PromoCodeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	promo, err := h.catalog.CreatePromo(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, promo)
}

// UpdatePromo handles PUT /admin/promo-codes/{id}
func (h *AdminHandler) UpdatePromo(w http.ResponseWriter, r *http.Request) {
	var in models.PromoCodeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	promo, err := h.catalog.UpdatePromo(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, promo)
}

// DeletePromo handles DELETE /admin/promo-codes/{id}
func (h *AdminHandler) DeletePromo(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeletePromo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Reviews ---

// ListReviews handles GET /admin/reviews?verified=
func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	var verified *bool
	if raw := strings.TrimSpace(r.URL.Query().Get("verified")); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "verified must be true or false", Field: "verified"})
			return
		}
		verified = &v
	}
	reviews, err := h.catalog.Reviews(r.Context(), verified)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// VerifyReview handles PUT /admin/reviews/{id}/verify
// the parent whop's rating is recomputed
func (h *AdminHandler) VerifyReview(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.VerifyReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "review_verified"})
}

// DeleteReview handles DELETE /admin/reviews/{id}
func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.DeleteReview(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BulkVerifyReviews handles POST /admin/reviews/bulk-verify
func (h *AdminHandler) BulkVerifyReviews(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	res, err := h.catalog.BulkVerifyReviews(r.Context(), ids)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// BulkDeleteReviews handles POST /admin/reviews/bulk-delete
func (h *AdminHandler) BulkDeleteReviews(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	res, err := h.catalog.BulkDeleteReviews(r.Context(), ids)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
