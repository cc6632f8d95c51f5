package handlers

import (
	"net/http"

	"github.com/whpcodes/catalog-service/internal/service"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

type trackingResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TrackingHandler records user actions and reports on them.
type TrackingHandler struct {
	tracker   EventTracker
	analytics AnalyticsReader
	log       logger.Logger
}

func NewTrackingHandler(tracker EventTracker, analytics AnalyticsReader, log logger.Logger) *TrackingHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &TrackingHandler{tracker: tracker, analytics: analytics, log: log}
}

// Track handles POST /api/tracking
// the event is buffered and written by the flush loop
func (h *TrackingHandler) Track(w http.ResponseWriter, r *http.Request) {
	var in service.TrackingInput
	if !decodeJSON(w, r, &in) {
		return
	}
	ev, err := h.tracker.Track(in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusAccepted, trackingResponse{ID: ev.ID, Status: "accepted"})
}

// Analytics handles GET /api/analytics
func (h *TrackingHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := h.analytics.Get(r.Context(), service.AnalyticsQuery{
		Timeframe: q.Get("timeframe"),
		WhopID:    q.Get("whopId"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
		Debug:     queryBool(r, "debug"),
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}
