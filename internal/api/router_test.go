package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whpcodes/catalog-service/internal/api/handlers"
	"github.com/whpcodes/catalog-service/internal/api/middleware"
	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/internal/service"
)

const secret = "router-secret"

type catalogStub struct {
	handlers.Catalog
	deleted []string
}

func (c *catalogStub) List(context.Context, service.ListParams) (*service.Page, error) {
	return &service.Page{Items: []models.Whop{}, Page: 1, PageSize: 20}, nil
}

func (c *catalogStub) Delete(_ context.Context, id string) error {
	c.deleted = append(c.deleted, id)
	return nil
}

type trackerStub struct{ calls int }

func (t *trackerStub) Track(in service.TrackingInput) (*models.TrackingEvent, error) {
	t.calls++
	return &models.TrackingEvent{ID: "ev", WhopID: in.WhopID, ActionType: in.ActionType}, nil
}

type recommenderStub struct{}

func (recommenderStub) Recommend(context.Context, string, int, bool) (*service.RecommendationResponse, error) {
	return &service.RecommendationResponse{Recommendations: []models.Whop{}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *catalogStub, *trackerStub) {
	t.Helper()
	catalog := &catalogStub{}
	tracker := &trackerStub{}
	h := NewRouter(Deps{
		Catalog:           catalog,
		Recommender:       recommenderStub{},
		Tracker:           tracker,
		Metrics:           metrics.New(prometheus.NewRegistry()),
		JWTSecret:         secret,
		TrackingPerSecond: 0.001,
		TrackingBurst:     2,
	})
	return h, catalog, tracker
}

func serve(h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Health(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec := serve(h, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_PublicListing(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec := serve(h, http.MethodGet, "/api/whops", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_RecommendationsCacheHeader(t *testing.T) {
	h, _, _ := newTestRouter(t)
	rec := serve(h, http.MethodGet, "/api/whops/w1/recommendations", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=3600, stale-while-revalidate=7200", rec.Header().Get("Cache-Control"))
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	h, catalog, _ := newTestRouter(t)

	rec := serve(h, http.MethodDelete, "/admin/whops/w1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, catalog.deleted)

	token, err := middleware.IssueToken(secret, "admin", time.Hour)
	require.NoError(t, err)
	rec = serve(h, http.MethodDelete, "/admin/whops/w1", "", token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"w1"}, catalog.deleted)
}

func TestRouter_TrackingIsRateLimited(t *testing.T) {
	h, _, tracker := newTestRouter(t)
	body := `{"whopId":"w1","actionType":"offer_click"}`

	assert.Equal(t, http.StatusAccepted, serve(h, http.MethodPost, "/api/tracking", body, "").Code)
	assert.Equal(t, http.StatusAccepted, serve(h, http.MethodPost, "/api/tracking", body, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, "/api/tracking", body, "").Code)
	assert.Equal(t, 2, tracker.calls)
}

func TestRouter_Metrics(t *testing.T) {
	h, _, _ := newTestRouter(t)
	serve(h, http.MethodGet, "/api/whops", "", "")

	rec := serve(h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `catalog_http_requests_total{method="GET",route="/api/whops`)
	assert.NotContains(t, body, `route="unmatched"`)
}
