package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whpcodes/catalog-service/internal/metrics"
	"github.com/whpcodes/catalog-service/internal/models"
	"github.com/whpcodes/catalog-service/pkg/logger"
)

// ErrBufferFull is returned when the tracking buffer cannot take more events.
var ErrBufferFull = errors.New("tracking buffer full")

const (
	trackingFlushTimeout  = 5 * time.Second
	trackingFlushAttempts = 2
	trackingRetryDelay    = 200 * time.Millisecond
)

// TrackingInput is the public tracking payload.
type TrackingInput struct {
	WhopID      string            `json:"whopId"`
	PromoCodeID *string           `json:"promoCodeId"`
	ActionType  models.ActionType `json:"actionType"`
}

// TrackingConfig sizes the buffer and flush cadence.
type TrackingConfig struct {
	BufferSize     int
	FlushInterval  time.Duration
	FlushThreshold int
}

// Tracker accepts tracking events without blocking and batch-inserts them
// from a single background goroutine.
type Tracker struct {
	store   EventStore
	log     logger.Logger
	metrics *metrics.Metrics
	cfg     TrackingConfig
	now     func() time.Time
	retry   time.Duration

	// mu orders Track's sends before Stop closes intake, so the final
	// drain sees every accepted event.
	mu      sync.RWMutex
	stopped bool
	events  chan models.TrackingEvent
	closed  chan struct{}
	wg      sync.WaitGroup
}

func NewTracker(store EventStore, cfg TrackingConfig, log logger.Logger, m *metrics.Metrics) *Tracker {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}
	if cfg.FlushThreshold <= 0 {
		cfg.FlushThreshold = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 2 * time.Second
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Tracker{
		store:   store,
		log:     log,
		metrics: m,
		cfg:     cfg,
		now:     time.Now,
		retry:   trackingRetryDelay,
		events:  make(chan models.TrackingEvent, cfg.BufferSize),
		closed:  make(chan struct{}),
	}
}

// Track validates in and enqueues it. It never waits on the database.
func (t *Tracker) Track(in TrackingInput) (*models.TrackingEvent, error) {
	whopID := strings.TrimSpace(in.WhopID)
	if whopID == "" {
		return nil, invalid("whopId", "is required")
	}
	if !in.ActionType.Valid() {
		return nil, invalid("actionType", "must be code_reveal or offer_click")
	}

	ev := models.TrackingEvent{
		ID:          uuid.NewString(),
		WhopID:      whopID,
		PromoCodeID: trimPtr(in.PromoCodeID),
		ActionType:  in.ActionType,
		CreatedAt:   t.now().UTC(),
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopped {
		return nil, ErrBufferFull
	}
	select {
	case t.events <- ev:
		t.metrics.TrackingAccepted(string(ev.ActionType))
		return &ev, nil
	default:
		t.metrics.TrackingDrop()
		t.log.Warn("Tracking buffer full, dropping event", logger.String("whop_id", whopID))
		return nil, ErrBufferFull
	}
}

// Pending returns the number of buffered events.
func (t *Tracker) Pending() int {
	return len(t.events)
}

// Start launches the flush loop.
func (t *Tracker) Start() {
	t.wg.Add(1)
	go t.flushLoop()
}

// Stop stops accepting events, flushes what is buffered and waits.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.stopped {
		t.stopped = true
		close(t.closed)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *Tracker) flushLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(t.cfg.FlushInterval)
	defer ticker.Stop()

	batch := make([]models.TrackingEvent, 0, t.cfg.FlushThreshold)

	for {
		select {
		case ev := <-t.events:
			batch = append(batch, ev)
			if len(batch) >= t.cfg.FlushThreshold {
				t.flush(batch)
				batch = make([]models.TrackingEvent, 0, t.cfg.FlushThreshold)
			}

		case <-ticker.C:
			t.metrics.TrackingDepth(len(t.events))
			if len(batch) > 0 {
				t.flush(batch)
				batch = make([]models.TrackingEvent, 0, t.cfg.FlushThreshold)
			}

		case <-t.closed:
			t.drain(&batch)
			if len(batch) > 0 {
				t.flush(batch)
			}
			t.metrics.TrackingDepth(0)
			return
		}
	}
}

// drain moves every buffered event into batch.
func (t *Tracker) drain(batch *[]models.TrackingEvent) {
	for {
		select {
		case ev := <-t.events:
			*batch = append(*batch, ev)
		default:
			return
		}
	}
}

// flush inserts batch, retrying once before the events are dropped.
func (t *Tracker) flush(batch []models.TrackingEvent) {
	var err error
	for attempt := 1; attempt <= trackingFlushAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(t.retry)
		}
		if err = t.insert(batch); err == nil {
			break
		}
		t.log.Warn("Tracking insert failed",
			logger.Error(err),
			logger.Int("attempt", attempt),
			logger.Int("batch_size", len(batch)),
		)
	}

	t.metrics.TrackingFlush(len(batch), err)
	if err != nil {
		t.log.Error("Dropping tracking events",
			logger.Error(err),
			logger.Int("batch_size", len(batch)),
		)
		return
	}
	t.log.Debug("Flushed tracking events", logger.Int("total", len(batch)))
}

func (t *Tracker) insert(batch []models.TrackingEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), trackingFlushTimeout)
	defer cancel()
	return t.store.InsertBatch(ctx, batch)
}
