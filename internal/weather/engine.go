package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neexbeast/trekinfo/internal/destination"
	"github.com/neexbeast/trekinfo/internal/metrics"
)

// DefaultCacheDuration is how long a record stays fresh.
const DefaultCacheDuration = time.Hour

// Store holds the single current record of each destination.
// GetCurrent returns nil, nil when no record exists.
type Store interface {
	GetCurrent(ctx context.Context, destinationID int) (*Record, error)
	Replace(ctx context.Context, destinationID int, rec Record) error
}

// Provider is satisfied by OpenWeatherClient.
type Provider interface {
	Fetch(ctx context.Context, lat, lon float64) (*Observation, error)
}

// Config tunes the engine. Zero values select the defaults.
type Config struct {
	CacheDuration time.Duration
	FetchTimeout  time.Duration
}

// Engine serves the current weather risk of a destination, refreshing the
// cached record from the provider when it is absent or stale.
type Engine struct {
	store    Store
	provider Provider
	cfg      Config
	now      func() time.Time
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewEngine constructs an Engine. A nil provider means no API key is
// configured and every refresh yields the placeholder record.
func NewEngine(store Store, provider Provider, cfg Config, log *slog.Logger, m *metrics.Metrics) *Engine {
	if cfg.CacheDuration <= 0 {
		cfg.CacheDuration = DefaultCacheDuration
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:    store,
		provider: provider,
		cfg:      cfg,
		now:      time.Now,
		log:      log,
		metrics:  m,
	}
}

// WithClock replaces the engine's time source (for tests).
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// CurrentRisk returns the destination's current weather record. It never
// fails: store errors count as a miss, provider errors yield the
// placeholder. The risk level is always recomputed from the record.
func (e *Engine) CurrentRisk(ctx context.Context, d destination.Destination) Record {
	now := e.now().UTC()

	cached, err := e.store.GetCurrent(ctx, d.ID)
	if err != nil {
		e.log.Warn("weather cache read failed", "destination_id", d.ID, "err", err)
		e.metrics.CacheLookup("error")
		cached = nil
	}

	state := StateOf(cached, now, e.cfg.CacheDuration)
	if err == nil {
		e.metrics.CacheLookup(string(state))
	}
	if state == SlotFresh {
		return cached.Reclassify()
	}

	rec := e.refresh(ctx, d, now)
	if ctx.Err() != nil {
		// A placeholder built from the caller's own cancellation must not
		// occupy the slot for the whole cache window.
		e.log.Info("caller gone, weather record not stored", "destination_id", d.ID, "err", ctx.Err())
		return rec
	}
	if err := e.store.Replace(ctx, d.ID, rec); err != nil {
		e.log.Warn("weather cache replace failed", "destination_id", d.ID, "err", err)
	}
	return rec
}

// refresh makes at most one provider call and falls back on any failure.
func (e *Engine) refresh(ctx context.Context, d destination.Destination, now time.Time) Record {
	if e.provider == nil {
		e.metrics.Fetch("skipped")
		e.metrics.Fallback()
		return newRecord(d.ID, d.Altitude, fallbackObservation(), SourceFallback, now)
	}

	obs, err := e.fetch(ctx, d)
	if err != nil && ctx.Err() != nil {
		e.metrics.Fetch("cancelled")
		return newRecord(d.ID, d.Altitude, fallbackObservation(), SourceFallback, now)
	}
	if err != nil {
		e.log.Warn("weather fetch failed, using placeholder", "destination_id", d.ID, "err", err)
		e.metrics.Fetch("error")
		e.metrics.Fallback()
		return newRecord(d.ID, d.Altitude, fallbackObservation(), SourceFallback, now)
	}

	e.metrics.Fetch("ok")
	return newRecord(d.ID, d.Altitude, *obs, SourceProvider, now)
}

func (e *Engine) fetch(ctx context.Context, d destination.Destination) (obs *Observation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("weather provider panicked: %v", r)
		}
	}()

	fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	defer cancel()

	obs, err = e.provider.Fetch(fetchCtx, d.Latitude, d.Longitude)
	if err == nil && obs == nil {
		err = errors.New("weather provider returned no observation")
	}
	return obs, err
}
