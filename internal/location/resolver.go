// Package location normalizes the four location input modalities (manual
// text, voice transcript, GPS fix, map pick) into one LocationDescriptor
// and caches the last successful resolution.
package location

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/agrisense/advisor-cli/internal/model"
	"github.com/agrisense/advisor-cli/internal/prefs"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

// Sentinel errors for the resolution taxonomy.
var (
	ErrCapabilityUnavailable = eris.New("location: platform capability unavailable")
	ErrRecognition           = eris.New("location: speech recognition failed")
	ErrLocationUnavailable   = eris.New("location: current position unavailable")
	ErrEmptyInput            = eris.New("location: empty location input")
)

// DefaultGPSTimeout matches the platform position request timeout.
const DefaultGPSTimeout = 8 * time.Second

// Resolver funnels all resolution events through one commit path. It is
// safe for use from a single workflow at a time; the listening latch
// prevents re-entrant voice capture.
type Resolver struct {
	client      advisory.Client
	prefs       *prefs.Prefs
	positioner  Positioner
	transcriber Transcriber
	gpsTimeout  time.Duration

	mu        sync.Mutex
	listening bool
	current   *model.LocationDescriptor
}

// Options configures optional capabilities and timeouts.
type Options struct {
	Positioner  Positioner
	Transcriber Transcriber
	GPSTimeout  time.Duration
}

// NewResolver creates a Resolver. Nil capabilities mean the platform lacks
// them; the matching modalities fail with ErrCapabilityUnavailable.
func NewResolver(client advisory.Client, p *prefs.Prefs, opts Options) *Resolver {
	if opts.GPSTimeout <= 0 {
		opts.GPSTimeout = DefaultGPSTimeout
	}
	return &Resolver{
		client:      client,
		prefs:       p,
		positioner:  opts.Positioner,
		transcriber: opts.Transcriber,
		gpsTimeout:  opts.GPSTimeout,
	}
}

// resolution is the tagged union all four modalities reduce to.
type resolution struct {
	source model.ResolutionSource
	name   string
	coords *model.Coords
}

// Prefill returns the location to pre-populate the form with: the current
// in-memory resolution if any, else the cached last-known location.
func (r *Resolver) Prefill(ctx context.Context) *model.LocationDescriptor {
	r.mu.Lock()
	current := r.current
	r.mu.Unlock()
	if current != nil {
		return current
	}
	return r.prefs.LastLocation(ctx)
}

// Listening reports whether a voice capture is in progress, so callers can
// disable re-entry.
func (r *Resolver) Listening() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listening
}

// ResolveManual uses the typed text verbatim as the location name.
func (r *Resolver) ResolveManual(ctx context.Context, text string) (model.LocationDescriptor, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.LocationDescriptor{}, ErrEmptyInput
	}
	return r.commit(ctx, resolution{source: model.SourceManual, name: text})
}

// ResolveVoice captures one final transcript and uses it verbatim as the
// location name.
func (r *Resolver) ResolveVoice(ctx context.Context) (model.LocationDescriptor, error) {
	if r.transcriber == nil {
		return model.LocationDescriptor{}, ErrCapabilityUnavailable
	}

	r.mu.Lock()
	if r.listening {
		r.mu.Unlock()
		return model.LocationDescriptor{}, eris.Wrap(ErrRecognition, "capture already in progress")
	}
	r.listening = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.listening = false
		r.mu.Unlock()
	}()

	transcript, err := r.transcriber.Transcribe(ctx)
	if err != nil {
		return model.LocationDescriptor{}, eris.Wrap(ErrRecognition, err.Error())
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return model.LocationDescriptor{}, eris.Wrap(ErrRecognition, "empty transcript")
	}
	return r.commit(ctx, resolution{source: model.SourceVoice, name: transcript})
}

// ResolveGPS requests the current position and reverse-resolves it to a
// place name, falling back to the deterministic GPS string. Prior state is
// untouched on failure.
func (r *Resolver) ResolveGPS(ctx context.Context) (model.LocationDescriptor, error) {
	if r.positioner == nil {
		return model.LocationDescriptor{}, ErrCapabilityUnavailable
	}

	posCtx, cancel := context.WithTimeout(ctx, r.gpsTimeout)
	defer cancel()

	pos, err := r.positioner.CurrentPosition(posCtx)
	if err != nil {
		return model.LocationDescriptor{}, eris.Wrap(ErrLocationUnavailable, err.Error())
	}
	return r.resolvePoint(ctx, model.SourceGPS, pos.Lat, pos.Lng)
}

// ResolveMapPick resolves a point chosen on the interactive map, with the
// same reverse-resolution-or-fallback logic as GPS.
func (r *Resolver) ResolveMapPick(ctx context.Context, lat, lng float64) (model.LocationDescriptor, error) {
	return r.resolvePoint(ctx, model.SourceMapPick, lat, lng)
}

func (r *Resolver) resolvePoint(ctx context.Context, source model.ResolutionSource, lat, lng float64) (model.LocationDescriptor, error) {
	name, err := r.client.ReverseGeocode(ctx, lat, lng)
	if err != nil {
		zap.L().Debug("location: reverse geocode fallback",
			zap.String("source", string(source)),
			zap.Float64("lat", lat),
			zap.Float64("lng", lng),
			zap.Error(err),
		)
		name = model.GPSFallbackName(lat, lng)
	}
	return r.commit(ctx, resolution{
		source: source,
		name:   name,
		coords: &model.Coords{Lat: lat, Lng: lng},
	})
}

// commit is the single reducer every modality funnels into. It updates the
// in-memory descriptor and best-effort persists it as the last-known
// location.
func (r *Resolver) commit(ctx context.Context, res resolution) (model.LocationDescriptor, error) {
	loc := model.LocationDescriptor{Name: res.name, Coords: res.coords}

	r.mu.Lock()
	r.current = &loc
	r.mu.Unlock()

	if err := r.prefs.SetLastLocation(ctx, loc); err != nil {
		zap.L().Warn("location: caching last location failed",
			zap.String("source", string(res.source)),
			zap.Error(err),
		)
	}
	zap.L().Info("location resolved",
		zap.String("source", string(res.source)),
		zap.String("name", loc.Name),
		zap.Bool("has_coords", loc.Coords != nil),
	)
	return loc, nil
}
