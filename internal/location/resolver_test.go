package location

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/advisor-cli/internal/kvstore"
	"github.com/agrisense/advisor-cli/internal/model"
	"github.com/agrisense/advisor-cli/internal/prefs"
)

// fakeClient stubs the advisory service; only ReverseGeocode matters here.
type fakeClient struct {
	geocodeName  string
	geocodeErr   error
	geocodeCalls int
}

func (f *fakeClient) Preview(context.Context, model.AdvisoryInputs) (*model.PreviewSnapshot, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeClient) Advise(context.Context, model.AdvisoryInputs) (*model.AdvisoryResponse, error) {
	return nil, eris.New("not implemented")
}

func (f *fakeClient) ReverseGeocode(context.Context, float64, float64) (string, error) {
	f.geocodeCalls++
	return f.geocodeName, f.geocodeErr
}

func (f *fakeClient) DetectDisease(context.Context, string, io.Reader) (json.RawMessage, error) {
	return nil, eris.New("not implemented")
}

type fakePositioner struct {
	pos Position
	err error
}

func (f *fakePositioner) CurrentPosition(context.Context) (Position, error) {
	return f.pos, f.err
}

type fakeTranscriber struct {
	transcript string
	err        error
}

func (f *fakeTranscriber) Transcribe(context.Context) (string, error) {
	return f.transcript, f.err
}

func newTestResolver(t *testing.T, client *fakeClient, opts Options) (*Resolver, *prefs.Prefs) {
	t.Helper()
	p := prefs.New(kvstore.NewMemory())
	return NewResolver(client, p, opts), p
}

func TestResolveManual_UsesTextVerbatim(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	r, p := newTestResolver(t, client, Options{})

	loc, err := r.ResolveManual(context.Background(), "  Nashik, Maharashtra  ")
	require.NoError(t, err)
	assert.Equal(t, "Nashik, Maharashtra", loc.Name)
	assert.Nil(t, loc.Coords)
	assert.Zero(t, client.geocodeCalls)

	// Committed as the last-known location.
	cached := p.LastLocation(context.Background())
	require.NotNil(t, cached)
	assert.Equal(t, "Nashik, Maharashtra", cached.Name)
}

func TestResolveManual_EmptyInput(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{})
	_, err := r.ResolveManual(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestResolveVoice_NoCapability(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{})
	_, err := r.ResolveVoice(context.Background())
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
}

func TestResolveVoice_TranscriptVerbatim(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{
		Transcriber: &fakeTranscriber{transcript: "Village near Pune"},
	})

	loc, err := r.ResolveVoice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Village near Pune", loc.Name)
	assert.Nil(t, loc.Coords)
	assert.False(t, r.Listening())
}

func TestResolveVoice_RecognitionFailure(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{
		Transcriber: &fakeTranscriber{err: eris.New("no-speech")},
	})

	_, err := r.ResolveVoice(context.Background())
	assert.ErrorIs(t, err, ErrRecognition)
	assert.False(t, r.Listening())
}

func TestResolveVoice_EmptyTranscript(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{
		Transcriber: &fakeTranscriber{transcript: "   "},
	})

	_, err := r.ResolveVoice(context.Background())
	assert.ErrorIs(t, err, ErrRecognition)
}

func TestResolveGPS_NoCapability(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{})
	_, err := r.ResolveGPS(context.Background())
	assert.ErrorIs(t, err, ErrCapabilityUnavailable)
}

func TestResolveGPS_ReverseGeocoded(t *testing.T) {
	t.Parallel()

	client := &fakeClient{geocodeName: "Chennai, Tamil Nadu"}
	r, _ := newTestResolver(t, client, Options{
		Positioner: &fakePositioner{pos: Position{Lat: 12.8439, Lng: 80.1543}},
	})

	loc, err := r.ResolveGPS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Chennai, Tamil Nadu", loc.Name)
	require.NotNil(t, loc.Coords)
	assert.InDelta(t, 12.8439, loc.Coords.Lat, 1e-9)
	assert.InDelta(t, 80.1543, loc.Coords.Lng, 1e-9)
	assert.Equal(t, 1, client.geocodeCalls)
}

func TestResolveGPS_FallbackNameOnGeocodeFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{geocodeErr: eris.New("service down")}
	r, _ := newTestResolver(t, client, Options{
		Positioner: &fakePositioner{pos: Position{Lat: 12.8439, Lng: 80.1543}},
	})

	loc, err := r.ResolveGPS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "GPS: 12.8439, 80.1543", loc.Name)
	require.NotNil(t, loc.Coords)
}

func TestResolveGPS_PositionFailureKeepsPriorState(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(t, &fakeClient{}, Options{
		Positioner: &fakePositioner{err: eris.New("permission denied")},
	})

	prior, err := r.ResolveManual(context.Background(), "Nashik")
	require.NoError(t, err)

	_, err = r.ResolveGPS(context.Background())
	assert.ErrorIs(t, err, ErrLocationUnavailable)

	current := r.Prefill(context.Background())
	require.NotNil(t, current)
	assert.Equal(t, prior.Name, current.Name)
}

func TestResolveMapPick(t *testing.T) {
	t.Parallel()

	client := &fakeClient{geocodeErr: eris.New("service down")}
	r, _ := newTestResolver(t, client, Options{})

	loc, err := r.ResolveMapPick(context.Background(), -1.0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "GPS: -1.0000, 0.5000", loc.Name)
	require.NotNil(t, loc.Coords)
}

func TestPrefill(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, p := newTestResolver(t, &fakeClient{}, Options{})

	// Nothing resolved and nothing cached.
	assert.Nil(t, r.Prefill(ctx))

	// A cached last-known location fills in when nothing is resolved yet.
	require.NoError(t, p.SetLastLocation(ctx, model.LocationDescriptor{Name: "Cached Place"}))
	got := r.Prefill(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "Cached Place", got.Name)

	// A live resolution takes precedence over the cache.
	_, err := r.ResolveManual(ctx, "Fresh Place")
	require.NoError(t, err)
	got = r.Prefill(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "Fresh Place", got.Name)
}

func TestCommit_SurvivesCacheWriteFailure(t *testing.T) {
	t.Parallel()

	kv := kvstore.NewMemory()
	kv.FailWrites = eris.New("disk full")
	r := NewResolver(&fakeClient{}, prefs.New(kv), Options{})

	loc, err := r.ResolveManual(context.Background(), "Nashik")
	require.NoError(t, err)
	assert.Equal(t, "Nashik", loc.Name)
}
