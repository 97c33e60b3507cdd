package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/advisor-cli/internal/kvstore"
	"github.com/agrisense/advisor-cli/internal/model"
)

func TestPrefs_LastLocationRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := New(kvstore.NewMemory())

	assert.Nil(t, p.LastLocation(ctx))

	loc := model.LocationDescriptor{
		Name:   "Nashik, Maharashtra",
		Coords: &model.Coords{Lat: 19.9975, Lng: 73.7898},
	}
	require.NoError(t, p.SetLastLocation(ctx, loc))

	got := p.LastLocation(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "Nashik, Maharashtra", got.Name)
	require.NotNil(t, got.Coords)
	assert.InDelta(t, 19.9975, got.Coords.Lat, 0.0001)
	assert.InDelta(t, 73.7898, got.Coords.Lng, 0.0001)
}

func TestPrefs_LastLocationRequiresName(t *testing.T) {
	t.Parallel()

	p := New(kvstore.NewMemory())
	err := p.SetLastLocation(context.Background(), model.LocationDescriptor{
		Coords: &model.Coords{Lat: 1, Lng: 2},
	})
	assert.Error(t, err)
}

func TestPrefs_LastLocationCorruptIsNil(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	kv := kvstore.NewMemory()
	require.NoError(t, kv.Set(ctx, kvstore.KeyLastLocation, []byte("{broken")))

	assert.Nil(t, New(kv).LastLocation(ctx))
}

func TestPrefs_LanguageDefaultsToEnglish(t *testing.T) {
	t.Parallel()

	p := New(kvstore.NewMemory())
	assert.Equal(t, "en", p.Language(context.Background()))
}

func TestPrefs_SetLanguage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := New(kvstore.NewMemory())

	require.NoError(t, p.SetLanguage(ctx, "hi"))
	assert.Equal(t, "hi", p.Language(ctx))

	assert.Error(t, p.SetLanguage(ctx, "not a lang tag!!"))
	assert.Equal(t, "hi", p.Language(ctx))
}

func TestPrefs_AuthFlag(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := New(kvstore.NewMemory())

	assert.False(t, p.Authenticated(ctx))
	require.NoError(t, p.SetAuthenticated(ctx, true))
	assert.True(t, p.Authenticated(ctx))
	require.NoError(t, p.SetAuthenticated(ctx, false))
	assert.False(t, p.Authenticated(ctx))
}
