// Package prefs exposes typed accessors over the kv store for the small
// set of process-wide client preferences: last resolved location, UI
// language, and the authentication flag.
package prefs

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"

	"github.com/agrisense/advisor-cli/internal/kvstore"
	"github.com/agrisense/advisor-cli/internal/model"
)

// DefaultLanguage is used when no language preference is stored.
const DefaultLanguage = "en"

// Prefs reads and writes client preferences.
type Prefs struct {
	kv kvstore.Store
}

// New wraps the given kv backend.
func New(kv kvstore.Store) *Prefs {
	return &Prefs{kv: kv}
}

// LastLocation returns the cached last successful location resolution, or
// nil when none is stored or the stored value is unreadable.
func (p *Prefs) LastLocation(ctx context.Context) *model.LocationDescriptor {
	data, ok, err := p.kv.Get(ctx, kvstore.KeyLastLocation)
	if err != nil || !ok {
		return nil
	}
	var loc model.LocationDescriptor
	if err := json.Unmarshal(data, &loc); err != nil || loc.Name == "" {
		return nil
	}
	return &loc
}

// SetLastLocation caches a resolved location. Coords are never persisted
// without a name.
func (p *Prefs) SetLastLocation(ctx context.Context, loc model.LocationDescriptor) error {
	if loc.Name == "" {
		return eris.New("prefs: refusing to cache location without a name")
	}
	data, err := json.Marshal(loc)
	if err != nil {
		return eris.Wrap(err, "prefs: marshal location")
	}
	return eris.Wrap(p.kv.Set(ctx, kvstore.KeyLastLocation, data), "prefs: set last location")
}

// Language returns the persisted UI language code, defaulting to English.
func (p *Prefs) Language(ctx context.Context) string {
	data, ok, err := p.kv.Get(ctx, kvstore.KeyLanguage)
	if err != nil || !ok || len(data) == 0 {
		return DefaultLanguage
	}
	return string(data)
}

// SetLanguage validates and persists a BCP-47 language code.
func (p *Prefs) SetLanguage(ctx context.Context, code string) error {
	tag, err := language.Parse(code)
	if err != nil {
		return eris.Wrapf(err, "prefs: invalid language code %q", code)
	}
	return eris.Wrap(p.kv.Set(ctx, kvstore.KeyLanguage, []byte(tag.String())), "prefs: set language")
}

// Authenticated reads the auth flag. The flag is a read-only gate for the
// advisory routes; there is no session machinery behind it.
func (p *Prefs) Authenticated(ctx context.Context) bool {
	data, ok, err := p.kv.Get(ctx, kvstore.KeyAuth)
	if err != nil || !ok {
		return false
	}
	return string(data) == "true"
}

// SetAuthenticated stores the auth flag.
func (p *Prefs) SetAuthenticated(ctx context.Context, on bool) error {
	value := "false"
	if on {
		value = "true"
	}
	return eris.Wrap(p.kv.Set(ctx, kvstore.KeyAuth, []byte(value)), "prefs: set auth flag")
}
