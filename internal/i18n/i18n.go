// Package i18n holds the message catalogs for CLI output, keyed by the
// persisted UI language code. Missing keys fall back to English.
package i18n

import (
	"embed"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

var (
	once     sync.Once
	catalogs map[string]map[string]string
	loadErr  error
)

func load() {
	catalogs = make(map[string]map[string]string)
	entries, err := catalogFS.ReadDir("catalogs")
	if err != nil {
		loadErr = eris.Wrap(err, "i18n: read catalogs")
		return
	}
	for _, entry := range entries {
		data, err := catalogFS.ReadFile("catalogs/" + entry.Name())
		if err != nil {
			loadErr = eris.Wrapf(err, "i18n: read %s", entry.Name())
			return
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			loadErr = eris.Wrapf(err, "i18n: parse %s", entry.Name())
			return
		}
		lang := entry.Name()[:len(entry.Name())-len(".yaml")]
		catalogs[lang] = messages
	}
}

// T looks up a message for the given language, falling back to English and
// finally to the key itself.
func T(lang, key string) string {
	once.Do(load)
	if loadErr != nil {
		return key
	}
	if messages, ok := catalogs[lang]; ok {
		if msg, ok := messages[key]; ok {
			return msg
		}
	}
	if msg, ok := catalogs["en"][key]; ok {
		return msg
	}
	return key
}

// Languages returns the available catalog language codes.
func Languages() []string {
	once.Do(load)
	langs := make([]string, 0, len(catalogs))
	for lang := range catalogs {
		langs = append(langs, lang)
	}
	return langs
}
