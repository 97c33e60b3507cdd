package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT_KnownLanguage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "History cleared.", T("en", "history.cleared"))
	assert.Equal(t, "इतिहास साफ़ कर दिया गया।", T("hi", "history.cleared"))
}

func TestT_UnknownLanguageFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No past analyses yet.", T("fr", "history.empty"))
}

func TestT_UnknownKeyReturnsKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestLanguages(t *testing.T) {
	t.Parallel()

	langs := Languages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "hi")
}
