package scrape

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchError_KnownPhrases(t *testing.T) {
	p := DefaultPhrases()

	phrase, ok := p.MatchError("HTTP 403: Forbidden")
	assert.True(t, ok)
	assert.Equal(t, "forbidden", phrase)

	_, ok = p.MatchError("connection reset by peer")
	assert.False(t, ok)
}

func TestMatchContent_KnownPhrases(t *testing.T) {
	p := DefaultPhrases()

	_, ok := p.MatchContent("<html><body>Please complete the CAPTCHA to continue</body></html>")
	assert.True(t, ok)

	_, ok = p.MatchContent("<html><body>75 results for lego 75257</body></html>")
	assert.False(t, ok)
}

func TestMatchContent_CaseInsensitive(t *testing.T) {
	p := Phrases{Content: []string{"Access Denied"}}
	_, ok := p.MatchContent("<h1>ACCESS DENIED</h1>")
	assert.True(t, ok)
}

func TestLoadPhrases_FromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
errors:
  - "proxy rejected"
content:
  - "custom challenge page"
`), 0o644))

	p, err := LoadPhrases(path)
	require.NoError(t, err)

	_, ok := p.MatchError("upstream proxy rejected the request")
	assert.True(t, ok)
	_, ok = p.MatchContent("<html>custom challenge page</html>")
	assert.True(t, ok)
}

func TestLoadPhrases_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blocklist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("errors:\n  - \"special error\"\n"), 0o644))

	p, err := LoadPhrases(path)
	require.NoError(t, err)

	// Content list falls back to defaults.
	_, ok := p.MatchContent("robot check")
	assert.True(t, ok)
}

func TestLoadPhrases_MissingFile(t *testing.T) {
	_, err := LoadPhrases("/nonexistent/blocklist.yaml")
	require.Error(t, err)
}

func TestUARotator_RoundRobin(t *testing.T) {
	r := newUARotator([]string{"a", "b", "c"})
	assert.Equal(t, "a", r.Next())
	assert.Equal(t, "b", r.Next())
	assert.Equal(t, "c", r.Next())
	assert.Equal(t, "a", r.Next())
}
