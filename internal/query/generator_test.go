package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_RawNameFirst(t *testing.T) {
	qs := Generate("lego 75257", Options{})
	require.NotEmpty(t, qs)
	assert.Equal(t, "lego 75257", qs[0].Text)
	assert.Equal(t, 0, qs[0].Rank)
}

func TestGenerate_AtMostFiveUnique(t *testing.T) {
	qs := Generate("lego 75257", Options{CategoryHint: "toys"})
	assert.LessOrEqual(t, len(qs), MaxVariants)

	seen := map[string]bool{}
	for _, q := range qs {
		assert.False(t, seen[q.Text], "duplicate query %q", q.Text)
		seen[q.Text] = true
	}
}

func TestGenerate_QuotedVariant(t *testing.T) {
	qs := Generate("vintage camera", Options{})
	require.GreaterOrEqual(t, len(qs), 2)
	assert.Equal(t, `"vintage camera"`, qs[1].Text)
}

func TestGenerate_CategoryVariants(t *testing.T) {
	qs := Generate("75257", Options{CategoryHint: "lego"})
	texts := make([]string, len(qs))
	for i, q := range qs {
		texts[i] = q.Text
	}
	assert.Contains(t, texts, "lego 75257")
	assert.Contains(t, texts, "75257 lego")
}

func TestGenerate_CaseInsensitiveDedup(t *testing.T) {
	// "LEGO" hint prefixing "lego set" collides case-insensitively with
	// the suffixed variant order; no duplicates may survive.
	qs := Generate("Widget", Options{CategoryHint: "WIDGET"})
	seen := map[string]bool{}
	for _, q := range qs {
		key := q.Text
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate("nintendo switch", Options{CategoryHint: "console"})
	b := Generate("nintendo switch", Options{CategoryHint: "console"})
	assert.Equal(t, a, b)
}

func TestGenerate_EmptyNameStillReturns(t *testing.T) {
	qs := Generate("", Options{})
	require.NotEmpty(t, qs)
}

func TestGenerate_RanksAreSequential(t *testing.T) {
	qs := Generate("gibson les paul", Options{})
	for i, q := range qs {
		assert.Equal(t, i, q.Rank)
	}
}
