package keyword

import (
	"testing"

	"catalog-service/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleKeywords() []model.Keyword {
	return []model.Keyword{
		{Name: "zipper", UsageCount: 40},
		{Name: "zip", UsageCount: 12},
		{Name: "metal zip", UsageCount: 25},
		{Name: "button", UsageCount: 90},
		{Name: "zipper pull", UsageCount: 5},
	}
}

func TestRankOrdering(t *testing.T) {
	matches, exact := Rank(sampleKeywords(), "zip", 10)
	require.Len(t, matches, 4)
	assert.True(t, exact)

	// Exact first, prefix matches next by usage, substring last.
	assert.Equal(t, "zip", matches[0].Name)
	assert.Equal(t, MatchExact, matches[0].MatchType)
	assert.Equal(t, "zipper", matches[1].Name)
	assert.Equal(t, MatchPrefix, matches[1].MatchType)
	assert.Equal(t, "zipper pull", matches[2].Name)
	assert.Equal(t, MatchPrefix, matches[2].MatchType)
	assert.Equal(t, "metal zip", matches[3].Name)
	assert.Equal(t, MatchSubstring, matches[3].MatchType)
}

func TestRankCaseInsensitive(t *testing.T) {
	matches, exact := Rank(sampleKeywords(), "  ZIP  ", 10)
	require.NotEmpty(t, matches)
	assert.True(t, exact)
	assert.Equal(t, "zip", matches[0].Name)
}

func TestRankNoExactMatch(t *testing.T) {
	matches, exact := Rank(sampleKeywords(), "zipp", 10)
	require.Len(t, matches, 2)
	assert.False(t, exact, "no exact match means the UI should offer create-new")
	assert.Equal(t, "zipper", matches[0].Name)
}

func TestRankLimits(t *testing.T) {
	kws := sampleKeywords()

	matches, _ := Rank(kws, "zip", 2)
	assert.Len(t, matches, 2)

	// Zero falls back to the default dropdown size.
	matches, _ = Rank(kws, "zip", 0)
	assert.LessOrEqual(t, len(matches), DefaultLimit)

	// Absurd limits are capped.
	matches, _ = Rank(kws, "zip", 10000)
	assert.LessOrEqual(t, len(matches), MaxLimit)
}

func TestRankEmptyQuery(t *testing.T) {
	matches, exact := Rank(sampleKeywords(), "   ", 10)
	assert.Empty(t, matches)
	assert.False(t, exact)
}

func TestRankTiesByName(t *testing.T) {
	kws := []model.Keyword{
		{Name: "brass b", UsageCount: 3},
		{Name: "brass a", UsageCount: 3},
	}
	matches, _ := Rank(kws, "brass", 10)
	require.Len(t, matches, 2)
	assert.Equal(t, "brass a", matches[0].Name)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "forest green", Normalize("  Forest Green "))
}
