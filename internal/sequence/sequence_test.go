// Package sequence_test tests the deterministic image ordering.
package sequence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/book-expert/slideshow-service/internal/core"
	"github.com/book-expert/slideshow-service/internal/sequence"
)

func refs(names ...string) []core.ImageReference {
	out := make([]core.ImageReference, 0, len(names))
	for i, name := range names {
		out = append(out, core.ImageReference{Path: name, Position: i})
	}

	return out
}

func names(ordered []core.ImageReference) []string {
	out := make([]string, 0, len(ordered))
	for _, ref := range ordered {
		out = append(out, ref.Basename())
	}

	return out
}

func TestNumericModeOrdersByEmbeddedToken(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	ordered := seq.Order(refs("b2.jpg", "a10.jpg", "a2.jpg"))

	// 2 < 2 tie broken by natural name comparison, then 10 last.
	assert.Equal(t, []string{"a2.jpg", "b2.jpg", "a10.jpg"}, names(ordered))
}

func TestNumericTokenPrefersLongestThenRightmostRun(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	// "shoot1_frame003" -> token 003; "shoot1_frame001" -> token 001.
	ordered := seq.Order(refs("shoot1_frame003.png", "shoot1_frame001.png", "shoot1_frame002.png"))
	assert.Equal(
		t,
		[]string{"shoot1_frame001.png", "shoot1_frame002.png", "shoot1_frame003.png"},
		names(ordered),
	)

	// Equal-length runs: the rightmost one is the token, so "a2b1" sorts by 1.
	ordered = seq.Order(refs("a2b9.jpg", "a9b1.jpg"))
	assert.Equal(t, []string{"a9b1.jpg", "a2b9.jpg"}, names(ordered))
}

func TestCallerPrefixOverridesInNaturalMode(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	// No digits remain once the prefix is stripped, so natural mode applies
	// and the caller prefix decides.
	ordered := seq.Order(refs("02-beach.jpg", "01-sunset.jpg", "03-dunes.jpg"))
	assert.Equal(t, []string{"01-sunset.jpg", "02-beach.jpg", "03-dunes.jpg"}, names(ordered))
}

func TestNaturalModeWithoutAnyDigits(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	ordered := seq.Order(refs("cherry.png", "apple.png", "banana.png"))
	assert.Equal(t, []string{"apple.png", "banana.png", "cherry.png"}, names(ordered))
}

func TestUntokenedItemsSortAfterTokened(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	ordered := seq.Order(refs("cover.jpg", "slide2.jpg", "slide1.jpg"))
	assert.Equal(t, []string{"slide1.jpg", "slide2.jpg", "cover.jpg"}, names(ordered))
}

func TestUntokenedItemsOrderByPrefixThenPosition(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	// "07-cover.jpg" has a prefix but no token after stripping; "intro.jpg"
	// has neither. Numeric mode is active because of slide1.
	ordered := seq.Order(refs("intro.jpg", "07-cover.jpg", "slide1.jpg"))
	assert.Equal(t, []string{"slide1.jpg", "07-cover.jpg", "intro.jpg"}, names(ordered))
}

func TestOrderIsStable(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	input := refs("b2.jpg", "a10.jpg", "a2.jpg", "dup.jpg", "dup.jpg")
	once := seq.Order(input)
	twice := seq.Order(once)

	require.Equal(t, once, twice)
}

func TestOrderDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	input := refs("b2.jpg", "a10.jpg", "a2.jpg")
	_ = seq.Order(input)

	assert.Equal(t, refs("b2.jpg", "a10.jpg", "a2.jpg"), input)
}

func TestPrefixRequiresAtLeastTwoDigits(t *testing.T) {
	t.Parallel()

	seq := sequence.New("en")

	// "1-b.jpg" has a single-digit lead, so it is a token ("1"), not a prefix.
	ordered := seq.Order(refs("2-a.jpg", "1-b.jpg"))
	assert.Equal(t, []string{"1-b.jpg", "2-a.jpg"}, names(ordered))
}
