// Package sequence produces the deterministic total order of input images.
//
// Camera and sequence numbers embedded in filenames are the most reliable
// ordering signal, so when any basename carries a usable digit run the
// sequencer switches to numeric mode and orders by that token. An explicit
// caller-assigned numeric prefix overrides when present, and the original
// input position is always the tiebreak of last resort, which makes the
// ordering stable over any input set.
package sequence

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/book-expert/slideshow-service/internal/core"
)

// A caller-assigned prefix is at least two digits followed by a separator.
var prefixPattern = regexp.MustCompile(`^([0-9]{2,})[-_. ]`)

var digitRunPattern = regexp.MustCompile(`[0-9]+`)

const maxParsedDigits = 18

// Sequencer orders image references using a locale-aware natural comparison
// for name ties.
type Sequencer struct {
	collator *collate.Collator
}

// New creates a sequencer for the given BCP 47 locale. An unknown or empty
// locale falls back to the undetermined language, which still yields a stable
// collation.
func New(locale string) *Sequencer {
	return &Sequencer{
		collator: collate.New(language.Make(locale), collate.Numeric),
	}
}

type sortKey struct {
	ref               core.ImageReference
	nameWithoutPrefix string
	prefixIndex       uint64
	tokenValue        uint64
	hasPrefix         bool
	hasToken          bool
}

// Order returns a new slice holding the total order of refs. The input slice
// is never modified; re-ordering an already ordered sequence yields an
// identical result.
func (s *Sequencer) Order(refs []core.ImageReference) []core.ImageReference {
	keys := make([]sortKey, 0, len(refs))
	numericMode := false

	for _, ref := range refs {
		key := makeSortKey(ref)
		if key.hasToken {
			numericMode = true
		}

		keys = append(keys, key)
	}

	if numericMode {
		sort.SliceStable(keys, func(i, j int) bool {
			return s.lessNumeric(keys[i], keys[j])
		})
	} else {
		sort.SliceStable(keys, func(i, j int) bool {
			return s.lessNatural(keys[i], keys[j])
		})
	}

	ordered := make([]core.ImageReference, 0, len(keys))
	for _, key := range keys {
		ordered = append(ordered, key.ref)
	}

	return ordered
}

// lessNumeric implements numeric mode: tokened items ascend by token value,
// ties broken by natural name comparison, then prefix; untokened items sort
// after all tokened items, ordered by prefix. Stable sorting supplies the
// final input-position tiebreak.
func (s *Sequencer) lessNumeric(a, b sortKey) bool {
	if a.hasToken != b.hasToken {
		return a.hasToken
	}

	if a.hasToken {
		if a.tokenValue != b.tokenValue {
			return a.tokenValue < b.tokenValue
		}

		if cmp := s.collator.CompareString(a.nameWithoutPrefix, b.nameWithoutPrefix); cmp != 0 {
			return cmp < 0
		}
	}

	return comparePrefix(a, b) < 0
}

// lessNatural orders by prefix, then by natural comparison of the full
// basename. Used when no reference yields a numeric token.
func (s *Sequencer) lessNatural(a, b sortKey) bool {
	if cmp := comparePrefix(a, b); cmp != 0 {
		return cmp < 0
	}

	return s.collator.CompareString(a.ref.Basename(), b.ref.Basename()) < 0
}

// comparePrefix treats an absent prefix as +infinity.
func comparePrefix(a, b sortKey) int {
	switch {
	case a.hasPrefix && !b.hasPrefix:
		return -1
	case !a.hasPrefix && b.hasPrefix:
		return 1
	case !a.hasPrefix && !b.hasPrefix:
		return 0
	case a.prefixIndex < b.prefixIndex:
		return -1
	case a.prefixIndex > b.prefixIndex:
		return 1
	default:
		return 0
	}
}

func makeSortKey(ref core.ImageReference) sortKey {
	basename := ref.Basename()

	key := sortKey{
		ref:               ref,
		nameWithoutPrefix: basename,
		prefixIndex:       0,
		tokenValue:        0,
		hasPrefix:         false,
		hasToken:          false,
	}

	if match := prefixPattern.FindStringSubmatch(basename); match != nil {
		key.hasPrefix = true
		key.prefixIndex = parseDigits(match[1])
		key.nameWithoutPrefix = basename[len(match[0]):]
	}

	if token, ok := bestNumericToken(key.nameWithoutPrefix); ok {
		key.hasToken = true
		key.tokenValue = parseDigits(token)
	}

	return key
}

// bestNumericToken returns the longest digit run in name, ties broken by the
// rightmost occurrence.
func bestNumericToken(name string) (string, bool) {
	runs := digitRunPattern.FindAllString(name, -1)
	if len(runs) == 0 {
		return "", false
	}

	best := runs[0]
	for _, run := range runs[1:] {
		// ">=" keeps the rightmost run on equal length.
		if len(run) >= len(best) {
			best = run
		}
	}

	return best, true
}

// parseDigits converts a digit run to its numeric value, saturating instead of
// overflowing on absurdly long runs.
func parseDigits(digits string) uint64 {
	trimmed := digits
	for len(trimmed) > 1 && trimmed[0] == '0' {
		trimmed = trimmed[1:]
	}

	if len(trimmed) > maxParsedDigits {
		return math.MaxUint64
	}

	value, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return math.MaxUint64
	}

	return value
}
