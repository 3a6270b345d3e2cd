package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultMaxSegments caps how many segments a single run extracts
const DefaultMaxSegments = 5

// NoneSentinel is the oracle's answer when nothing should be extracted
const NoneSentinel = "none"

var integerRe = regexp.MustCompile(`\d+`)

// Selection is the ordered list of segment identifiers picked for extraction.
// Duplicates and unknown identifiers are allowed here and dealt with later.
type Selection []int

// Reversed returns the selection in processing order (last picked first)
func (s Selection) Reversed() Selection {
	out := make(Selection, len(s))
	for i, id := range s {
		out[len(s)-1-i] = id
	}
	return out
}

// Cap keeps at most limit identifiers. A limit <= 0 uses DefaultMaxSegments.
func (s Selection) Cap(limit int) Selection {
	if limit <= 0 {
		limit = DefaultMaxSegments
	}
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// ResolveSelection turns the oracle's extraction decision into a capped
// selection. An error means the text could not be read as identifiers; the
// returned selection is then empty and the run can carry on.
func ResolveSelection(raw string, limit int) (Selection, error) {
	if strings.EqualFold(strings.TrimSpace(raw), NoneSentinel) {
		return Selection{}, nil
	}

	tokens := integerRe.FindAllString(raw, -1)
	sel := make(Selection, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return Selection{}, fmt.Errorf("could not parse extraction response %q: %w", raw, err)
		}
		sel = append(sel, n)
	}

	return sel.Cap(limit), nil
}
