// Package matching reconciles parsed declarations with catalog entries.
//
// When several declarations fit one overload, an exact parameter match beats a prefix
// match, a longer prefix beats a shorter one, and between equal candidates the later
// declaration wins. Every contested slot is recorded as a Conflict; only a tie between
// equal candidates is marked Ambiguous.
package matching

import (
	"sort"

	"cvgen/internal/metadata"
)

// Slot identifies one overload of one catalog entry by position.
type Slot struct {
	Method   int
	Overload int
}

// Conflict records two declarations competing for one slot.
type Conflict struct {
	Slot      Slot
	Method    string
	Kept      *metadata.Function
	Dropped   *metadata.Function
	Ambiguous bool
}

// Match pairs a matched catalog overload with its declaration.
type Match struct {
	Overload int
	Function *metadata.Function
	// The declaration's parameter count equals the overload's.
	Exact bool
}

// Result holds the matches of one collection. The collection itself is never modified.
type Result struct {
	Collection string
	Source     string
	Conflicts  []Conflict
	slots      map[Slot]Match
}

func newResult(collection string, source string) *Result {
	return &Result{Collection: collection, Source: source, slots: make(map[Slot]Match)}
}

// Matched returns the matches of one catalog entry ordered by overload.
func (r *Result) Matched(method int) []Match {
	var matches []Match
	for slot, match := range r.slots {
		if slot.Method == method {
			matches = append(matches, match)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Overload < matches[j].Overload })

	return matches
}

func (r *Result) Lookup(slot Slot) (Match, bool) {
	match, found := r.slots[slot]
	return match, found
}

func (r *Result) Len() int {
	return len(r.slots)
}
