package skc

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Rank returns a copy of skcs ordered by status priority, ties broken by
// locale-aware code comparison. The ordering is advisory: it is never written
// back to the server, and callers must not assume subsequent reads reflect it.
func Rank(skcs []SKC) []SKC {
	// Collators are not safe for concurrent use, so build one per call.
	coll := collate.New(language.Chinese)

	ranked := make([]SKC, len(skcs))
	copy(ranked, skcs)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := ranked[i].Status.Priority(), ranked[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return coll.CompareString(ranked[i].Code, ranked[j].Code) < 0
	})
	return ranked
}
