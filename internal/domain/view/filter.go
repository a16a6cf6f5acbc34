package view

import (
	"strings"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
)

// Filter applies the search and status predicates to rows. Search is a
// case-insensitive substring match against product name or SKC code; status
// is exact equality; both combine with AND and an empty predicate matches
// everything. Filter is pure and idempotent.
func Filter(rows []Row, search string, status skc.Status) []Row {
	term := strings.ToLower(strings.TrimSpace(search))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if term != "" &&
			!strings.Contains(strings.ToLower(r.ProductName), term) &&
			!strings.Contains(strings.ToLower(r.Code), term) {
			continue
		}
		if status != "" && r.Status != string(status) {
			continue
		}
		out = append(out, r)
	}
	return out
}
