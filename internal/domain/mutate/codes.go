package mutate

import "strings"

// SplitCodes splits whitespace-delimited SKC input into unique non-empty
// codes, preserving first-seen order.
func SplitCodes(raw string) []string {
	fields := strings.Fields(raw)
	seen := make(map[string]struct{}, len(fields))
	codes := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		codes = append(codes, f)
	}
	return codes
}
