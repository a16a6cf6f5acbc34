package skc_test

import (
	"testing"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/skc"
	"github.com/stretchr/testify/require"
)

func TestRank_StatusPriorityBeforeCode(t *testing.T) {
	input := []skc.SKC{
		{Code: "B", Status: skc.StatusDelisted},
		{Code: "A", Status: skc.StatusPriceApproved},
	}

	ranked := skc.Rank(input)
	require.Equal(t, "A", ranked[0].Code)
	require.Equal(t, skc.StatusPriceApproved, ranked[0].Status)
	require.Equal(t, "B", ranked[1].Code)
}

func TestRank_CodeTieBreakWithinStatus(t *testing.T) {
	input := []skc.SKC{
		{Code: "Z9", Status: skc.StatusStockPulled},
		{Code: "A1", Status: skc.StatusStockPulled},
		{Code: "M5", Status: skc.StatusStockPulled},
	}

	ranked := skc.Rank(input)
	require.Equal(t, []string{"A1", "M5", "Z9"}, codes(ranked))
}

func TestRank_UnknownStatusSortsLast(t *testing.T) {
	input := []skc.SKC{
		{Code: "X", Status: "神秘状态"},
		{Code: "Y", Status: skc.StatusDelisted},
	}

	ranked := skc.Rank(input)
	require.Equal(t, []string{"Y", "X"}, codes(ranked))
}

func TestRank_PureAndDeterministic(t *testing.T) {
	input := []skc.SKC{
		{Code: "C", Status: skc.StatusPriceError},
		{Code: "A", Status: skc.StatusDelisted},
		{Code: "B", Status: skc.StatusPriceApproved},
	}
	original := make([]skc.SKC, len(input))
	copy(original, input)

	first := skc.Rank(input)
	second := skc.Rank(first)
	require.Equal(t, first, second)
	// The input slice is never reordered.
	require.Equal(t, original, input)
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range skc.AllStatuses() {
		require.True(t, s.Valid(), "status %s", s)
	}
	require.False(t, skc.Status("").Valid())
	require.False(t, skc.Status("随便").Valid())
}

func TestStatus_PriorityOrder(t *testing.T) {
	all := skc.AllStatuses()
	for i := 1; i < len(all); i++ {
		require.Less(t, all[i-1].Priority(), all[i].Priority())
	}
	require.Equal(t, 999, skc.Status("unknown").Priority())
}

func codes(skcs []skc.SKC) []string {
	out := make([]string, len(skcs))
	for i, s := range skcs {
		out[i] = s.Code
	}
	return out
}
