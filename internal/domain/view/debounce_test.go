package view_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cxy1818/temu-jit-skc-webui/internal/domain/view"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_CoalescesBurst(t *testing.T) {
	d := view.NewDebouncer(30 * time.Millisecond)
	var calls atomic.Int32

	for range 5 {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 },
		time.Second, 10*time.Millisecond)

	// No further call sneaks in after the quiet period.
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := view.NewDebouncer(20 * time.Millisecond)
	var calls atomic.Int32

	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
}

func TestNewDebouncer_DefaultQuietPeriod(t *testing.T) {
	// Non-positive quiet periods fall back to the 500ms default rather than
	// firing immediately.
	d := view.NewDebouncer(0)
	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), calls.Load())
	d.Stop()
}
