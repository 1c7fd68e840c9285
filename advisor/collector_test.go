package advisor

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_SubmitOutsideWindow_PhaseViolation(t *testing.T) {
	var c Collector

	err := c.Submit(sugg(1, Marker(vA)))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPhaseViolation))
	assert.Equal(t, 0, c.Len())
}

func TestCollector_InvalidScores_DroppedOthersKept(t *testing.T) {
	// GIVEN an open cycle
	var c Collector
	require.NoError(t, c.BeginCycle())

	// WHEN a NaN, +Inf and -Inf are submitted alongside {A:4}
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := c.Submit(sugg(bad, Marker(vB)))
		var invalid *InvalidScoreError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, vB, invalid.Variant)
		assert.True(t, errors.Is(err, ErrInvalidScore))
	}
	require.NoError(t, c.Submit(sugg(4, Marker(vA))))

	// THEN only A survives and the decision uses it
	assert.Equal(t, 3, c.Dropped())
	batch, err := c.Drain()
	require.NoError(t, err)
	require.Len(t, batch, 1)
	v := Decide(Idle(), batch, mustPolicy(0), 1)
	assert.Equal(t, vA, v.Decision.Variant)
}

func TestCollector_Drain_ClosesAndResets(t *testing.T) {
	var c Collector
	require.NoError(t, c.BeginCycle())
	require.NoError(t, c.Submit(sugg(1, Marker(vA))))

	batch, err := c.Drain()
	require.NoError(t, err)
	assert.Len(t, batch, 1)
	assert.False(t, c.Open())
	assert.Equal(t, 0, c.Len())

	// draining again without a new cycle is a phase violation
	_, err = c.Drain()
	assert.ErrorIs(t, err, ErrPhaseViolation)
}

func TestCollector_BeginCycle_ClearsPreviousTick(t *testing.T) {
	var c Collector
	require.NoError(t, c.BeginCycle())
	require.NoError(t, c.Submit(sugg(1, Marker(vA))))
	_ = c.Submit(sugg(math.NaN(), Marker(vA)))
	_, err := c.Drain()
	require.NoError(t, err)

	require.NoError(t, c.BeginCycle())

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Dropped())
	batch, err := c.Drain()
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestCollector_BeginCycleTwice_PhaseViolation(t *testing.T) {
	var c Collector
	require.NoError(t, c.BeginCycle())

	err := c.BeginCycle()

	assert.ErrorIs(t, err, ErrPhaseViolation)
}

func TestCollector_DrainedSliceIsIndependent(t *testing.T) {
	var c Collector
	require.NoError(t, c.BeginCycle())
	require.NoError(t, c.Submit(sugg(1, Marker(vA))))
	batch, err := c.Drain()
	require.NoError(t, err)

	require.NoError(t, c.BeginCycle())
	require.NoError(t, c.Submit(sugg(9, Marker(vB))))

	assert.Equal(t, vA, batch[0].Variant, "next cycle must not overwrite a drained batch")
}
