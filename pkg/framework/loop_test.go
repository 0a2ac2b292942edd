package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoopStageOrder(t *testing.T) {
	clock := NewManualClock()
	loop := NewLoop()
	loop.Clock = clock

	var order []Stage
	record := func(s Stage) Controller {
		return ControlFunc(func(cc ControlContext) error {
			require.Equal(t, s, cc.Stage())
			order = append(order, s)
			return nil
		})
	}
	loop.AddController(StageFlush, record(StageFlush))
	loop.AddController(StageActuate, record(StageActuate))
	loop.AddController(StageSense, record(StageSense))
	loop.AddController(StageControl, record(StageControl))

	loop.RunIteration(context.Background())
	require.Equal(t, []Stage{StageSense, StageControl, StageActuate, StageFlush}, order)
}

func TestLoopIterationTime(t *testing.T) {
	clock := NewManualClock()
	loop := NewLoop()
	loop.Clock = clock

	var seen []time.Time
	loop.AddController(StageSense, ControlFunc(func(cc ControlContext) error {
		seen = append(seen, cc.Time())
		return nil
	}))
	loop.AddController(StageActuate, ControlFunc(func(cc ControlContext) error {
		seen = append(seen, cc.Time())
		return nil
	}))

	loop.RunIteration(context.Background())
	clock.Advance(25 * time.Millisecond)
	loop.RunIteration(context.Background())

	require.Len(t, seen, 4)
	require.Equal(t, seen[0], seen[1])
	require.Equal(t, seen[2], seen[3])
	require.Equal(t, 25*time.Millisecond, seen[2].Sub(seen[0]))
}

func TestLoopControllerErrorDoesNotAbort(t *testing.T) {
	loop := NewLoop()
	loop.Clock = NewManualClock()

	var ran bool
	loop.AddController(StageSense, ControlFunc(func(cc ControlContext) error {
		return context.DeadlineExceeded
	}))
	loop.AddController(StageControl, ControlFunc(func(cc ControlContext) error {
		ran = true
		return nil
	}))

	loop.RunIteration(context.Background())
	require.True(t, ran)
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, context.DeadlineExceeded)
	err := errs.Aggregate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "deadline")
}
