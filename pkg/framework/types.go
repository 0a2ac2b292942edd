package framework

import (
	"context"
	"time"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Controller defines the abstract controlling logic executed every
// loop iteration.
type Controller interface {
	Control(ControlContext) error
}

// ControlFunc is the func form of Controller.
type ControlFunc func(ControlContext) error

// Control implements Controller.
func (f ControlFunc) Control(cc ControlContext) error {
	return f(cc)
}

// ControlContext provides the context of the current control iteration.
// Time is sampled once per iteration from the loop clock, so every
// controller in the same iteration observes the same timestamp.
type ControlContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Time is the timestamp of this iteration.
	Time() time.Time
	// Stage is the stage currently being executed.
	Stage() Stage

	LoopControl
}

// LoopControl exposes access to the controlling loop.
type LoopControl interface {
	// TriggerNext schedules the next iteration to be executed
	// immediately after the current iteration.
	TriggerNext()
}

// Stage identifies a slot in the fixed per-iteration execution order.
type Stage int

// Stages execute in declaration order within one iteration: serial input
// is drained and framed first, control decisions run next, actuation
// (timing engine, heartbeats) after that, and queued link output is
// flushed last.
const (
	StageSense Stage = iota
	StageControl
	StageActuate
	StageFlush

	NumStages int = iota
)

// LoopAdder provides specific logic to add components to a loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}
