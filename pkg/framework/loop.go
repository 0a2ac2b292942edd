package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// Loop runs controllers cooperatively on a fixed cadence. There is no
// preemption: within one iteration every controller of every stage runs
// to completion before the loop yields.
type Loop struct {
	Clock    Clock
	Interval time.Duration

	stages  [NumStages][]Controller
	runners []Runnable

	wakeUpCh chan struct{}
}

// NewLoop creates a Loop driven by the system clock.
func NewLoop() *Loop {
	return &Loop{Clock: SystemClock{}, Interval: 10 * time.Millisecond}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers at a stage. Controllers at the
// same stage run in registration order.
func (l *Loop) AddController(stage Stage, ctls ...Controller) *Loop {
	l.stages[stage] = append(l.stages[stage], ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds background Runnable implementations spawned when the
// loop starts.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// TriggerNext implements LoopControl.
func (l *Loop) TriggerNext() {
	select {
	case l.wakeUpCh <- struct{}{}:
	default:
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	if l.Clock == nil {
		l.Clock = SystemClock{}
	}

	runner := NewRunnerWith(ctx)
	runner.Go(l.runners...)
	defer runner.Wait()

	interval := l.Interval
	if interval == 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.RunIteration(ctx)
		case <-l.wakeUpCh:
			l.RunIteration(ctx)
		}
	}
}

// RunOrFail is intended to be used in main to simply run the loop.
func (l *Loop) RunOrFail() {
	if err := l.Run(context.Background()); err != nil && err != context.Canceled {
		log.Fatalln(err)
	}
}

// RunIteration executes one full iteration: all stages in order with a
// single timestamp. Exposed so tests can step the loop without a ticker.
func (l *Loop) RunIteration(ctx context.Context) {
	iter := &loopIteration{loop: l, ctx: ctx, time: l.Clock.Now()}
	for s := 0; s < NumStages; s++ {
		iter.stage = Stage(s)
		for _, ctl := range l.stages[s] {
			if err := ctl.Control(iter); err != nil {
				glog.Errorf("controller error: %v", err)
			}
		}
	}
}

type loopIteration struct {
	loop  *Loop
	ctx   context.Context
	time  time.Time
	stage Stage
}

func (t *loopIteration) Context() context.Context { return t.ctx }
func (t *loopIteration) Time() time.Time          { return t.time }
func (t *loopIteration) Stage() Stage             { return t.stage }
func (t *loopIteration) TriggerNext()             { t.loop.TriggerNext() }
