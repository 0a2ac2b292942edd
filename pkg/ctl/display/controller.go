// Package displayctl wires the protocol links, the actuation timing
// engine and the phase machine into the control loop of the display
// controller.
package displayctl

import (
	"fmt"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"

	"github.com/tactilab/braille.go/pkg/braille"
	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/display"
	fx "github.com/tactilab/braille.go/pkg/framework"
	"github.com/tactilab/braille.go/pkg/lineproto"
	"github.com/tactilab/braille.go/pkg/matrix"
	"github.com/tactilab/braille.go/pkg/phase"
)

// DefaultHeartbeat is the interval between HEARTBEAT lines to the host.
const DefaultHeartbeat = 5 * time.Second

// Controller is the top-level controller of the display unit. It runs
// in three loop stages: sense drains both links and dispatches parsed
// messages, actuate advances the timing engine and the heartbeat, flush
// pushes queued lines out. All state is owned by the loop goroutine.
type Controller struct {
	Host  *comm.Link
	Slate *comm.Link

	engine  *display.Engine
	machine *phase.Machine

	Heartbeat time.Duration
	deviceID  string

	started       bool
	lastHeartbeat time.Time
	pendingTest   bool
	startedAt     time.Time
}

// New creates the controller. The machine is created internally so the
// phase state cannot be mutated behind the controller's back.
func New(host, slate *comm.Link, engine *display.Engine, geo matrix.Geometry) *Controller {
	id, err := machineid.ID()
	if err != nil {
		glog.Warningf("no machine id: %v", err)
		id = "unknown"
	}
	return &Controller{
		Host:      host,
		Slate:     slate,
		engine:    engine,
		machine:   phase.NewMachine(engine, geo),
		Heartbeat: DefaultHeartbeat,
		deviceID:  id,
	}
}

// Machine exposes the phase machine for inspection.
func (c *Controller) Machine() *phase.Machine { return c.machine }

// Name implements framework.Named.
func (c *Controller) Name() string { return "display" }

// AddToLoop implements framework.LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.StageSense, c)
	loop.AddController(fx.StageActuate, c)
	loop.AddController(fx.StageFlush, c)
}

// Control implements framework.Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	switch cc.Stage() {
	case fx.StageSense:
		return c.sense(cc)
	case fx.StageActuate:
		return c.actuate(cc)
	case fx.StageFlush:
		errs := &fx.AggregatedError{}
		errs.Add(c.Host.Flush())
		errs.Add(c.Slate.Flush())
		return errs.Aggregate()
	}
	return nil
}

func (c *Controller) sense(cc fx.ControlContext) error {
	now := cc.Time()
	if !c.started {
		c.started = true
		c.startedAt = now
		c.lastHeartbeat = now
		c.Host.Send(lineproto.FormatReady())
	}
	for _, line := range c.Host.Poll() {
		c.handleHost(line, now)
	}
	for _, line := range c.Slate.Poll() {
		c.handleSlate(line, now)
	}
	return nil
}

func (c *Controller) handleHost(line string, now time.Time) {
	switch msg := lineproto.Parse(line).(type) {
	case nil:

	case lineproto.SetPhase:
		p, ok := phase.FromInt(msg.N)
		if !ok {
			c.Host.Send(lineproto.FormatError(fmt.Sprintf("Invalid phase: %d", msg.N)))
			return
		}
		if _, err := c.machine.SetPhase(p, now); err != nil {
			glog.Errorf("phase switch: %v", err)
		}
		c.Host.Send(lineproto.FormatPhaseSet(msg.N))

	case lineproto.DisplayText:
		c.machine.ShowText(msg.Text, now)
		c.Host.Send(lineproto.FormatDisplayed(msg.Text))

	case lineproto.MirrorText:
		c.machine.ShowMirrored(msg.Text, now)
		c.Host.Send(lineproto.FormatMirrored(msg.Text))

	case lineproto.Clear:
		c.machine.Clear(now)
		c.Host.Send(lineproto.FormatCleared())

	case lineproto.Enable:
		if err := c.engine.Fabric().Enable(); err != nil {
			glog.Errorf("enable: %v", err)
		}
		c.Host.Send(lineproto.FormatDisplayEnabled())

	case lineproto.Disable:
		if err := c.engine.Fabric().Disable(); err != nil {
			glog.Errorf("disable: %v", err)
		}
		c.Host.Send(lineproto.FormatDisplayDisabled())

	case lineproto.Test:
		// Raise every dot through the settle path. Completion is
		// reported from the actuate stage once the batch commits.
		for cell := 0; cell < c.engine.Cells(); cell++ {
			c.engine.SetCellPattern(cell, 0x3F, now)
		}
		c.pendingTest = true
		c.Slate.Send(line)

	case lineproto.Status:
		c.sendStatus(now)
		c.Slate.Send(line)

	case lineproto.Reset:
		if err := c.machine.Reset(now); err != nil {
			glog.Errorf("reset: %v", err)
		}
		c.pendingTest = false
		// The slate owns the button grid; it must drop held state too.
		c.Slate.Send(line)
		c.Host.Send(lineproto.FormatReady())

	case lineproto.LedSet:
		c.Slate.Send(lineproto.FormatLed(msg.Row, msg.Col, msg.On))

	case lineproto.ButtonPress, lineproto.ButtonRelease:
		// Slate events do not belong on the host link.
		glog.Warningf("host sent slate event %q, ignored", line)

	case lineproto.Unknown:
		glog.Warningf("unknown host command %q", msg.Raw)
		c.Host.Send(lineproto.FormatUnknownCommand(msg.Raw))
	}
}

func (c *Controller) handleSlate(line string, now time.Time) {
	switch msg := lineproto.Parse(line).(type) {
	case nil:

	case lineproto.ButtonPress:
		c.relay(matrix.Event{Row: msg.Row, Col: msg.Col, Pressed: true}, now)

	case lineproto.ButtonRelease:
		c.relay(matrix.Event{Row: msg.Row, Col: msg.Col, Pressed: false}, now)

	case lineproto.Unknown:
		// Slate status replies and other free-form lines go up verbatim
		// for the host to attribute.
		c.Host.Send(msg.Raw)

	default:
		glog.Warningf("unexpected slate line %q, ignored", line)
	}
}

func (c *Controller) relay(ev matrix.Event, now time.Time) {
	for _, line := range c.machine.HandleButton(ev, now) {
		c.Host.Send(line)
	}
}

func (c *Controller) sendStatus(now time.Time) {
	c.Host.Send(lineproto.FormatStatusStart())
	c.Host.Send("device:" + c.deviceID)
	c.Host.Send(fmt.Sprintf("phase:%d", int(c.machine.Phase())))
	c.Host.Send(fmt.Sprintf("cells:%d", c.engine.Cells()))
	enabled := 0
	if c.engine.Fabric().Enabled() {
		enabled = 1
	}
	c.Host.Send(fmt.Sprintf("enabled:%d", enabled))
	pending := 0
	if c.engine.Pending() {
		pending = 1
	}
	c.Host.Send(fmt.Sprintf("pending:%d", pending))
	c.Host.Send(fmt.Sprintf("uptime:%d", int(now.Sub(c.startedAt)/time.Second)))
	for i := 0; i < c.engine.Cells(); i++ {
		c.Host.Send(fmt.Sprintf("cell%d:%s", i, braille.Dots(c.engine.Cell(i).Pattern)))
	}
	c.Host.Send(lineproto.FormatStatusEnd())
}

func (c *Controller) actuate(cc fx.ControlContext) error {
	now := cc.Time()
	committed, err := c.engine.Tick(now)
	if committed && c.pendingTest && !c.engine.Pending() {
		c.pendingTest = false
		c.Host.Send(lineproto.FormatTestComplete())
	}
	if c.Heartbeat > 0 && now.Sub(c.lastHeartbeat) >= c.Heartbeat {
		c.lastHeartbeat = now
		c.Host.Send(lineproto.FormatHeartbeat())
	}
	return err
}
