// Package slatectl wires the button matrix scanner and the indicator
// LED chain into the control loop of the slate unit.
package slatectl

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/display"
	fx "github.com/tactilab/braille.go/pkg/framework"
	"github.com/tactilab/braille.go/pkg/lineproto"
	"github.com/tactilab/braille.go/pkg/matrix"
)

// Controller is the top-level controller of the slate unit: it scans
// the button matrix, reports debounced events upstream and drives the
// per-button indicator LEDs from downstream commands.
type Controller struct {
	Link *comm.Link

	scanner *matrix.Scanner
	leds    *display.Fabric
	dirty   bool
}

// New creates the controller. The LED fabric covers one output per
// matrix position, row-major, and starts enabled with all LEDs off.
func New(link *comm.Link, scanner *matrix.Scanner, leds *display.Fabric) *Controller {
	return &Controller{Link: link, scanner: scanner, leds: leds}
}

// Name implements framework.Named.
func (c *Controller) Name() string { return "slate" }

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
		if !c.dirty {
			return nil
		}
		c.dirty = false
		return c.leds.Commit()
	case fx.StageFlush:
		return c.Link.Flush()
	}
	return nil
}

func (c *Controller) sense(cc fx.ControlContext) error {
	for _, line := range c.Link.Poll() {
		c.handle(line)
	}
	events, err := c.scanner.Scan(cc.Time())
	for _, ev := range events {
		if ev.Pressed {
			c.Link.Send(lineproto.FormatBtn(ev.Row, ev.Col))
		} else {
			c.Link.Send(lineproto.FormatRel(ev.Row, ev.Col))
		}
	}
	return err
}

func (c *Controller) handle(line string) {
	geo := c.scanner.Geometry()
	switch msg := lineproto.Parse(line).(type) {
	case nil:

	case lineproto.LedSet:
		if !geo.Valid(msg.Row, msg.Col) {
			glog.Warningf("led %d,%d out of range, ignored", msg.Row, msg.Col)
			return
		}
		c.leds.Frame().Set(msg.Row*geo.Cols+msg.Col, msg.On)
		c.dirty = true

	case lineproto.Test:
		// Light every indicator so a miswired LED is obvious.
		for i := 0; i < geo.Rows*geo.Cols; i++ {
			c.leds.Frame().Set(i, true)
		}
		c.dirty = true

	case lineproto.Status:
		pressed, lit := 0, 0
		for r := 0; r < geo.Rows; r++ {
			for col := 0; col < geo.Cols; col++ {
				if c.scanner.Pressed(r, col) {
					pressed++
				}
				if c.leds.Frame().Get(r*geo.Cols + col) {
					lit++
				}
			}
		}
		// Answered as free-form lines; the display controller relays
		// them to the host verbatim.
		c.Link.Send(fmt.Sprintf("slate_pressed:%d", pressed))
		c.Link.Send(fmt.Sprintf("slate_leds:%d", lit))

	case lineproto.Reset:
		c.scanner.Reset()
		c.leds.Frame().Clear()
		c.dirty = true

	case lineproto.Unknown:
		glog.Warningf("unknown slate command %q", msg.Raw)

	default:
		glog.Warningf("unexpected line %q on slate command link, ignored", line)
	}
}
