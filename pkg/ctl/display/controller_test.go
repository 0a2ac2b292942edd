package displayctl

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactilab/braille.go/pkg/braille"
	"github.com/tactilab/braille.go/pkg/comm"
	"github.com/tactilab/braille.go/pkg/display"
	fx "github.com/tactilab/braille.go/pkg/framework"
	"github.com/tactilab/braille.go/pkg/matrix"
	"github.com/tactilab/braille.go/pkg/phase"
)

const testSettle = 50 * time.Millisecond

type harness struct {
	loop  *fx.Loop
	clock *fx.ManualClock
	ctl   *Controller

	host, slate       *comm.Link
	hostOut, slateOut *bytes.Buffer
	engine            *display.Engine
	chain             *display.MemChain
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:    fx.NewManualClock(),
		hostOut:  &bytes.Buffer{},
		slateOut: &bytes.Buffer{},
		chain:    &display.MemChain{},
	}
	geo := matrix.DefaultGeometry
	fabric := display.NewFabric(h.chain, geo.Cells()*braille.DotsPerCell*display.OutputsPerDot)
	h.engine = display.NewEngine(fabric, geo.Cells(), testSettle)
	h.host = comm.NewLink("host", h.hostOut)
	h.slate = comm.NewLink("slate", h.slateOut)
	h.ctl = New(h.host, h.slate, h.engine, geo)
	h.loop = fx.NewLoop()
	h.loop.Clock = h.clock
	h.loop.Add(h.ctl)
	return h
}

func (h *harness) step() {
	h.loop.RunIteration(context.Background())
}

func (h *harness) fromHost(line string) {
	h.host.Feed([]byte(line + "\n"))
}

func (h *harness) fromSlate(line string) {
	h.slate.Feed([]byte(line + "\n"))
}

// hostLines returns the lines flushed to the host since the last call.
func (h *harness) hostLines() []string {
	return takeLines(h.hostOut)
}

func (h *harness) slateLines() []string {
	return takeLines(h.slateOut)
}

func takeLines(buf *bytes.Buffer) []string {
	s := buf.String()
	buf.Reset()
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestControllerReadyOnFirstIteration(t *testing.T) {
	h := newHarness(t)
	h.step()
	assert.Equal(t, []string{"READY"}, h.hostLines())
	h.step()
	assert.Empty(t, h.hostLines())
}

func TestControllerPhaseCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.fromHost("PHASE:1")
	h.step()
	assert.Equal(t, []string{"PHASE_SET:1"}, h.hostLines())
	assert.Equal(t, phase.Embossing, h.ctl.Machine().Phase())
	assert.True(t, h.engine.Fabric().Enabled())

	// Re-sending the active phase acks without re-initializing.
	h.clock.Advance(testSettle)
	h.step()
	h.fromHost("PHASE:1")
	h.step()
	assert.Equal(t, []string{"PHASE_SET:1"}, h.hostLines())
	assert.False(t, h.engine.Pending())

	h.fromHost("PHASE:9")
	h.step()
	assert.Equal(t, []string{"ERROR:Invalid phase: 9"}, h.hostLines())
}

func TestControllerDisplayCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("PHASE:6")
	h.step()
	h.hostLines()

	h.fromHost("DISPLAY:hi")
	h.step()
	assert.Equal(t, []string{"DISPLAYED:hi"}, h.hostLines())

	// The glyphs reach the actuators only after the settle delay.
	assert.Zero(t, h.engine.CurrentCellPattern(0))
	h.clock.Advance(testSettle)
	h.step()
	assert.Equal(t, braille.CharPattern('h'), h.engine.CurrentCellPattern(0))
	assert.Equal(t, braille.CharPattern('i'), h.engine.CurrentCellPattern(1))
}

func TestControllerMirrorAndClear(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("PHASE:6")
	h.step()
	h.hostLines()

	h.fromHost("MIRROR:c")
	h.step()
	assert.Equal(t, []string{"MIRRORED:c"}, h.hostLines())
	h.clock.Advance(testSettle)
	h.step()
	assert.Equal(t, braille.Mirror(braille.CharPattern('c')), h.engine.CurrentCellPattern(0))

	h.fromHost("CLEAR")
	h.step()
	assert.Equal(t, []string{"CLEARED"}, h.hostLines())
	h.clock.Advance(testSettle)
	h.step()
	assert.Zero(t, h.engine.CurrentCellPattern(0))
}

func TestControllerEnableDisable(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.fromHost("ENABLE")
	h.step()
	assert.Equal(t, []string{"DISPLAY_ENABLED"}, h.hostLines())
	assert.True(t, h.engine.Fabric().Enabled())

	h.fromHost("DISABLE")
	h.step()
	assert.Equal(t, []string{"DISPLAY_DISABLED"}, h.hostLines())
	assert.False(t, h.engine.Fabric().Enabled())
}

func TestControllerTestCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("ENABLE")
	h.step()
	h.hostLines()

	h.fromHost("TEST")
	h.step()
	// Forwarded to the slate so its indicators run the same check.
	assert.Equal(t, []string{"TEST"}, h.slateLines())
	assert.Empty(t, h.hostLines())

	h.clock.Advance(testSettle)
	h.step()
	assert.Equal(t, []string{"TEST_COMPLETE"}, h.hostLines())
	for c := 0; c < h.engine.Cells(); c++ {
		assert.Equal(t, byte(0x3F), h.engine.CurrentCellPattern(c), "cell %d", c)
	}

	// Completion is reported once.
	h.clock.Advance(testSettle)
	h.step()
	assert.Empty(t, h.hostLines())
}

func TestControllerStatusCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("PHASE:2")
	h.step()
	h.hostLines()
	h.slateLines()

	h.fromHost("STATUS")
	h.step()
	lines := h.hostLines()
	require.NotEmpty(t, lines)
	assert.Equal(t, "STATUS_START", lines[0])
	assert.Equal(t, "STATUS_END", lines[len(lines)-1])
	assert.Contains(t, lines, "phase:2")
	assert.Contains(t, lines, "enabled:1")
	assert.Equal(t, []string{"STATUS"}, h.slateLines())

	// Device identity and the commanded pattern of every cell are part
	// of the block. Phase 2 entry text "ABC" puts a capital sign (dot 6)
	// in cell 0.
	hasDevice := false
	for _, l := range lines {
		if strings.HasPrefix(l, "device:") && l != "device:" {
			hasDevice = true
		}
	}
	assert.True(t, hasDevice, "status block must carry a device id")
	assert.Contains(t, lines, "cell0:6")
	assert.Contains(t, lines, "cell9:none")
}

func TestControllerRelaysSlateStatusLines(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.fromSlate("slate_pressed:2")
	h.fromSlate("slate_leds:1")
	h.step()
	assert.Equal(t, []string{"slate_pressed:2", "slate_leds:1"}, h.hostLines())
	assert.Empty(t, h.slateLines())
}

func TestControllerResetCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("PHASE:4")
	h.step()
	h.fromHost("DISPLAY:abc")
	h.step()
	h.hostLines()

	h.slateLines()
	h.fromHost("RESET")
	h.step()
	assert.Equal(t, []string{"READY"}, h.hostLines())
	assert.Equal(t, []string{"RESET"}, h.slateLines())
	assert.Equal(t, phase.Sentence, h.ctl.Machine().Phase())
	assert.False(t, h.engine.Pending())
	assert.Zero(t, h.engine.CurrentCellPattern(0))
}

func TestControllerLedForwarding(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()
	h.slateLines()

	h.fromHost("LED:2,3,1")
	h.step()
	assert.Equal(t, []string{"LED:2,3,1"}, h.slateLines())
	assert.Empty(t, h.hostLines())
}

func TestControllerSlateButtonDispatch(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.fromHost("PHASE:1")
	h.step()
	h.hostLines()

	// Row 0, col 1 is dot 2 of cell 0.
	h.fromSlate("BTN:0,1")
	h.step()
	assert.Equal(t, []string{"DOT_PRESSED:0,2"}, h.hostLines())
	h.clock.Advance(testSettle)
	h.step()
	assert.Equal(t, byte(0x02), h.engine.CurrentCellPattern(0))

	h.fromSlate("REL:0,1")
	h.step()
	assert.Equal(t, []string{"BUTTON_RELEASE:0,1,0,2"}, h.hostLines())
}

func TestControllerOffSwallowsButtons(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.fromSlate("BTN:0,0")
	h.step()
	assert.Empty(t, h.hostLines())
}

func TestControllerUnknownCommand(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.fromHost("BOGUS:1")
	h.step()
	assert.Equal(t, []string{"ERROR:Unknown command: BOGUS:1"}, h.hostLines())
}

func TestControllerHeartbeat(t *testing.T) {
	h := newHarness(t)
	h.step()
	h.hostLines()

	h.clock.Advance(DefaultHeartbeat - time.Millisecond)
	h.step()
	assert.Empty(t, h.hostLines())

	h.clock.Advance(time.Millisecond)
	h.step()
	assert.Equal(t, []string{"HEARTBEAT"}, h.hostLines())

	h.step()
	assert.Empty(t, h.hostLines())
}
