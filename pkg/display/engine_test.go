package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tactilab/braille.go/pkg/braille"
)

const testSettle = 50 * time.Millisecond

func newTestEngine(t *testing.T, cells int) (*Engine, *MemChain) {
	chain := NewMemChain()
	fabric := NewFabric(chain, cells*braille.DotsPerCell*OutputsPerDot)
	require.NoError(t, fabric.Enable())
	return NewEngine(fabric, cells, testSettle), chain
}

// requireExclusiveDrive checks the core actuator invariant: never both
// coils of a dot asserted at once.
func requireExclusiveDrive(t *testing.T, frame *Frame, dots int) {
	for d := 0; d < dots; d++ {
		up, down := frame.Get(UpBit(d)), frame.Get(DownBit(d))
		require.Falsef(t, up && down, "dot %d drives both directions", d)
	}
}

func TestRequestDotScheduled(t *testing.T) {
	e, chain := newTestEngine(t, 1)
	now := time.Unix(0, 0)
	commits := chain.Commits

	require.NoError(t, e.RequestDot(0, DotUp, false, now))
	require.Equal(t, DotDown, e.DotCurrent(0))
	require.True(t, e.Pending())
	require.Equal(t, commits, chain.Commits)

	// Before the settle delay nothing commits.
	committed, err := e.Tick(now.Add(testSettle - time.Millisecond))
	require.NoError(t, err)
	require.False(t, committed)

	committed, err = e.Tick(now.Add(testSettle))
	require.NoError(t, err)
	require.True(t, committed)
	require.Equal(t, DotUp, e.DotCurrent(0))
	require.False(t, e.Pending())
	require.True(t, e.Fabric().Frame().Get(UpBit(0)))
	require.False(t, e.Fabric().Frame().Get(DownBit(0)))
}

func TestRequestDotImmediate(t *testing.T) {
	e, chain := newTestEngine(t, 1)
	now := time.Unix(0, 0)

	require.NoError(t, e.RequestDot(2, DotUp, true, now))
	require.Equal(t, DotUp, e.DotCurrent(2))
	require.False(t, e.Pending())
	require.True(t, chain.Bit(UpBit(2)))
	require.False(t, chain.Bit(DownBit(2)))
}

func TestImmediateClearsPendingTimer(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	now := time.Unix(0, 0)

	require.NoError(t, e.RequestDot(0, DotUp, false, now))
	require.NoError(t, e.RequestDot(0, DotDown, true, now))
	require.False(t, e.Pending())

	// The stale timer must not fire later.
	committed, err := e.Tick(now.Add(10 * testSettle))
	require.NoError(t, err)
	require.False(t, committed)
	require.Equal(t, DotDown, e.DotCurrent(0))
}

func TestSetCellPatternSettles(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	now := time.Unix(0, 0)

	e.SetCellPattern(0, 0x01, now)
	committed, err := e.Tick(now.Add(testSettle))
	require.NoError(t, err)
	require.True(t, committed)

	require.Equal(t, DotUp, e.DotCurrent(0))
	frame := e.Fabric().Frame()
	require.True(t, frame.Get(UpBit(0)))
	require.False(t, frame.Get(DownBit(0)))
	require.Equal(t, byte(0x01), e.CurrentCellPattern(0))
}

func TestNeverBothCoils(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	now := time.Unix(0, 0)
	dots := 2 * braille.DotsPerCell

	for p := 0; p < 64; p += 7 {
		e.SetCellPattern(0, byte(p), now)
		e.SetCellPattern(1, byte(63-p), now)
		requireExclusiveDrive(t, e.Fabric().Frame(), dots)
		now = now.Add(testSettle)
		_, err := e.Tick(now)
		require.NoError(t, err)
		requireExclusiveDrive(t, e.Fabric().Frame(), dots)
	}
}

func TestTickBatchesCommit(t *testing.T) {
	e, chain := newTestEngine(t, 2)
	now := time.Unix(0, 0)
	commits := chain.Commits

	e.SetCellPattern(0, 0x3F, now)
	e.SetCellPattern(1, 0x3F, now)
	_, err := e.Tick(now.Add(testSettle))
	require.NoError(t, err)
	// Twelve dot transitions, exactly one shift-out.
	require.Equal(t, commits+1, chain.Commits)
}

func TestCommitWhileDisabled(t *testing.T) {
	chain := NewMemChain()
	fabric := NewFabric(chain, 12)
	e := NewEngine(fabric, 1, testSettle)
	now := time.Unix(0, 0)

	e.SetCellPattern(0, 0x07, now)
	committed, err := e.Tick(now.Add(testSettle))
	require.NoError(t, err)
	require.True(t, committed)
	// Disabled fabric: logical state advanced, nothing latched.
	require.Empty(t, chain.Latched)
	require.Equal(t, byte(0x07), e.CurrentCellPattern(0))

	// Enable pushes the accumulated buffer out.
	require.NoError(t, fabric.Enable())
	require.True(t, chain.Bit(UpBit(0)))
	require.True(t, chain.Bit(UpBit(1)))
	require.True(t, chain.Bit(UpBit(2)))
	require.True(t, chain.Bit(DownBit(3)))
}

func TestEngineReset(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	now := time.Unix(0, 0)

	e.SetCellPattern(0, 0x3F, now)
	_, err := e.Tick(now.Add(testSettle))
	require.NoError(t, err)
	e.SetCellPattern(1, 0x15, now.Add(testSettle))

	require.NoError(t, e.Reset(now.Add(testSettle)))
	require.False(t, e.Pending())
	for d := 0; d < 2*braille.DotsPerCell; d++ {
		require.Equal(t, DotDown, e.DotCurrent(d))
		require.False(t, e.Fabric().Frame().Get(UpBit(d)))
		require.True(t, e.Fabric().Frame().Get(DownBit(d)))
	}
	require.Zero(t, e.Cell(0).Pattern)
	require.Zero(t, e.Cell(1).Pattern)
}

func TestOutOfRangeNoops(t *testing.T) {
	e, _ := newTestEngine(t, 1)
	now := time.Unix(0, 0)
	require.NoError(t, e.RequestDot(99, DotUp, true, now))
	e.SetCellPattern(5, 0x3F, now)
	require.False(t, e.Pending())
}
