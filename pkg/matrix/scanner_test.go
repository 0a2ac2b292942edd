package matrix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func newTestScanner() (*Scanner, *MemPort) {
	geo := Geometry{Rows: 4, Cols: 4, RowsPerCell: 4, ColsPerCell: 3}
	port := NewMemPort(geo)
	return NewScanner(port, geo, testDebounce), port
}

func scanAt(t *testing.T, s *Scanner, now time.Time) []Event {
	events, err := s.Scan(now)
	require.NoError(t, err)
	return events
}

func TestScanDebouncedPress(t *testing.T) {
	s, port := newTestScanner()
	now := time.Unix(0, 0)

	port.SetContact(1, 2, true)
	require.Empty(t, scanAt(t, s, now))
	require.Empty(t, scanAt(t, s, now.Add(testDebounce-time.Millisecond)))

	events := scanAt(t, s, now.Add(testDebounce))
	require.Equal(t, []Event{{Row: 1, Col: 2, Pressed: true}}, events)
	require.True(t, s.Pressed(1, 2))

	// Stable contact emits nothing further.
	require.Empty(t, scanAt(t, s, now.Add(2*testDebounce)))
}

func TestScanBounceSuppressed(t *testing.T) {
	s, port := newTestScanner()
	now := time.Unix(0, 0)

	// Two flips within the window: zero events.
	port.SetContact(0, 0, true)
	require.Empty(t, scanAt(t, s, now))
	port.SetContact(0, 0, false)
	require.Empty(t, scanAt(t, s, now.Add(10*time.Millisecond)))
	require.Empty(t, scanAt(t, s, now.Add(testDebounce*2)))
	require.False(t, s.Pressed(0, 0))
}

func TestScanRelease(t *testing.T) {
	s, port := newTestScanner()
	now := time.Unix(0, 0)

	port.SetContact(2, 3, true)
	scanAt(t, s, now)
	events := scanAt(t, s, now.Add(testDebounce))
	require.Len(t, events, 1)

	port.SetContact(2, 3, false)
	scanAt(t, s, now.Add(testDebounce+time.Millisecond))
	events = scanAt(t, s, now.Add(2*testDebounce+time.Millisecond))
	require.Equal(t, []Event{{Row: 2, Col: 3, Pressed: false}}, events)
}

func TestScanIndependentCells(t *testing.T) {
	s, port := newTestScanner()
	now := time.Unix(0, 0)

	// One cell mid-debounce must not delay another.
	port.SetContact(0, 0, true)
	scanAt(t, s, now)
	port.SetContact(3, 3, true)
	scanAt(t, s, now.Add(30*time.Millisecond))

	events := scanAt(t, s, now.Add(testDebounce))
	require.Equal(t, []Event{{Row: 0, Col: 0, Pressed: true}}, events)

	events = scanAt(t, s, now.Add(30*time.Millisecond+testDebounce))
	require.Equal(t, []Event{{Row: 3, Col: 3, Pressed: true}}, events)
}

func TestScanRestoresRows(t *testing.T) {
	s, port := newTestScanner()
	scanAt(t, s, time.Unix(0, 0))
	require.Equal(t, -1, port.SelectedRow())
}

func TestScannerReset(t *testing.T) {
	s, port := newTestScanner()
	now := time.Unix(0, 0)

	port.SetContact(1, 1, true)
	scanAt(t, s, now)
	scanAt(t, s, now.Add(testDebounce))
	require.True(t, s.Pressed(1, 1))

	s.Reset()
	require.False(t, s.Pressed(1, 1))

	// Held contact re-debounces from scratch, no spurious release.
	require.Empty(t, scanAt(t, s, now.Add(testDebounce+time.Millisecond)))
	events := scanAt(t, s, now.Add(2*testDebounce+time.Millisecond))
	require.Equal(t, []Event{{Row: 1, Col: 1, Pressed: true}}, events)
}
