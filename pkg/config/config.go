// Package config loads the device configuration shared by the display
// and slate daemons.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tactilab/braille.go/pkg/matrix"
)

// Config is the top-level YAML document.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Matrix  MatrixConfig  `yaml:"matrix"`
	Links   LinksConfig   `yaml:"links"`
	Timing  TimingConfig  `yaml:"timing"`
}

// DisplayConfig describes the actuated cell row and its shift chain.
type DisplayConfig struct {
	Cells int       `yaml:"cells"`
	Pins  ChainPins `yaml:"pins"`
}

// MatrixConfig describes the button matrix and its indicator LEDs.
type MatrixConfig struct {
	Rows        int       `yaml:"rows"`
	Cols        int       `yaml:"cols"`
	RowsPerCell int       `yaml:"rows_per_cell"`
	ColsPerCell int       `yaml:"cols_per_cell"`
	RowPins     []string  `yaml:"row_pins"`
	ColPins     []string  `yaml:"col_pins"`
	LedPins     ChainPins `yaml:"led_pins"`
}

// ChainPins names the GPIO lines of one shift-register chain.
type ChainPins struct {
	Data   string `yaml:"data"`
	Clock  string `yaml:"clock"`
	Latch  string `yaml:"latch"`
	Enable string `yaml:"enable"`
}

// LinksConfig describes both protocol endpoints. A device of "-" means
// stdio; an mqtt:// URL routes the host link through a broker.
type LinksConfig struct {
	Host  LinkConfig `yaml:"host"`
	Slate LinkConfig `yaml:"slate"`
}

// LinkConfig is one serial or broker endpoint.
type LinkConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
	MQTT   string `yaml:"mqtt"`
}

// TimingConfig carries every debounce/settle knob, in milliseconds on
// the wire.
type TimingConfig struct {
	SettleMs    int `yaml:"settle_ms"`
	DebounceMs  int `yaml:"debounce_ms"`
	HeartbeatMs int `yaml:"heartbeat_ms"`
	IntervalMs  int `yaml:"interval_ms"`
	RowSettleUs int `yaml:"row_settle_us"`
}

func (t TimingConfig) Settle() time.Duration    { return time.Duration(t.SettleMs) * time.Millisecond }
func (t TimingConfig) Debounce() time.Duration  { return time.Duration(t.DebounceMs) * time.Millisecond }
func (t TimingConfig) Heartbeat() time.Duration { return time.Duration(t.HeartbeatMs) * time.Millisecond }
func (t TimingConfig) Interval() time.Duration  { return time.Duration(t.IntervalMs) * time.Millisecond }
func (t TimingConfig) RowSettle() time.Duration { return time.Duration(t.RowSettleUs) * time.Microsecond }

// Geometry converts the matrix section to the shared mapping geometry.
func (m MatrixConfig) Geometry() matrix.Geometry {
	return matrix.Geometry{
		Rows:        m.Rows,
		Cols:        m.Cols,
		RowsPerCell: m.RowsPerCell,
		ColsPerCell: m.ColsPerCell,
	}
}

// Default returns the configuration matching the reference hardware.
func Default() Config {
	return Config{
		Display: DisplayConfig{Cells: 10},
		Matrix: MatrixConfig{
			Rows:        matrix.DefaultGeometry.Rows,
			Cols:        matrix.DefaultGeometry.Cols,
			RowsPerCell: matrix.DefaultGeometry.RowsPerCell,
			ColsPerCell: matrix.DefaultGeometry.ColsPerCell,
		},
		Links: LinksConfig{
			Host:  LinkConfig{Device: "-", Baud: 115200},
			Slate: LinkConfig{Device: "-", Baud: 115200},
		},
		Timing: TimingConfig{
			SettleMs:    50,
			DebounceMs:  50,
			HeartbeatMs: 5000,
			IntervalMs:  10,
			RowSettleUs: 100,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects geometry and timing that cannot drive hardware.
func (c Config) Validate() error {
	if c.Display.Cells <= 0 {
		return fmt.Errorf("display.cells must be positive, got %d", c.Display.Cells)
	}
	g := c.Matrix.Geometry()
	if g.Rows <= 0 || g.Cols <= 0 || g.RowsPerCell <= 0 || g.ColsPerCell <= 0 {
		return fmt.Errorf("matrix geometry must be positive, got %dx%d (%dx%d per cell)",
			g.Rows, g.Cols, g.RowsPerCell, g.ColsPerCell)
	}
	if c.Timing.SettleMs <= 0 || c.Timing.DebounceMs <= 0 || c.Timing.IntervalMs <= 0 {
		return fmt.Errorf("timing values must be positive")
	}
	if c.Timing.HeartbeatMs < 0 {
		return fmt.Errorf("timing.heartbeat_ms must not be negative, got %d", c.Timing.HeartbeatMs)
	}
	return nil
}
