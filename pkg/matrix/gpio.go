package matrix

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOPort drives the matrix over GPIO: row lines as open outputs held
// high, column lines as inputs with pull-ups. A row is selected by
// driving it low; a closed contact then pulls its column low.
type GPIOPort struct {
	rows   []gpio.PinIO
	cols   []gpio.PinIO
	settle time.Duration
}

// NewGPIOPort resolves pins by name and configures them. settle is the
// row-settle wait applied after each row select (sub-millisecond).
func NewGPIOPort(rowPins, colPins []string, settle time.Duration) (*GPIOPort, error) {
	p := &GPIOPort{settle: settle}
	for _, name := range rowPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown GPIO pin %q", name)
		}
		if err := pin.Out(gpio.High); err != nil {
			return nil, err
		}
		p.rows = append(p.rows, pin)
	}
	for _, name := range colPins {
		pin := gpioreg.ByName(name)
		if pin == nil {
			return nil, fmt.Errorf("unknown GPIO pin %q", name)
		}
		if err := pin.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, err
		}
		p.cols = append(p.cols, pin)
	}
	return p, nil
}

// SelectRow implements Port.
func (p *GPIOPort) SelectRow(row int) error {
	if row < 0 || row >= len(p.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	if err := p.rows[row].Out(gpio.Low); err != nil {
		return err
	}
	time.Sleep(p.settle)
	return nil
}

// DeselectRow implements Port.
func (p *GPIOPort) DeselectRow(row int) error {
	if row < 0 || row >= len(p.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	return p.rows[row].Out(gpio.High)
}

// ReadCols implements Port. Readings are inverted: pull-ups make an
// open contact read high.
func (p *GPIOPort) ReadCols(dst []bool) error {
	for i, pin := range p.cols {
		if i >= len(dst) {
			break
		}
		dst[i] = pin.Read() == gpio.Low
	}
	return nil
}
