package display

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// GPIOChain bit-bangs a 74HC595-style register chain over four GPIO
// lines. The output-enable line is active low.
type GPIOChain struct {
	data   gpio.PinIO
	clock  gpio.PinIO
	latch  gpio.PinIO
	enable gpio.PinIO
}

// NewGPIOChain resolves pins by name (e.g. "GPIO17") and drives them to
// the safe initial state: clock and latch low, outputs disabled.
func NewGPIOChain(data, clock, latch, enable string) (*GPIOChain, error) {
	c := &GPIOChain{
		data:   gpioreg.ByName(data),
		clock:  gpioreg.ByName(clock),
		latch:  gpioreg.ByName(latch),
		enable: gpioreg.ByName(enable),
	}
	for name, pin := range map[string]gpio.PinIO{data: c.data, clock: c.clock, latch: c.latch, enable: c.enable} {
		if pin == nil {
			return nil, fmt.Errorf("unknown GPIO pin %q", name)
		}
	}
	if err := c.data.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := c.clock.Out(gpio.Low); err != nil {
		return nil, err
	}
	if err := c.latch.Out(gpio.Low); err != nil {
		return nil, err
	}
	// OE high = outputs off.
	if err := c.enable.Out(gpio.High); err != nil {
		return nil, err
	}
	return c, nil
}

// ShiftOut implements ShiftChain. The last register in data is shifted
// first so it lands in the register furthest down the chain.
func (c *GPIOChain) ShiftOut(data []byte) error {
	for i := len(data) - 1; i >= 0; i-- {
		b := data[i]
		for bit := 7; bit >= 0; bit-- {
			level := gpio.Low
			if b&(1<<uint(bit)) != 0 {
				level = gpio.High
			}
			if err := c.data.Out(level); err != nil {
				return err
			}
			if err := c.clock.Out(gpio.High); err != nil {
				return err
			}
			if err := c.clock.Out(gpio.Low); err != nil {
				return err
			}
		}
	}
	return nil
}

// Latch implements ShiftChain.
func (c *GPIOChain) Latch() error {
	if err := c.latch.Out(gpio.High); err != nil {
		return err
	}
	time.Sleep(time.Microsecond)
	return c.latch.Out(gpio.Low)
}

// SetOutputEnable implements ShiftChain.
func (c *GPIOChain) SetOutputEnable(on bool) error {
	if on {
		return c.enable.Out(gpio.Low)
	}
	return c.enable.Out(gpio.High)
}
