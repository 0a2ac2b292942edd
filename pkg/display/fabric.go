package display

import "github.com/golang/glog"

// ShiftChain abstracts the physical daisy-chained shift registers.
type ShiftChain interface {
	// ShiftOut clocks the buffer out, most significant register first,
	// MSB first within each byte.
	ShiftOut(data []byte) error
	// Latch pulses the register clock so the shifted data appears on
	// the outputs.
	Latch() error
	// SetOutputEnable gates the register outputs.
	SetOutputEnable(on bool) error
}

// Fabric owns the output frame and commits it to a ShiftChain.
type Fabric struct {
	chain   ShiftChain
	frame   *Frame
	enabled bool
}

// NewFabric creates a Fabric for the given number of outputs.
func NewFabric(chain ShiftChain, outputs int) *Fabric {
	return &Fabric{chain: chain, frame: NewFrame(outputs)}
}

// Frame exposes the output buffer. Mutated only by the timing engine.
func (f *Fabric) Frame() *Frame { return f.frame }

// Enabled reports whether the output gate is asserted.
func (f *Fabric) Enabled() bool { return f.enabled }

// Enable asserts the output gate and commits the current buffer so the
// hardware reflects logical state accumulated while disabled.
func (f *Fabric) Enable() error {
	f.enabled = true
	if err := f.chain.SetOutputEnable(true); err != nil {
		return err
	}
	return f.Commit()
}

// Disable deasserts the output gate. The buffer is left intact for a
// later Enable.
func (f *Fabric) Disable() error {
	f.enabled = false
	return f.chain.SetOutputEnable(false)
}

// Commit transmits the buffer and latches it. While the fabric is
// disabled this is a no-op: logical state keeps accumulating in the
// buffer and reaches the hardware on the next Enable.
func (f *Fabric) Commit() error {
	if !f.enabled {
		glog.V(3).Info("fabric disabled, commit skipped")
		return nil
	}
	if err := f.chain.ShiftOut(f.frame.Bytes()); err != nil {
		return err
	}
	return f.chain.Latch()
}
