// Package display drives the bidirectional dot actuators behind a
// shift-register output fabric.
//
// Every dot owns two outputs: a raise coil and a lower coil. The frame
// holds the commanded level of all outputs bit-packed in shift-register
// order; the timing engine guarantees at most one of the two coils per
// dot is ever driven.
package display

// OutputsPerDot is the number of drive outputs per dot (raise, lower).
const OutputsPerDot = 2

// UpBit returns the frame bit index driving the raise coil of a dot.
func UpBit(dot int) int { return dot * OutputsPerDot }

// DownBit returns the frame bit index driving the lower coil of a dot.
func DownBit(dot int) int { return dot*OutputsPerDot + 1 }

// Frame is a bit-packed output buffer covering the whole register chain.
type Frame struct {
	bits    []byte
	outputs int
}

// NewFrame creates a Frame for the given number of outputs.
func NewFrame(outputs int) *Frame {
	return &Frame{
		bits:    make([]byte, (outputs+7)/8),
		outputs: outputs,
	}
}

// Outputs is the number of addressable output bits.
func (f *Frame) Outputs() int { return f.outputs }

// Set mutates exactly one bit. Out-of-range indices are ignored.
func (f *Frame) Set(index int, v bool) {
	if index < 0 || index >= f.outputs {
		return
	}
	mask := byte(1) << uint(index%8)
	if v {
		f.bits[index/8] |= mask
	} else {
		f.bits[index/8] &^= mask
	}
}

// Get reads one bit. Out-of-range indices read as false.
func (f *Frame) Get(index int) bool {
	if index < 0 || index >= f.outputs {
		return false
	}
	return f.bits[index/8]&(1<<uint(index%8)) != 0
}

// Clear zeroes the whole buffer.
func (f *Frame) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
}

// Bytes exposes the packed buffer in register order. The slice aliases
// the frame; callers must not retain it across mutations.
func (f *Frame) Bytes() []byte { return f.bits }
