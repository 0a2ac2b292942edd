package display

// MemChain is an in-memory ShiftChain used by tests and by daemons
// running without hardware. It records the latest latched frame.
type MemChain struct {
	Shifted   []byte // last shifted, not yet latched
	Latched   []byte // visible outputs
	OutputsOn bool
	Commits   int
}

// NewMemChain creates a MemChain.
func NewMemChain() *MemChain { return &MemChain{} }

// ShiftOut implements ShiftChain.
func (c *MemChain) ShiftOut(data []byte) error {
	c.Shifted = append(c.Shifted[:0], data...)
	return nil
}

// Latch implements ShiftChain.
func (c *MemChain) Latch() error {
	c.Latched = append(c.Latched[:0], c.Shifted...)
	c.Commits++
	return nil
}

// SetOutputEnable implements ShiftChain.
func (c *MemChain) SetOutputEnable(on bool) error {
	c.OutputsOn = on
	return nil
}

// Bit reads one latched output bit.
func (c *MemChain) Bit(index int) bool {
	if index < 0 || index/8 >= len(c.Latched) {
		return false
	}
	return c.Latched[index/8]&(1<<uint(index%8)) != 0
}
