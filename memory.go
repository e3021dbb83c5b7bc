package vasm

// zeroPage is the first address the assembled program may occupy; the VM
// itself lives below it.
const zeroPage uint16 = 0x0100

// memory models the VM's 16-bit memory-position counter used to assign
// label addresses in pass 1 and to track the write cursor in pass 2.
// Using a uint16 gets the wraparound for free: the memory position
// wraps at 64KB like the VM's own address space, via Go's unsigned
// arithmetic.
type memory struct {
	pos uint16
}

func newMemory() *memory {
	return &memory{pos: zeroPage}
}

// move repositions the counter: absolutely (|) or relative to its
// current value ($).
func (m *memory) move(n uint16, absolute bool) {
	if absolute {
		m.pos = n
	} else {
		m.pos += n
	}
}

// advance moves the counter forward by n without emitting anything; used
// by pass 1 to budget instructions and operands before any bytes exist.
func (m *memory) advance(n uint16) {
	m.pos += n
}
