package hw

import "sync"

// WriteRecord is one entry in the mock's write journal.
type WriteRecord struct {
	Block  Block
	Offset uint32
	Val    uint32
}

// Mock is an in-memory register file. It backs unit tests and the daemon's
// --mock mode. An optional OnWrite hook lets tests and the simulator react to
// writes (e.g. latch a status bit when a config bit is set).
type Mock struct {
	mu      sync.Mutex
	regs    [NumBlocks]map[uint32]uint32
	journal []WriteRecord

	// OnWrite, if set, runs after each write while the lock is held. The
	// poke callback updates registers without deadlocking or journaling.
	OnWrite func(b Block, offset uint32, val uint32, poke func(Block, uint32, uint32))
}

// NewMock returns a mock bus with all registers reading zero.
func NewMock() *Mock {
	m := &Mock{}
	for i := range m.regs {
		m.regs[i] = make(map[uint32]uint32)
	}
	return m
}

func (m *Mock) Read(b Block, offset uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs[b][offset]
}

func (m *Mock) Write(b Block, offset uint32, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regs[b][offset] = val
	m.journal = append(m.journal, WriteRecord{b, offset, val})
	if m.OnWrite != nil {
		m.OnWrite(b, offset, val, m.poke)
	}
}

func (m *Mock) poke(b Block, offset uint32, val uint32) {
	m.regs[b][offset] = val
}

// Poke sets a register without journaling, for test setup.
func (m *Mock) Poke(b Block, offset uint32, val uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.poke(b, offset, val)
}

// Writes returns a copy of the write journal.
func (m *Mock) Writes() []WriteRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]WriteRecord, len(m.journal))
	copy(out, m.journal)
	return out
}

// ResetJournal clears the write journal but keeps register contents.
func (m *Mock) ResetJournal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.journal = nil
}
