//go:build linux

package hw

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const memDevPath = "/dev/mem"

// MemBus is the real register driver. It maps each register island from
// /dev/mem and performs aligned 32-bit accesses, the MMIO equivalent of the
// kernel's readl/writel.
type MemBus struct {
	mu      sync.Mutex
	fd      int
	regions [NumBlocks][]byte
}

// OpenMem maps the given register windows from /dev/mem. Blocks absent from
// the map are left unmapped; accessing one is a variant-table bug and panics.
func OpenMem(windows map[Block]Window) (*MemBus, error) {
	fd, err := unix.Open(memDevPath, unix.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, fmt.Errorf("hw: open %s: %w", memDevPath, err)
	}

	b := &MemBus{fd: fd}
	for blk, w := range windows {
		mem, err := unix.Mmap(fd, int64(w.Base), int(w.Size),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("hw: mmap %s block at %#x: %w", blk, w.Base, err)
		}
		b.regions[blk] = mem
		slog.Debug("hw: mapped register block", "block", blk.String(), "base", fmt.Sprintf("%#x", w.Base), "size", w.Size)
	}
	return b, nil
}

func (b *MemBus) word(blk Block, offset uint32) *uint32 {
	region := b.regions[blk]
	if region == nil {
		panic(fmt.Sprintf("hw: access to unmapped register block %s", blk))
	}
	if offset+4 > uint32(len(region)) || offset%4 != 0 {
		panic(fmt.Sprintf("hw: bad register offset %#x in block %s", offset, blk))
	}
	return (*uint32)(unsafe.Pointer(&region[offset]))
}

func (b *MemBus) Read(blk Block, offset uint32) uint32 {
	return atomic.LoadUint32(b.word(blk, offset))
}

func (b *MemBus) Write(blk Block, offset uint32, val uint32) {
	atomic.StoreUint32(b.word(blk, offset), val)
}

// Close unmaps all register windows and releases the /dev/mem descriptor.
func (b *MemBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, region := range b.regions {
		if region != nil {
			_ = unix.Munmap(region)
			b.regions[i] = nil
		}
	}
	if b.fd >= 0 {
		unix.Close(b.fd)
		b.fd = -1
	}
}
