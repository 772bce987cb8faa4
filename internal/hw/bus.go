// Package hw provides the register access layer for the HDMI output block.
// It defines the Bus interface and the real and mock implementations used by
// the encoder core.
package hw

// Block identifies one of the memory-mapped register islands of the HDMI
// peripheral. The older hardware generation exposes only the core and HD
// blocks; the newer one splits the peripheral into several small islands.
type Block int

const (
	BlockCore Block = iota // HDMI core (scheduler, packet config, timings)
	BlockHD                // "HD" block (video control, MAI audio, CSC on gen4)
	BlockCEC               // CEC engine
	BlockCSC               // colour-space converter (gen5 only)
	BlockDVP               // display video port glue (gen5 only)
	BlockPHY               // PHY control (gen5 only)
	BlockRAM               // packet RAM
	BlockRM                // rate manager (gen5 only)

	NumBlocks
)

var blockNames = [NumBlocks]string{"core", "hd", "cec", "csc", "dvp", "phy", "packet", "rm"}

func (b Block) String() string {
	if b < 0 || b >= NumBlocks {
		return "invalid"
	}
	return blockNames[b]
}

// Window describes the physical location of a register block.
type Window struct {
	Base uint64 // physical base address
	Size uint32 // window size in bytes
}

// Bus is the 32-bit register access interface. All addressing goes through a
// (block, offset) pair resolved from the variant's field table; call sites
// never hard-code physical addresses.
//
// Read and Write do not return errors: once a bus is open, MMIO access cannot
// fail. Implementations must be safe for concurrent use.
type Bus interface {
	Read(b Block, offset uint32) uint32
	Write(b Block, offset uint32, val uint32)
}
