package mmio

import (
	"github.com/jetsetilly/gopher2600/logger"
)

/*
Memory-mapped I/O registry. Device emulators register per-width read and
write handlers for their registers; the access dispatcher looks handlers up
by physical address. Unhandled accesses are logged and read as zero, which
keeps guests limping along while the gap is visible in the log.
*/

// Mapping holds the registered device handlers, keyed by physical address.
type Mapping struct {
	read8   map[uint32]func(addr uint32) uint8
	read16  map[uint32]func(addr uint32) uint16
	read32  map[uint32]func(addr uint32) uint32
	write8  map[uint32]func(addr uint32, v uint8)
	write16 map[uint32]func(addr uint32, v uint16)
	write32 map[uint32]func(addr uint32, v uint32)
}

// New returns an empty MMIO mapping.
func New() *Mapping {
	return &Mapping{
		read8:   make(map[uint32]func(uint32) uint8),
		read16:  make(map[uint32]func(uint32) uint16),
		read32:  make(map[uint32]func(uint32) uint32),
		write8:  make(map[uint32]func(uint32, uint8)),
		write16: make(map[uint32]func(uint32, uint16)),
		write32: make(map[uint32]func(uint32, uint32)),
	}
}

// RegisterRead8 attaches a byte read handler at addr.
func (m *Mapping) RegisterRead8(addr uint32, fn func(uint32) uint8) {
	m.read8[addr] = fn
}

func (m *Mapping) RegisterRead16(addr uint32, fn func(uint32) uint16) {
	m.read16[addr] = fn
}

func (m *Mapping) RegisterRead32(addr uint32, fn func(uint32) uint32) {
	m.read32[addr] = fn
}

// RegisterWrite8 attaches a byte write handler at addr.
func (m *Mapping) RegisterWrite8(addr uint32, fn func(uint32, uint8)) {
	m.write8[addr] = fn
}

func (m *Mapping) RegisterWrite16(addr uint32, fn func(uint32, uint16)) {
	m.write16[addr] = fn
}

func (m *Mapping) RegisterWrite32(addr uint32, fn func(uint32, uint32)) {
	m.write32[addr] = fn
}

// Read8 dispatches a byte read to the registered handler.
func (m *Mapping) Read8(addr uint32) uint8 {
	if fn, ok := m.read8[addr]; ok {
		return fn(addr)
	}
	logger.Logf("mmio", "unhandled 8 bit read @ 0x%08x", addr)
	return 0
}

func (m *Mapping) Read16(addr uint32) uint16 {
	if fn, ok := m.read16[addr]; ok {
		return fn(addr)
	}
	logger.Logf("mmio", "unhandled 16 bit read @ 0x%08x", addr)
	return 0
}

func (m *Mapping) Read32(addr uint32) uint32 {
	if fn, ok := m.read32[addr]; ok {
		return fn(addr)
	}
	logger.Logf("mmio", "unhandled 32 bit read @ 0x%08x", addr)
	return 0
}

// Write8 dispatches a byte write to the registered handler.
func (m *Mapping) Write8(addr uint32, v uint8) {
	if fn, ok := m.write8[addr]; ok {
		fn(addr, v)
		return
	}
	logger.Logf("mmio", "unhandled 8 bit write 0x%02x @ 0x%08x", v, addr)
}

func (m *Mapping) Write16(addr uint32, v uint16) {
	if fn, ok := m.write16[addr]; ok {
		fn(addr, v)
		return
	}
	logger.Logf("mmio", "unhandled 16 bit write 0x%04x @ 0x%08x", v, addr)
}

func (m *Mapping) Write32(addr uint32, v uint32) {
	if fn, ok := m.write32[addr]; ok {
		fn(addr, v)
		return
	}
	logger.Logf("mmio", "unhandled 32 bit write 0x%08x @ 0x%08x", v, addr)
}

// IsMMIOAddress reports whether any handler is registered at addr. The JIT
// uses this to decide whether an access can be compiled as a direct
// device-register call.
func (m *Mapping) IsMMIOAddress(addr uint32) bool {
	if _, ok := m.read32[addr]; ok {
		return true
	}
	if _, ok := m.write32[addr]; ok {
		return true
	}
	if _, ok := m.read16[addr]; ok {
		return true
	}
	if _, ok := m.write16[addr]; ok {
		return true
	}
	if _, ok := m.read8[addr]; ok {
		return true
	}
	if _, ok := m.write8[addr]; ok {
		return true
	}
	return false
}
