package mmu

import (
	"github.com/jetsetilly/gopher2600/logger"

	"gekko/memmap"
	"gekko/video"
)

/*
The access dispatcher: width-generic read and write cores that translate
(when MSR enables it), split accesses that straddle a page, route the
physical address to its region and land in the byte-order primitive or a
device callback. Faults become guest exceptions before the routing ever
runs; routing failures are host bugs and stay loud.
*/

func sizeMask(size uint32) uint64 {
	if size == 8 {
		return ^uint64(0)
	}
	return 1<<(8*size) - 1
}

// efbRead decodes an EFB window address into pixel coordinates and asks
// the video backend. Combined Z+Colour access has unknown semantics and
// is only logged.
func (m *Mmu) efbRead(addr uint32) uint32 {
	x := (addr & 0xFFF) >> 2
	y := (addr >> 12) & 0x3FF

	switch {
	case addr&0x00800000 != 0:
		logger.Logf("mmu", "unimplemented Z+Color EFB read @ 0x%08x", addr)
		return 0
	case addr&0x00400000 != 0:
		return m.video.AccessEFB(video.PeekZ, x, y, 0)
	}
	return m.video.AccessEFB(video.PeekColor, x, y, 0)
}

func (m *Mmu) efbWrite(data, addr uint32) {
	x := (addr & 0xFFF) >> 2
	y := (addr >> 12) & 0x3FF

	switch {
	case addr&0x00800000 != 0:
		// possibly a z-tested colour write; semantics unknown
		logger.Logf("mmu", "unimplemented Z+Color EFB write 0x%08x @ 0x%08x", data, addr)
	case addr&0x00400000 != 0:
		m.video.AccessEFB(video.PokeZ, x, y, data)
	default:
		m.video.AccessEFB(video.PokeColor, x, y, data)
	}
}

func (m *Mmu) mmioRead(addr, size uint32) uint64 {
	switch size {
	case 1:
		return uint64(m.mmio.Read8(addr))
	case 2:
		return uint64(m.mmio.Read16(addr))
	case 4:
		return uint64(m.mmio.Read32(addr))
	}
	// 64 bit device access is two word reads
	hi := uint64(m.mmio.Read32(addr))
	lo := uint64(m.mmio.Read32(addr + 4))
	return hi<<32 | lo
}

func (m *Mmu) mmioWrite(addr, size uint32, data uint64) {
	switch size {
	case 1:
		m.mmio.Write8(addr, uint8(data))
	case 2:
		m.mmio.Write16(addr, uint16(data))
	case 4:
		m.mmio.Write32(addr, uint32(data))
	default:
		m.mmio.Write32(addr, uint32(data>>32))
		m.mmio.Write32(addr+4, uint32(data))
	}
}

// readFromHardware is the read core. size is 1, 2, 4 or 8;
// neverTranslate is set on the single-byte legs of a cross-page access,
// which arrive already physical.
func (m *Mmu) readFromHardware(flag accessFlag, emAddress, size uint32, neverTranslate bool) uint64 {
	if !neverTranslate && m.ppc.MSR.DR() {
		translated := m.translateAddress(emAddress, flag)
		if !translated.success() {
			if flag == flagRead {
				m.generateDSIException(emAddress, false)
			}
			return 0
		}
		if emAddress&(pageSize-1) > pageSize-size {
			// straddles a page; translate the second page on its own and
			// compose the value byte by byte
			nextPage := (emAddress + size - 1) &^ (pageSize - 1)
			translatedNext := m.translateAddress(nextPage, flag)
			if !translatedNext.success() {
				if flag == flagRead {
					m.generateDSIException(nextPage, false)
				}
				return 0
			}
			var v uint64
			pa := translated.address
			for addr := emAddress; addr < emAddress+size; addr++ {
				if addr == nextPage {
					pa = translatedNext.address
				}
				v = v<<8 | m.readFromHardware(flag, pa, 1, true)
				pa++
			}
			return v
		}
		emAddress = translated.address
	}

	// locked L1 doesn't have an architectural address, but every title
	// maps it at 0xE0000000
	if emAddress>>28 == 0xE && emAddress < 0xE0000000+memmap.L1Size {
		return memmap.ReadBE(m.mem.L1, emAddress&0x0FFFFFFF, size)
	}

	if m.mem.FakeVMEMEnabled() && memmap.InFakeVMEM(emAddress) {
		return memmap.ReadBE(m.mem.FakeVMEM, emAddress&memmap.FakeVMEMMask, size)
	}

	if flag == flagRead && emAddress&0xF8000000 == 0x08000000 {
		if emAddress < 0x0C000000 {
			return uint64(m.efbRead(emAddress)) & sizeMask(size)
		}
		return m.mmioRead(emAddress, size)
	}

	if emAddress&0xF8000000 == 0x00000000 {
		// the mask intentionally discards bits, mirroring main RAM
		return memmap.ReadBE(m.mem.RAM, emAddress&memmap.RAMMask, size)
	}

	if m.mem.EXRAM != nil && emAddress>>28 == 0x1 &&
		emAddress&0x0FFFFFFF < memmap.ExRAMSize {
		return memmap.ReadBE(m.mem.EXRAM, emAddress&0x0FFFFFFF, size)
	}

	logger.Logf("mmu", "unable to resolve read address 0x%08x pc 0x%08x", emAddress, m.ppc.PC)
	return 0
}

// writeToHardware is the write core, mirroring readFromHardware with the
// gather pipe checked ahead of the device windows.
func (m *Mmu) writeToHardware(flag accessFlag, emAddress, size uint32, data uint64, neverTranslate bool) {
	if !neverTranslate && m.ppc.MSR.DR() {
		translated := m.translateAddress(emAddress, flag)
		if !translated.success() {
			if flag == flagWrite {
				m.generateDSIException(emAddress, true)
			}
			return
		}
		if emAddress&(size-1) != 0 && emAddress&(pageSize-1) > pageSize-size {
			nextPage := (emAddress + size - 1) &^ (pageSize - 1)
			translatedNext := m.translateAddress(nextPage, flag)
			if !translatedNext.success() {
				if flag == flagWrite {
					m.generateDSIException(nextPage, true)
				}
				return
			}
			val := data << (64 - 8*size)
			pa := translated.address
			for addr := emAddress; addr < emAddress+size; addr++ {
				if addr == nextPage {
					pa = translatedNext.address
				}
				m.writeToHardware(flag, pa, 1, val>>56, true)
				val <<= 8
				pa++
			}
			return
		}
		emAddress = translated.address
	}

	if emAddress>>28 == 0xE && emAddress < 0xE0000000+memmap.L1Size {
		memmap.WriteBE(m.mem.L1, emAddress&0x0FFFFFFF, size, data)
		return
	}

	if m.mem.FakeVMEMEnabled() && memmap.InFakeVMEM(emAddress) {
		memmap.WriteBE(m.mem.FakeVMEM, emAddress&memmap.FakeVMEMMask, size, data)
		return
	}

	// the gather pipe window masks the low bits; titles rely on the
	// mirror writes landing in the pipe
	if flag == flagWrite && emAddress&0xFFFFF000 == gatherPipeWindow {
		switch size {
		case 1:
			m.fifo.Write8(uint8(data))
		case 2:
			m.fifo.Write16(uint16(data))
		case 4:
			m.fifo.Write32(uint32(data))
		case 8:
			m.fifo.Write64(data)
		}
		return
	}

	if flag == flagWrite && emAddress&0xF8000000 == 0x08000000 {
		if emAddress < 0x0C000000 {
			m.efbWrite(uint32(data), emAddress)
			return
		}
		m.mmioWrite(emAddress, size, data)
		return
	}

	if emAddress&0xF8000000 == 0x00000000 {
		memmap.WriteBE(m.mem.RAM, emAddress&memmap.RAMMask, size, data)
		return
	}

	if m.mem.EXRAM != nil && emAddress>>28 == 0x1 &&
		emAddress&0x0FFFFFFF < memmap.ExRAMSize {
		memmap.WriteBE(m.mem.EXRAM, emAddress&0x0FFFFFFF, size, data)
		return
	}

	logger.Logf("mmu", "unable to resolve write address 0x%08x pc 0x%08x", emAddress, m.ppc.PC)
}

// gatherPipeWindow - the masked gather pipe write window
const gatherPipeWindow = 0x0C008000
