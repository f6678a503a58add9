package mmu

import (
	"gekko/memmap"
)

/*
Locked-L1 DMA and the cache-line clear. The DMA engine moves 32 byte
blocks between the scratchpad and physical memory; when the far side is a
device window the transfer goes a word at a time through the handlers,
otherwise it is a straight byte copy.
*/

const l1Mask = memmap.L1Size - 1

// DMAToMemory transfers 32*numBlocks bytes from the locked L1 scratchpad
// to physical memory at memAddr.
func (m *Mmu) DMAToMemory(memAddr, cacheAddr, numBlocks uint32) {
	if memAddr&0x0F000000 == 0x08000000 {
		for i := uint32(0); i < 32*numBlocks; i += 4 {
			data := uint32(memmap.ReadBE(m.mem.L1, (cacheAddr+i)&l1Mask, 4))
			m.efbWrite(data, memAddr+i)
		}
		return
	}

	// no known title DMAs into the device window; here for completeness
	if memAddr&0x0F000000 == 0x0C000000 {
		for i := uint32(0); i < 32*numBlocks; i += 4 {
			data := uint32(memmap.ReadBE(m.mem.L1, (cacheAddr+i)&l1Mask, 4))
			m.mmio.Write32(memAddr+i, data)
		}
		return
	}

	dst := m.mem.Pointer(memAddr)
	if dst == nil {
		return
	}
	copy(dst[:32*numBlocks], m.mem.L1[cacheAddr&l1Mask:])
}

// DMAFromMemory transfers 32*numBlocks bytes from physical memory at
// memAddr into the locked L1 scratchpad.
func (m *Mmu) DMAFromMemory(cacheAddr, memAddr, numBlocks uint32) {
	if memAddr&0x0F000000 == 0x08000000 {
		for i := uint32(0); i < 32*numBlocks; i += 4 {
			data := m.efbRead(memAddr + i)
			memmap.WriteBE(m.mem.L1, (cacheAddr+i)&l1Mask, 4, uint64(data))
		}
		return
	}

	if memAddr&0x0F000000 == 0x0C000000 {
		for i := uint32(0); i < 32*numBlocks; i += 4 {
			data := m.mmio.Read32(memAddr + i)
			memmap.WriteBE(m.mem.L1, (cacheAddr+i)&l1Mask, 4, uint64(data))
		}
		return
	}

	src := m.mem.Pointer(memAddr)
	if src == nil {
		return
	}
	copy(m.mem.L1[cacheAddr&l1Mask:], src[:32*numBlocks])
}

// ClearCacheLine implements dcbz: zeroes the aligned 32 byte line at
// addr. A line in a direct-store segment is silently skipped; a page
// fault raises a DSI before anything is written.
func (m *Mmu) ClearCacheLine(addr uint32) {
	addr &^= 0x1F

	if m.ppc.MSR.DR() {
		translated := m.translateAddress(addr, flagWrite)
		if translated.kind == directStoreSegment {
			return
		}
		if translated.kind == translatePageFault {
			m.generateDSIException(addr, true)
			return
		}
		addr = translated.address
	}

	// not precisely right for device regions, but the difference is
	// unlikely to matter
	for i := uint32(0); i < 32; i += 8 {
		m.writeToHardware(flagWrite, addr+i, 8, 0, true)
	}
}
