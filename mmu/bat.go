package mmu

import (
	"math/bits"

	"github.com/jetsetilly/gopher2600/logger"

	"gekko/memmap"
	"gekko/ppc"
)

/*
Block address translation. The four (or eight) BATU/BATL register pairs
are flattened into a lookup table with one entry per 128 KiB block of
effective address space. Each entry packs the translated physical base
with two hint bits in the low end, so the interpreter pays one load per
lookup and the JIT's fastmem test is a single bit check.
*/

// BATIndexShift - log2 of the block size covered by one table entry
const BATIndexShift = 17

// batBlockMask - offset bits within one block
const batBlockMask = (1 << BATIndexShift) - 1

const (
	// entry is populated
	batValid = 0x1

	// physical target is backed by a contiguous host mapping and safe
	// for unchecked fastmem access; implies batValid
	batFast = 0x2
)

type batTable [1 << (32 - BATIndexShift)]uint32

// BAT upper register fields
func batuBEPI(v uint32) uint32 { return v >> 17 }
func batuBL(v uint32) uint32   { return (v >> 2) & 0x7FF }
func batuVS(v uint32) bool     { return v&2 != 0 }
func batuVP(v uint32) bool     { return v&1 != 0 }

// BAT lower register fields
func batlBRPN(v uint32) uint32 { return v >> 17 }

// fastmemBits returns the valid bits for a physical block base: 0x3 when
// the target region has contiguous host backing, 0x1 otherwise.
func (m *Mmu) fastmemBits(addr uint32) uint32 {
	switch {
	case m.mem.FakeVMEMEnabled() && memmap.InFakeVMEM(addr):
		return batValid | batFast
	case addr < memmap.RealRAMSize:
		return batValid | batFast
	case m.mem.EXRAM != nil && addr>>28 == 0x1 && addr&0x0FFFFFFF < memmap.ExRAMSize:
		return batValid | batFast
	case addr>>28 == 0xE && addr < 0xE0000000+memmap.L1Size:
		return batValid | batFast
	}
	return batValid
}

// updateBATs populates table from the four register pairs starting at
// baseSPR. Misconfigured BATs are logged and handled best effort: matching
// is (addr & ~BL) == BEPI, translation is (BRPN | offset bits).
func (m *Mmu) updateBATs(table *batTable, baseSPR int) {
	for i := 0; i < 4; i++ {
		batu := m.ppc.SPR[baseSPR+i*2]
		batl := m.ppc.SPR[baseSPR+i*2+1]
		if !batuVS(batu) && !batuVP(batu) {
			continue
		}

		bepi := batuBEPI(batu)
		bl := batuBL(batu)
		brpn := batlBRPN(batl)

		if bepi&bl != 0 {
			// matching is (addr & ~BL) == BEPI, so these blocks can never
			// hit; skip them the way the hardware appears to
			logger.Logf("mmu", "bad BAT setup: BEPI overlaps BL")
			continue
		}
		if brpn&bl != 0 {
			logger.Logf("mmu", "bad BAT setup: BRPN overlaps BL")
		}
		if bits.OnesCount32(bl+1) != 1 {
			logger.Logf("mmu", "bad BAT setup: invalid mask in BL")
		}

		// enumerate every offset pattern that fits in the mask
		for j := uint32(0); j <= bl; j++ {
			if j&bl != j {
				continue
			}
			address := (brpn | j) << BATIndexShift
			table[bepi|j] = address | m.fastmemBits(address)
		}
	}
}

// updateFakeMMUBat maps a 256 MiB effective range onto the fake-VMEM
// window. Every entry is fastmem-capable.
func (m *Mmu) updateFakeMMUBat(table *batTable, startAddr uint32) {
	for i := uint32(0); i < 0x10000000>>BATIndexShift; i++ {
		eAddress := i + startAddr>>BATIndexShift
		pAddress := (0x7E000000 | (i << BATIndexShift & memmap.FakeVMEMMask)) |
			batValid | batFast
		table[eAddress] = pAddress
	}
}

func (m *Mmu) extendedBATs() bool {
	return m.cfg.ExtendedBATs && m.ppc.HID4()&ppc.HID4SBE != 0
}

// DBATUpdated rebuilds the data BAT table. Must be called after any DBAT
// register write and after a save-state restore.
func (m *Mmu) DBATUpdated() {
	m.dbat = batTable{}
	m.updateBATs(&m.dbat, ppc.SprDBAT0U)
	if m.extendedBATs() {
		m.updateBATs(&m.dbat, ppc.SprDBAT4U)
	}
	if m.mem.FakeVMEMEnabled() {
		m.updateFakeMMUBat(&m.dbat, 0x40000000)
		m.updateFakeMMUBat(&m.dbat, 0x70000000)
	}

	// the optimizable-address predicates and dcbz depend on this table
	m.jit.ClearSafe()
}

// IBATUpdated rebuilds the instruction BAT table.
func (m *Mmu) IBATUpdated() {
	m.ibat = batTable{}
	m.updateBATs(&m.ibat, ppc.SprIBAT0U)
	if m.extendedBATs() {
		m.updateBATs(&m.ibat, ppc.SprIBAT4U)
	}
	if m.mem.FakeVMEMEnabled() {
		m.updateFakeMMUBat(&m.ibat, 0x40000000)
		m.updateFakeMMUBat(&m.ibat, 0x70000000)
	}
	m.jit.ClearSafe()
}

// translateBatAddress rewrites *addr through the table. Reports false when
// no valid entry covers it.
func translateBatAddress(table *batTable, addr *uint32) bool {
	entry := table[*addr>>BATIndexShift]
	if entry&batValid == 0 {
		return false
	}
	*addr = (entry &^ 0x3) | (*addr & batBlockMask)
	return true
}
