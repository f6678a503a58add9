package mmu

import (
	"encoding/binary"

	"github.com/jetsetilly/gopher2600/logger"

	"gekko/ppc"
)

/*
The translation policy engine. BAT and TLB are looked up in parallel by
the hardware but the BAT wins whenever it matches, so here the BAT table
is consulted first and the page machinery only runs on a BAT miss.

PTEs live in guest physical memory in guest byte order. The probe loop
decodes each guest PTE1 word from big-endian and compares it against a
native search template, the equivalent of comparing an encoded template
against the raw guest bytes.
*/

// PTE word 1 fields
const (
	pte1V = 1 << 31
	pte1H = 1 << 6
)

// PTE word 2 fields
const (
	pte2R = 1 << 8
	pte2C = 1 << 7
)

func pte2RPN(v uint32) uint32 { return v >> 12 }

// effective address pieces
func eaOffset(v uint32) uint32    { return v & 0xFFF }
func eaPageIndex(v uint32) uint32 { return (v >> 12) & 0xFFFF }
func eaAPI(v uint32) uint32       { return (v >> 22) & 0x3F }

// SDRUpdated derives the page table base and hash mask from SDR1. Bad
// mask or base bits leave the previous values in place, which is what the
// hardware's "undefined" clause degenerates to here.
func (m *Mmu) SDRUpdated() {
	sdr := m.ppc.SPR[ppc.SprSDR]
	htabmask := sdr & 0x1FF

	x := uint32(1)
	xx := uint32(0)
	for n := 0; htabmask&x != 0 && n < 9; n++ {
		xx |= x
		x <<= 1
	}
	if htabmask & ^xx != 0 {
		return
	}

	htaborg := sdr >> 16
	if htaborg&xx != 0 {
		return
	}
	m.ppc.PagetableBase = htaborg << 16
	m.ppc.PagetableHashmask = (xx << 10) | 0x3FF
}

// pageTableBytes returns the raw guest bytes at a physical page table
// address, or nil when the page table points outside backed memory.
func (m *Mmu) pageTableBytes(addr uint32) []byte {
	b := m.mem.Pointer(addr)
	if b == nil || len(b) < 8 {
		return nil
	}
	return b
}

// translatePageAddress runs the TLB and, on a miss, the two-pass hashed
// page table walk, updating R/C bits and the TLB along the way.
func (m *Mmu) translatePageAddress(addr uint32, flag accessFlag) translateResult {
	// the TLB catches practically everything, the walk below is the
	// slow path
	paddr, res := m.lookupTLBPageAddress(flag, addr)
	if res == tlbFound {
		return translateResult{pageTableTranslated, paddr}
	}

	sr := m.ppc.SR[addr>>28]

	if sr.T() {
		return translateResult{directStoreSegment, 0}
	}

	// no-execute segment
	if flag.opcode() && sr.N() {
		return translateResult{translatePageFault, 0}
	}

	offset := eaOffset(addr)
	pageIndex := eaPageIndex(addr)
	vsid := sr.VSID()
	api := eaAPI(addr)

	// primary hash is vsid xor page index; the secondary pass uses its
	// complement and looks for the H bit in PTE1
	hash := vsid ^ pageIndex
	pte1 := (vsid << 7) | api | pte1V

	for hashFunc := 0; hashFunc < 2; hashFunc++ {
		if hashFunc == 1 {
			hash = ^hash
			pte1 |= pte1H
		}

		ptegAddr := ((hash & m.ppc.PagetableHashmask) << 6) | m.ppc.PagetableBase

		for i := 0; i < 8; i, ptegAddr = i+1, ptegAddr+8 {
			raw := m.pageTableBytes(ptegAddr)
			if raw == nil {
				logger.Logf("mmu", "page table walk outside backed memory @ 0x%08x", ptegAddr)
				break
			}
			if pte1 != binary.BigEndian.Uint32(raw) {
				continue
			}

			pte2 := binary.BigEndian.Uint32(raw[4:])

			// set the access bits
			switch flag {
			case flagNoException, flagOpcodeNoException:
			case flagRead, flagOpcode:
				pte2 |= pte2R
			case flagWrite:
				pte2 |= pte2R | pte2C
			}

			if !flag.noException() {
				binary.BigEndian.PutUint32(raw[4:], pte2)
			}

			// the C-bit hit already refreshed the TLB entry
			if res != tlbUpdateC {
				m.updateTLBEntry(flag, pte2, addr)
			}

			return translateResult{pageTableTranslated, pte2RPN(pte2)<<12 | offset}
		}
	}
	return translateResult{translatePageFault, 0}
}

// translateAddress resolves an effective address, BAT first.
func (m *Mmu) translateAddress(addr uint32, flag accessFlag) translateResult {
	table := &m.dbat
	if flag == flagOpcode {
		table = &m.ibat
	}
	entry := table[addr>>BATIndexShift]
	if entry&batValid != 0 {
		return translateResult{batTranslated, (entry &^ 0x3) | (addr & batBlockMask)}
	}
	return m.translatePageAddress(addr, flag)
}
