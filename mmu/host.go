package mmu

import (
	"strings"

	"gekko/memmap"
)

/*
Host-side accessors, used by the debugger and the instruction decoder to
look at guest memory without disturbing it: no exceptions, no R/C bit
updates, no memory watch.
*/

// HostReadU8 reads a guest byte without guest-visible side effects.
func (m *Mmu) HostReadU8(addr uint32) uint8 {
	return uint8(m.readFromHardware(flagNoException, addr, 1, false))
}

func (m *Mmu) HostReadU16(addr uint32) uint16 {
	return uint16(m.readFromHardware(flagNoException, addr, 2, false))
}

func (m *Mmu) HostReadU32(addr uint32) uint32 {
	return uint32(m.readFromHardware(flagNoException, addr, 4, false))
}

func (m *Mmu) HostReadU64(addr uint32) uint64 {
	return m.readFromHardware(flagNoException, addr, 8, false)
}

// HostWriteU8 writes a guest byte without guest-visible side effects.
func (m *Mmu) HostWriteU8(v uint8, addr uint32) {
	m.writeToHardware(flagNoException, addr, 1, uint64(v), false)
}

func (m *Mmu) HostWriteU16(v uint16, addr uint32) {
	m.writeToHardware(flagNoException, addr, 2, uint64(v), false)
}

func (m *Mmu) HostWriteU32(v uint32, addr uint32) {
	m.writeToHardware(flagNoException, addr, 4, uint64(v), false)
}

func (m *Mmu) HostWriteU64(v uint64, addr uint32) {
	m.writeToHardware(flagNoException, addr, 8, v, false)
}

// HostReadInstruction fetches an opcode word for the decoder, through the
// data path so no ISI can result.
func (m *Mmu) HostReadInstruction(addr uint32) uint32 {
	return m.HostReadU32(addr)
}

// HostIsRAMAddress reports whether addr resolves (translating if the
// guest currently would) to backed RAM, EXRAM, fake-VMEM or locked L1.
func (m *Mmu) HostIsRAMAddress(addr uint32) bool {
	if m.ppc.MSR.DR() {
		translated := m.translateAddress(addr, flagNoException)
		if !translated.success() {
			return false
		}
		addr = translated.address
	}

	switch {
	case addr>>28 == 0x0 && addr&0x0FFFFFFF < memmap.RealRAMSize:
		return true
	case m.mem.EXRAM != nil && addr>>28 == 0x1 && addr&0x0FFFFFFF < memmap.ExRAMSize:
		return true
	case m.mem.FakeVMEMEnabled() && memmap.InFakeVMEM(addr):
		return true
	case addr>>28 == 0xE && addr < 0xE0000000+memmap.L1Size:
		return true
	}
	return false
}

// HostGetString fetches a NUL-terminated string, stopping early after
// size bytes when size is non-zero or at the first unbacked address.
func (m *Mmu) HostGetString(addr uint32, size int) string {
	var sb strings.Builder
	for {
		if !m.HostIsRAMAddress(addr) {
			break
		}
		c := m.HostReadU8(addr)
		if c == 0 {
			break
		}
		sb.WriteByte(c)
		addr++
		if size != 0 && sb.Len() >= size {
			break
		}
	}
	return sb.String()
}
