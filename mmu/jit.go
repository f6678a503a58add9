package mmu

import (
	"gekko/gpfifo"
	"gekko/memmap"
)

/*
Queries the JIT asks at compile time to decide between a checked call
back into the dispatcher and an unchecked fastmem path. All of them are
conservative: any active memory watch or disabled translation vetoes the
fast path.
*/

// IsOptimizableRAMAddress reports whether a load/store at addr can be
// compiled as an unchecked fastmem access.
func (m *Mmu) IsOptimizableRAMAddress(addr uint32) bool {
	if m.Watch.HasAny() {
		return false
	}
	if !m.ppc.MSR.DR() {
		return false
	}

	// whether an access is optimizable is stored alongside validity in
	// the BAT entry; one load, one bit test
	return m.dbat[addr>>BATIndexShift]&batFast != 0
}

// IsOptimizableMMIOAccess returns the physical device register address
// when an access of accessSize bits at addr can be compiled as a direct
// handler call, and 0 otherwise.
func (m *Mmu) IsOptimizableMMIOAccess(addr, accessSize uint32) uint32 {
	if m.Watch.HasAny() {
		return 0
	}
	if !m.ppc.MSR.DR() {
		return 0
	}

	// only BAT mappings qualify; optimizing TLB mappings would force a
	// JIT cache clear on every TLB invalidation
	if !translateBatAddress(&m.dbat, &addr) {
		return 0
	}

	if addr&(accessSize>>3-1) != 0 || !m.mmio.IsMMIOAddress(addr) {
		return 0
	}
	return addr
}

// IsOptimizableGatherPipeWrite reports whether a store at addr always
// lands on the gather pipe write port.
func (m *Mmu) IsOptimizableGatherPipeWrite(addr uint32) bool {
	if m.Watch.HasAny() {
		return false
	}
	if !m.ppc.MSR.DR() {
		return false
	}

	if !translateBatAddress(&m.dbat, &addr) {
		return false
	}
	return addr == gpfifo.PipeAddress
}

// JitCacheTranslateAddress resolves a fetch address at JIT compile time.
func (m *Mmu) JitCacheTranslateAddress(addr uint32) TranslateResult {
	if !m.ppc.MSR.IR() {
		return TranslateResult{Valid: true, FromBAT: true, Address: addr}
	}

	translated := m.translateAddress(addr, flagOpcode)
	if !translated.success() {
		return TranslateResult{}
	}
	return TranslateResult{
		Valid:   true,
		FromBAT: translated.kind == batTranslated,
		Address: translated.address,
	}
}

// TryReadInstruction fetches the opcode at addr, translating when MSR.IR
// is up. Valid is false when the fetch address does not translate.
func (m *Mmu) TryReadInstruction(addr uint32) TryReadInstResult {
	fromBAT := true
	if m.ppc.MSR.IR() {
		translated := m.translateAddress(addr, flagOpcode)
		if !translated.success() {
			return TryReadInstResult{}
		}
		fromBAT = translated.kind == batTranslated
		addr = translated.address
	}

	var hex uint32
	if m.mem.FakeVMEMEnabled() && memmap.InFakeVMEM(addr) {
		// the icache holds nothing useful for fake-VMEM fetches
		hex = uint32(memmap.ReadBE(m.mem.FakeVMEM, addr&memmap.FakeVMEMMask, 4))
	} else {
		hex = m.icache.ReadInstruction(addr)
	}
	return TryReadInstResult{Valid: true, FromBAT: fromBAT, Hex: hex}
}

// ReadOpcode fetches the opcode at addr, raising an ISI when the address
// does not translate.
func (m *Mmu) ReadOpcode(addr uint32) uint32 {
	result := m.TryReadInstruction(addr)
	if !result.Valid {
		m.generateISIException(addr)
		return 0
	}
	return result.Hex
}
