package mmu

import (
	"github.com/jetsetilly/gopher2600/logger"

	"gekko/ppc"
)

/*
Guest exception synthesis. Faults here are data, not control flow: the
exception mask bit goes up, DAR/DSISR describe the access, and the
dispatcher returns a zero or drops the store. The CPU loop services the
mask on its next boundary.
*/

// generateDSIException records a data storage interrupt for the faulting
// effective address. Without full MMU emulation a failing translation
// means an emulator bug, not guest behaviour, so it is logged instead.
func (m *Mmu) generateDSIException(ea uint32, write bool) {
	if !m.cfg.FullMMU {
		dir := "read from"
		if write {
			dir = "write to"
		}
		logger.Logf("mmu", "invalid %s 0x%08x, PC = 0x%08x", dir, ea, m.ppc.PC)
		return
	}

	if write && ea != 0 {
		m.ppc.SPR[ppc.SprDSISR] = ppc.DSISRPage | ppc.DSISRStore
	} else {
		m.ppc.SPR[ppc.SprDSISR] = ppc.DSISRPage
	}
	m.ppc.SPR[ppc.SprDAR] = ea

	m.ppc.Exceptions |= ppc.ExceptionDSI
}

// generateISIException records an instruction storage interrupt for a
// fetch address that could not be translated.
func (m *Mmu) generateISIException(ea uint32) {
	m.ppc.NPC = ea
	m.ppc.Exceptions |= ppc.ExceptionISI
	logger.Logf("mmu", "ISI exception at 0x%08x", m.ppc.PC)
}
