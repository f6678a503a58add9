package mmu

import (
	"github.com/jetsetilly/gopher2600/logger"

	"gekko/ppc"
)

/*
Memory watch: the debugger's side observer on every guest-visible access.
A hit that wants a pause borrows the DSI machinery so the instruction is
abandoned exactly like a real fault, with an auxiliary bit telling the
exception handler the DSI is synthetic.
*/

// MemCheck watches an address range.
type MemCheck struct {
	Start uint32
	End   uint32

	OnRead  bool
	OnWrite bool

	// Log the access, Break into the debugger, or both
	Log   bool
	Break bool

	NumHits int
}

// action reports whether the CPU should pause for this hit.
func (mc *MemCheck) action(value, addr uint32, write bool, size int, pc uint32) bool {
	if mc.Log {
		dir := "read"
		if write {
			dir = "write"
		}
		logger.Logf("mmu", "watch: %s %d bytes value 0x%08x @ 0x%08x pc 0x%08x",
			dir, size, value, addr, pc)
	}
	return mc.Break
}

// MemChecks is the set of active watches.
type MemChecks struct {
	checks []MemCheck
}

// HasAny reports whether any watch is active. The JIT refuses fastmem
// paths while this holds.
func (w *MemChecks) HasAny() bool {
	return len(w.checks) > 0
}

// Add installs a watch.
func (w *MemChecks) Add(mc MemCheck) {
	w.checks = append(w.checks, mc)
}

// Get returns the watch covering addr, or nil.
func (w *MemChecks) Get(addr uint32) *MemCheck {
	for i := range w.checks {
		mc := &w.checks[i]
		if addr >= mc.Start && addr <= mc.End {
			return mc
		}
	}
	return nil
}

// Clear removes every watch.
func (w *MemChecks) Clear() {
	w.checks = nil
}

// memcheck runs the watch facility against one access. Disabled while the
// CPU is stepping so that resume works.
func (m *Mmu) memcheck(addr, value uint32, write bool, size int) {
	if !m.Watch.HasAny() {
		return
	}
	mc := m.Watch.Get(addr)
	if mc == nil {
		return
	}
	if write && !mc.OnWrite || !write && !mc.OnRead {
		return
	}
	if m.cpu.IsStepping() {
		return
	}
	mc.NumHits++
	if mc.action(value, addr, write, size, m.ppc.PC) {
		m.cpu.Break()
		// fake a DSI so the in-flight instruction is abandoned before
		// the load/store, and mark it as watch-forced
		m.ppc.Exceptions |= ppc.ExceptionDSI | ppc.ExceptionFakeMemcheckHit
	}
}
