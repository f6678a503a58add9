package mmu

import (
	"gekko/gpfifo"
	"gekko/memmap"
	"gekko/mmio"
	"gekko/ppc"
	"gekko/video"
)

/*
Effective-to-physical address translation and memory access for the
emulated CPU. Every guest load, store and instruction fetch comes through
here: block translation first, then the segment registers and the hashed
page table in guest memory, then region routing to RAM, EXRAM, the locked
L1, MMIO, the framebuffer window or the gather pipe.

All state lives in the Mmu struct; there are no package globals. The whole
thing runs on the CPU emulation thread and takes no locks.
*/

// Config selects the console variant behaviours the MMU cares about.
type Config struct {
	// FullMMU - synthesise guest DSIs on data translation failure. With
	// this off a failing translation is an emulator bug and is logged
	// loudly instead.
	FullMMU bool

	// FakeVMEM - back [0x7E000000, 0x80000000) with a host allocation and
	// seed the BAT tables with the synthetic 0x4 and 0x7 segment mappings
	FakeVMEM bool

	// ExtendedBATs - console variant carries BAT4-7, gated on HID4.SBE
	ExtendedBATs bool
}

// CPUControl is what the dispatcher needs from the CPU loop when a memory
// watch fires.
type CPUControl interface {
	IsStepping() bool
	Break()
}

// JITCache is notified when cached fast paths become stale. BAT rebuilds
// invalidate any compiled unchecked access.
type JITCache interface {
	ClearSafe()
}

// InstructionCache supplies opcode words for translated fetch addresses.
type InstructionCache interface {
	ReadInstruction(addr uint32) uint32
}

// Mmu is the translation and access context. One per emulated machine.
type Mmu struct {
	cfg Config

	ppc   *ppc.State
	mem   *memmap.Memory
	mmio  *mmio.Mapping
	fifo  *gpfifo.FIFO
	video video.Backend

	cpu    CPUControl
	jit    JITCache
	icache InstructionCache

	ibat batTable
	dbat batTable

	// tlb[0] is the data TLB, tlb[1] the instruction TLB
	tlb [2]tlbCache

	// Watch - the debugger's memory checks, observed on every
	// guest-visible access
	Watch MemChecks
}

// New wires up an Mmu. Any of cpu, jit, icache and vid may be nil; nil
// collaborators get no-op defaults.
func New(cfg Config, state *ppc.State, mem *memmap.Memory, iomap *mmio.Mapping,
	fifo *gpfifo.FIFO, vid video.Backend, cpu CPUControl, jit JITCache,
	icache InstructionCache) *Mmu {

	m := new(Mmu)
	m.cfg = cfg
	m.ppc = state
	m.mem = mem
	m.mmio = iomap
	m.fifo = fifo
	m.video = vid
	m.cpu = cpu
	m.jit = jit
	m.icache = icache

	if m.video == nil {
		m.video = video.Null{}
	}
	if m.cpu == nil {
		m.cpu = nopCPU{}
	}
	if m.jit == nil {
		m.jit = nopJIT{}
	}
	if m.icache == nil {
		m.icache = passthroughICache{m}
	}
	m.invalidateTLBs()
	return m
}

type nopCPU struct{}

func (nopCPU) IsStepping() bool { return false }
func (nopCPU) Break()           {}

type nopJIT struct{}

func (nopJIT) ClearSafe() {}

// passthroughICache reads instruction words straight from physical memory.
// A real core substitutes its icache here.
type passthroughICache struct {
	m *Mmu
}

func (c passthroughICache) ReadInstruction(addr uint32) uint32 {
	return uint32(c.m.readFromHardware(flagOpcodeNoException, addr, 4, true))
}

// accessFlag is the access kind the translator specialises on. It picks
// the BAT/TLB pair, decides whether R/C bits are set, and whether a miss
// raises a guest exception.
type accessFlag int

const (
	flagNoException accessFlag = iota
	flagRead
	flagWrite
	flagOpcode
	flagOpcodeNoException
)

func (f accessFlag) opcode() bool {
	return f == flagOpcode || f == flagOpcodeNoException
}

func (f accessFlag) noException() bool {
	return f == flagNoException || f == flagOpcodeNoException
}

// translation outcomes. A result at or below pageTableTranslated carries a
// physical address.
type translateKind int

const (
	batTranslated translateKind = iota
	pageTableTranslated
	directStoreSegment
	translatePageFault
)

type translateResult struct {
	kind    translateKind
	address uint32
}

func (r translateResult) success() bool {
	return r.kind <= pageTableTranslated
}

// TranslateResult is the JIT-facing translation outcome.
type TranslateResult struct {
	Valid   bool
	FromBAT bool
	Address uint32
}

// TryReadInstResult is a fetched opcode, or Valid=false when the fetch
// address does not translate.
type TryReadInstResult struct {
	Valid   bool
	FromBAT bool
	Hex     uint32
}
