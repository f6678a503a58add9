package system

import (
	"gekko/gpfifo"
	"gekko/memmap"
	"gekko/mmio"
	"gekko/mmu"
	"gekko/ppc"
	"gekko/video"
)

/*
Construction and wiring of the emulated memory subsystem: the backing
stores, the CPU state block, the device registry, the gather pipe and the
MMU itself. The interpreter/JIT and the real device emulators hang off
the System the host builds here.
*/

// Config selects the emulated machine.
type Config struct {
	// Extended - the later console variant: EXRAM present, BAT4-7
	// available behind HID4.SBE
	Extended bool

	// FullMMU - emulate page translation faults as guest DSIs
	FullMMU bool

	// FakeVMEM - back the synthetic VMEM window; used when FullMMU is
	// off and the title expects mapped memory outside the BATs
	FakeVMEM bool
}

// System owns the wired memory subsystem.
type System struct {
	Config Config

	PPC   *ppc.State
	Mem   *memmap.Memory
	MMIO  *mmio.Mapping
	Fifo  *gpfifo.FIFO
	Video video.Backend
	MMU   *mmu.Mmu
}

// discardSink eats gather pipe bursts when no command processor is
// attached.
type discardSink struct{}

func (discardSink) Burst(data []byte) {}

// New builds a System. vid, sink, cpu and jit may be nil.
func New(cfg Config, vid video.Backend, sink gpfifo.Sink,
	cpu mmu.CPUControl, jit mmu.JITCache) *System {

	sys := new(System)
	sys.Config = cfg
	sys.PPC = new(ppc.State)
	sys.Mem = memmap.New(cfg.Extended, cfg.FakeVMEM)
	sys.MMIO = mmio.New()
	if sink == nil {
		sink = discardSink{}
	}
	sys.Fifo = gpfifo.New(sink)
	if vid == nil {
		vid = video.Null{}
	}
	sys.Video = vid

	sys.MMU = mmu.New(mmu.Config{
		FullMMU:      cfg.FullMMU,
		FakeVMEM:     cfg.FakeVMEM,
		ExtendedBATs: cfg.Extended,
	}, sys.PPC, sys.Mem, sys.MMIO, sys.Fifo, sys.Video, cpu, jit, nil)

	sys.MMU.DBATUpdated()
	sys.MMU.IBATUpdated()
	return sys
}

// AfterLoad re-derives everything a save state does not carry. BAT tables
// and TLBs are caches over the SPR file and guest memory; a restore loads
// the SPRs and backing stores, then calls this.
func (sys *System) AfterLoad() {
	sys.MMU.SDRUpdated()
	sys.MMU.DBATUpdated()
	sys.MMU.IBATUpdated()
}
