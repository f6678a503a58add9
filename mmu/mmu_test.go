package mmu

import (
	"encoding/binary"

	"gekko/gpfifo"
	"gekko/memmap"
	"gekko/mmio"
	"gekko/ppc"
	"gekko/video"
)

// shared test doubles and fixture construction

type recordSink struct {
	bursts [][]byte
}

func (s *recordSink) Burst(data []byte) {
	s.bursts = append(s.bursts, append([]byte(nil), data...))
}

type fakeVideo struct {
	kind   video.EFBAccess
	x, y   uint32
	data   uint32
	result uint32
	calls  int
}

func (v *fakeVideo) AccessEFB(kind video.EFBAccess, x, y, data uint32) uint32 {
	v.kind, v.x, v.y, v.data = kind, x, y, data
	v.calls++
	return v.result
}

type fakeCPU struct {
	stepping bool
	breaks   int
}

func (c *fakeCPU) IsStepping() bool { return c.stepping }
func (c *fakeCPU) Break()           { c.breaks++ }

type countingJIT struct {
	clears int
}

func (j *countingJIT) ClearSafe() { j.clears++ }

type fixture struct {
	m     *Mmu
	state *ppc.State
	mem   *memmap.Memory
	iomap *mmio.Mapping
	sink  *recordSink
	fifo  *gpfifo.FIFO
	vid   *fakeVideo
	cpu   *fakeCPU
	jit   *countingJIT
}

func newFixture(cfg Config) *fixture {
	f := new(fixture)
	f.state = new(ppc.State)
	f.mem = memmap.New(false, cfg.FakeVMEM)
	f.iomap = mmio.New()
	f.sink = new(recordSink)
	f.fifo = gpfifo.New(f.sink)
	f.vid = new(fakeVideo)
	f.cpu = new(fakeCPU)
	f.jit = new(countingJIT)
	f.m = New(cfg, f.state, f.mem, f.iomap, f.fifo, f.vid, f.cpu, f.jit, nil)
	return f
}

// batu encodes an upper BAT register with both valid bits set
func batu(bepi, bl uint32) uint32 {
	return bepi<<17 | bl<<2 | 3
}

func batl(brpn uint32) uint32 {
	return brpn << 17
}

// mapBAT installs one DBAT pair and rebuilds
func (f *fixture) mapDBAT(i int, effective, physical, bl uint32) {
	f.state.SPR[ppc.SprDBAT0U+i*2] = batu(effective>>17, bl)
	f.state.SPR[ppc.SprDBAT0U+i*2+1] = batl(physical >> 17)
	f.m.DBATUpdated()
}

func (f *fixture) mapIBAT(i int, effective, physical, bl uint32) {
	f.state.SPR[ppc.SprIBAT0U+i*2] = batu(effective>>17, bl)
	f.state.SPR[ppc.SprIBAT0U+i*2+1] = batl(physical >> 17)
	f.m.IBATUpdated()
}

const testPagetableBase = 0x00100000

// usePagetable points SDR1 at a hash table in main RAM
func (f *fixture) usePagetable() {
	f.state.SPR[ppc.SprSDR] = testPagetableBase & 0xFFFF0000
	f.m.SDRUpdated()
}

// installPTE writes a page table entry mapping the 4 KiB page of ea to
// the page of physical, into slot of the primary PTEG. Returns the
// address of the PTE for inspection.
func (f *fixture) installPTE(ea, physical uint32, slot int) uint32 {
	sr := f.state.SR[ea>>28]
	vsid := sr.VSID()
	pageIndex := eaPageIndex(ea)
	hash := vsid ^ pageIndex

	ptegAddr := ((hash & f.state.PagetableHashmask) << 6) | f.state.PagetableBase
	pteAddr := ptegAddr + uint32(slot)*8

	pte1 := (vsid << 7) | eaAPI(ea) | pte1V
	pte2 := physical & 0xFFFFF000
	binary.BigEndian.PutUint32(f.mem.RAM[pteAddr:], pte1)
	binary.BigEndian.PutUint32(f.mem.RAM[pteAddr+4:], pte2)
	return pteAddr
}

func (f *fixture) pte2At(pteAddr uint32) uint32 {
	return binary.BigEndian.Uint32(f.mem.RAM[pteAddr+4:])
}
