package mmu

import (
	"testing"

	"gekko/ppc"
	"gekko/video"
)

func TestClearCacheLine(t *testing.T) {
	f := newFixture(Config{FullMMU: true})
	f.mapDBAT(0, 0x80000000, 0x00000000, 0)
	f.state.MSR.SetDR(true)

	for i := 0; i < 0x60; i++ {
		f.mem.RAM[i] = 0xFF
	}

	f.m.ClearCacheLine(0x80000020)

	for i := 0x20; i < 0x40; i++ {
		if f.mem.RAM[i] != 0 {
			t.Fatalf("RAM[0x%02x] = 0x%02x, want 0", i, f.mem.RAM[i])
		}
	}
	// neighbours untouched
	if f.mem.RAM[0x1F] != 0xFF || f.mem.RAM[0x40] != 0xFF {
		t.Error("dcbz spilled outside its line")
	}
}

func TestClearCacheLineAligns(t *testing.T) {
	f := newFixture(Config{FullMMU: true})
	f.mapDBAT(0, 0x80000000, 0x00000000, 0)
	f.state.MSR.SetDR(true)

	for i := 0x20; i < 0x40; i++ {
		f.mem.RAM[i] = 0xFF
	}
	f.m.ClearCacheLine(0x8000003C)
	for i := 0x20; i < 0x40; i++ {
		if f.mem.RAM[i] != 0 {
			t.Fatalf("unaligned dcbz missed RAM[0x%02x]", i)
		}
	}
}

func TestClearCacheLineDirectStoreIgnored(t *testing.T) {
	f := newFixture(Config{FullMMU: true})
	f.mapDBAT(0, 0x80000000, 0x00000000, 0)
	f.state.SR[8] = 0x80000000 // direct-store segment at 0x8xxxxxxx
	f.state.MSR.SetDR(true)

	// beyond the single BAT block, so the segment register decides
	f.m.ClearCacheLine(0x81000000)

	if f.state.Exceptions != 0 {
		t.Errorf("direct-store dcbz raised 0x%08x", f.state.Exceptions)
	}
}

func TestClearCacheLinePageFault(t *testing.T) {
	f := newFixture(Config{FullMMU: true})
	f.state.MSR.SetDR(true)

	f.m.ClearCacheLine(0x10000000)
	if f.state.Exceptions&ppc.ExceptionDSI == 0 {
		t.Error("dcbz on an unmapped page raised no DSI")
	}
}

func TestDMAToMemory(t *testing.T) {
	f := newFixture(Config{FullMMU: true})

	for i := 0; i < 64; i++ {
		f.mem.L1[0x100+i] = byte(i)
	}
	f.m.DMAToMemory(0x00005000, 0x100, 2)

	for i := 0; i < 64; i++ {
		if f.mem.RAM[0x5000+i] != byte(i) {
			t.Fatalf("RAM[0x%04x] = 0x%02x, want 0x%02x", 0x5000+i, f.mem.RAM[0x5000+i], byte(i))
		}
	}
}

func TestDMAFromMemory(t *testing.T) {
	f := newFixture(Config{FullMMU: true})

	for i := 0; i < 32; i++ {
		f.mem.RAM[0x6000+i] = byte(0x80 + i)
	}
	f.m.DMAFromMemory(0x200, 0x00006000, 1)

	for i := 0; i < 32; i++ {
		if f.mem.L1[0x200+i] != byte(0x80+i) {
			t.Fatalf("L1[0x%04x] = 0x%02x, want 0x%02x", 0x200+i, f.mem.L1[0x200+i], byte(0x80+i))
		}
	}
}

func TestDMAToEFBGoesThroughBackend(t *testing.T) {
	f := newFixture(Config{FullMMU: true})

	f.mem.L1[0] = 0x12
	f.mem.L1[1] = 0x34
	f.mem.L1[2] = 0x56
	f.mem.L1[3] = 0x78
	f.m.DMAToMemory(0x08000000, 0, 1)

	if f.vid.calls != 8 {
		t.Errorf("backend calls = %d, want 8 word pokes", f.vid.calls)
	}
	if f.vid.kind != video.PokeColor {
		t.Errorf("last access kind = %v, want PokeColor", f.vid.kind)
	}
}

func TestDMAToMMIOGoesThroughHandlers(t *testing.T) {
	f := newFixture(Config{FullMMU: true})

	var words []uint32
	for i := uint32(0); i < 8; i++ {
		f.iomap.RegisterWrite32(0x0C004000+i*4, func(addr uint32, v uint32) {
			words = append(words, v)
		})
	}
	f.mem.L1[0] = 0xAB
	f.m.DMAToMemory(0x0C004000, 0, 1)

	if len(words) != 8 {
		t.Fatalf("MMIO words = %d, want 8", len(words))
	}
	if words[0] != 0xAB000000 {
		t.Errorf("first word = 0x%08x, want 0xAB000000", words[0])
	}
}
