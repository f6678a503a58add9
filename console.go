package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jroimartin/gocui"

	"gekko/console"
	"gekko/mmu"
	"gekko/ppc"
	"gekko/system"
)

/*
The monitor command interpreter. Commands drive the guest accessors (so
faults behave exactly as they would under the interpreter) and the host
accessors for non-intrusive inspection. Output goes through the console
sink, so the same interpreter works against the gocui front end and the
plain stdout fallback.
*/

// Monitor executes prompt commands against a wired system.
type Monitor struct {
	sys *system.System
	out console.Console
}

// NewMonitor returns a monitor writing results to out.
func NewMonitor(sys *system.System, out console.Console) *Monitor {
	return &Monitor{sys: sys, out: out}
}

// handleCommand is bound to Enter on the command view.
func (mon *Monitor) handleCommand(g *gocui.Gui, v *gocui.View) error {
	line := strings.TrimSpace(v.Buffer())
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	if line == "quit" {
		return gocui.ErrQuit
	}
	return mon.out.WriteConsole(fmt.Sprintf("> %s\n%s", line, mon.Exec(line)))
}

// Exec runs one command line and returns its printable result.
func (mon *Monitor) Exec(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		return helpText

	case "r8", "r16", "r32", "r64":
		return mon.read(cmd, args)

	case "w8", "w16", "w32", "w64":
		return mon.write(cmd, args)

	case "dump":
		return mon.hexdump(args)

	case "xlate":
		return mon.xlate(args)

	case "dr", "ir":
		return mon.msrBit(cmd, args)

	case "spr":
		return mon.spr(args)

	case "sr":
		return mon.segment(args)

	case "bat":
		return mon.sys.MMU.DumpBATs()

	case "tlb":
		return mon.sys.MMU.DumpTLBs()

	case "dma":
		return mon.dma(args)

	case "watch":
		return mon.watch(args)

	case "unwatch":
		mon.sys.MMU.Watch.Clear()
		return "watches cleared\n"

	case "exc":
		st := mon.sys.PPC
		return fmt.Sprintf("exceptions 0x%08x DAR 0x%08x DSISR 0x%08x\n",
			st.Exceptions, st.SPR[ppc.SprDAR], st.SPR[ppc.SprDSISR])

	case "clearexc":
		mon.sys.PPC.Exceptions = 0
		return "exception mask cleared\n"

	case "fill":
		return mon.fill(args)

	case "dcbz":
		addr, err := parseVal(args, 0)
		if err != nil {
			return err.Error() + "\n"
		}
		mon.sys.MMU.ClearCacheLine(uint32(addr))
		return "ok\n"

	case "state":
		return spew.Sdump(mon.sys.Config) +
			spew.Sdump(mon.sys.PPC.MSR) +
			spew.Sdump(mon.sys.PPC.SR)
	}
	return "unknown command; 'help' lists commands\n"
}

const helpText = `r8|r16|r32|r64 <ea>         guest read
w8|w16|w32|w64 <ea> <val>   guest write
dump <ea> [len]             host hex dump
xlate <ea>                  translate a fetch address
dr|ir on|off                toggle MSR translation bits
spr <num> <val>             write an SPR (BAT/SDR rebuild implied)
sr <idx> <val>              write a segment register
bat                         dump the BAT tables
tlb                         dump the TLB contents
dma <tomem|tolc> <memaddr> <cacheaddr> <blocks>
watch <start> <end> <r|w|rw> [break]
unwatch                     drop all watches
exc / clearexc              show / clear the exception state
fill <ea> <len> <byte>      host fill
dcbz <ea>                   clear a cache line
state                       machine state dump
quit
`

func parseVal(args []string, i int) (uint64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing argument")
	}
	v, err := strconv.ParseUint(args[i], 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad value %q", args[i])
	}
	return v, nil
}

func (mon *Monitor) read(cmd string, args []string) string {
	addr, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	m := mon.sys.MMU
	ea := uint32(addr)
	switch cmd {
	case "r8":
		return fmt.Sprintf("0x%02x\n", m.ReadU8(ea))
	case "r16":
		return fmt.Sprintf("0x%04x\n", m.ReadU16(ea))
	case "r32":
		return fmt.Sprintf("0x%08x\n", m.ReadU32(ea))
	}
	return fmt.Sprintf("0x%016x\n", m.ReadU64(ea))
}

func (mon *Monitor) write(cmd string, args []string) string {
	addr, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	val, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	m := mon.sys.MMU
	ea := uint32(addr)
	switch cmd {
	case "w8":
		m.WriteU8(uint8(val), ea)
	case "w16":
		m.WriteU16(uint16(val), ea)
	case "w32":
		m.WriteU32(uint32(val), ea)
	default:
		m.WriteU64(val, ea)
	}
	return "ok\n"
}

func (mon *Monitor) hexdump(args []string) string {
	addr, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	length := uint64(64)
	if len(args) > 1 {
		if length, err = parseVal(args, 1); err != nil {
			return err.Error() + "\n"
		}
	}

	var sb strings.Builder
	m := mon.sys.MMU
	for row := uint64(0); row < length; row += 16 {
		sb.WriteString(fmt.Sprintf("%08x ", addr+row))
		for col := uint64(0); col < 16 && row+col < length; col++ {
			sb.WriteString(fmt.Sprintf(" %02x", m.HostReadU8(uint32(addr+row+col))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (mon *Monitor) xlate(args []string) string {
	addr, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	res := mon.sys.MMU.JitCacheTranslateAddress(uint32(addr))
	if !res.Valid {
		return "fault\n"
	}
	src := "page table"
	if res.FromBAT {
		src = "BAT"
	}
	return fmt.Sprintf("0x%08x (%s)\n", res.Address, src)
}

func (mon *Monitor) msrBit(cmd string, args []string) string {
	if len(args) != 1 || args[0] != "on" && args[0] != "off" {
		return "usage: dr|ir on|off\n"
	}
	on := args[0] == "on"
	if cmd == "dr" {
		mon.sys.PPC.MSR.SetDR(on)
	} else {
		mon.sys.PPC.MSR.SetIR(on)
	}
	return fmt.Sprintf("MSR 0x%08x\n", mon.sys.PPC.MSR.Get())
}

func (mon *Monitor) spr(args []string) string {
	num, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	val, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	if num >= 1024 {
		return "bad SPR number\n"
	}
	mon.sys.PPC.SPR[num] = uint32(val)

	// derived state follows the SPR file
	m := mon.sys.MMU
	switch {
	case num == ppc.SprSDR:
		m.SDRUpdated()
	case num >= ppc.SprIBAT0U && num < ppc.SprIBAT0U+8,
		num >= ppc.SprIBAT4U && num < ppc.SprIBAT4U+8:
		m.IBATUpdated()
	case num >= ppc.SprDBAT0U && num < ppc.SprDBAT0U+8,
		num >= ppc.SprDBAT4U && num < ppc.SprDBAT4U+8:
		m.DBATUpdated()
	}
	return "ok\n"
}

func (mon *Monitor) segment(args []string) string {
	idx, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	val, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	if idx >= 16 {
		return "bad segment register index\n"
	}
	mon.sys.PPC.SR[idx] = ppc.SegmentRegister(val)
	return "ok\n"
}

func (mon *Monitor) dma(args []string) string {
	if len(args) != 4 {
		return "usage: dma <tomem|tolc> <memaddr> <cacheaddr> <blocks>\n"
	}
	memAddr, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	cacheAddr, err := parseVal(args, 2)
	if err != nil {
		return err.Error() + "\n"
	}
	blocks, err := parseVal(args, 3)
	if err != nil {
		return err.Error() + "\n"
	}

	switch args[0] {
	case "tomem":
		mon.sys.MMU.DMAToMemory(uint32(memAddr), uint32(cacheAddr), uint32(blocks))
	case "tolc":
		mon.sys.MMU.DMAFromMemory(uint32(cacheAddr), uint32(memAddr), uint32(blocks))
	default:
		return "usage: dma <tomem|tolc> <memaddr> <cacheaddr> <blocks>\n"
	}
	return "ok\n"
}

func (mon *Monitor) watch(args []string) string {
	if len(args) < 3 {
		return "usage: watch <start> <end> <r|w|rw> [break]\n"
	}
	start, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	end, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	mc := mmu.MemCheck{
		Start:   uint32(start),
		End:     uint32(end),
		OnRead:  strings.Contains(args[2], "r"),
		OnWrite: strings.Contains(args[2], "w"),
		Log:     true,
		Break:   len(args) > 3 && args[3] == "break",
	}
	mon.sys.MMU.Watch.Add(mc)
	return "watch installed\n"
}

func (mon *Monitor) fill(args []string) string {
	addr, err := parseVal(args, 0)
	if err != nil {
		return err.Error() + "\n"
	}
	length, err := parseVal(args, 1)
	if err != nil {
		return err.Error() + "\n"
	}
	val, err := parseVal(args, 2)
	if err != nil {
		return err.Error() + "\n"
	}
	for i := uint64(0); i < length; i++ {
		mon.sys.MMU.HostWriteU8(uint8(val), uint32(addr+i))
	}
	return "ok\n"
}

// dumpMachineState writes the two-line machine summary into the state view.
func dumpMachineState(sys *system.System, v *gocui.View) {
	st := sys.PPC
	fmt.Fprintf(v, "MSR 0x%08x DR=%v IR=%v  EXC 0x%08x\n",
		st.MSR.Get(), st.MSR.DR(), st.MSR.IR(), st.Exceptions)
	fmt.Fprintf(v, "DAR 0x%08x DSISR 0x%08x SDR 0x%08x pt base 0x%08x mask 0x%08x",
		st.SPR[ppc.SprDAR], st.SPR[ppc.SprDSISR], st.SPR[ppc.SprSDR],
		st.PagetableBase, st.PagetableHashmask)
}
