package mmu

import (
	"fmt"
	"strings"
)

/*
Human-readable state dumps for the monitor. The BAT tables are rendered
as coalesced ranges rather than 32k raw entries; the TLB dump lists only
the valid ways.
*/

// DumpBATs renders the valid ranges of both BAT tables.
func (m *Mmu) DumpBATs() string {
	var sb strings.Builder
	sb.WriteString("DBAT:\n")
	dumpBatTable(&sb, &m.dbat)
	sb.WriteString("IBAT:\n")
	dumpBatTable(&sb, &m.ibat)
	return sb.String()
}

// dumpBatTable coalesces runs of entries whose physical blocks are
// contiguous and share the fast bit.
func dumpBatTable(sb *strings.Builder, table *batTable) {
	ranges := 0
	for i := 0; i < len(table); {
		entry := table[i]
		if entry&batValid == 0 {
			i++
			continue
		}

		start := i
		physBase := entry &^ 0x3
		fast := entry&batFast != 0
		for i < len(table) {
			e := table[i]
			if e&batValid == 0 || (e&batFast != 0) != fast {
				break
			}
			if e&^0x3 != physBase+uint32(i-start)<<BATIndexShift {
				break
			}
			i++
		}

		effEnd := uint32(i)<<BATIndexShift - 1
		fmt.Fprintf(sb, "  0x%08x-0x%08x -> 0x%08x fast=%v\n",
			uint32(start)<<BATIndexShift, effEnd, physBase, fast)
		ranges++
	}
	if ranges == 0 {
		sb.WriteString("  (no valid entries)\n")
	}
}

// DumpTLBs lists the valid ways of the data and instruction TLBs.
func (m *Mmu) DumpTLBs() string {
	var sb strings.Builder
	names := [2]string{"data", "instruction"}
	for t := range m.tlb {
		fmt.Fprintf(&sb, "%s TLB:\n", names[t])
		valid := 0
		for set := range m.tlb[t] {
			e := &m.tlb[t][set]
			for way := 0; way < tlbWays; way++ {
				if e.tag[way] == tlbTagInvalid {
					continue
				}
				fmt.Fprintf(&sb, "  set %2d way %d: tag 0x%05x paddr 0x%08x pte 0x%08x recent=%d\n",
					set, way, e.tag[way], e.paddr[way], e.pte[way], e.recent)
				valid++
			}
		}
		if valid == 0 {
			sb.WriteString("  (empty)\n")
		}
	}
	return sb.String()
}
