package mmu

/*
Software TLBs: one for instruction fetches, one for data, each direct
mapped by virtual page number with two ways per set and a single
recently-used bit. This catches nearly every lookup in practice, so the
page walk behind it sees almost no traffic.
*/

const (
	// pageShift - hardware page size is 4 KiB
	pageShift = 12
	pageSize  = 1 << pageShift

	tlbWays      = 2
	tlbSets      = 64
	tlbIndexMask = tlbSets - 1

	// tlbTagInvalid can never collide with a real tag: tags are page
	// numbers and fit in 20 bits
	tlbTagInvalid = 0xFFFFFFFF
)

type tlbEntry struct {
	tag    [tlbWays]uint32
	paddr  [tlbWays]uint32
	pte    [tlbWays]uint32
	recent uint8
}

type tlbCache [tlbSets]tlbEntry

type tlbLookupResult int

const (
	tlbFound tlbLookupResult = iota
	tlbNotFound
	tlbUpdateC
)

func (m *Mmu) tlbFor(flag accessFlag) *tlbCache {
	if flag.opcode() {
		return &m.tlb[1]
	}
	return &m.tlb[0]
}

// lookupTLBPageAddress probes the set for vpa's page. On a hit the
// physical address comes back combined with the page offset. A write hit
// whose cached PTE has the C bit clear sets it and reports tlbUpdateC so
// the page walker knows to update guest memory without re-inserting.
func (m *Mmu) lookupTLBPageAddress(flag accessFlag, vpa uint32) (uint32, tlbLookupResult) {
	tag := vpa >> pageShift
	tlbe := &m.tlbFor(flag)[tag&tlbIndexMask]

	for way := 0; way < tlbWays; way++ {
		if tlbe.tag[way] != tag {
			continue
		}

		if flag == flagWrite && tlbe.pte[way]&pte2C == 0 {
			tlbe.pte[way] |= pte2C
			return 0, tlbUpdateC
		}

		if !flag.noException() {
			tlbe.recent = uint8(way)
		}
		return tlbe.paddr[way] | (vpa & (pageSize - 1)), tlbFound
	}
	return 0, tlbNotFound
}

// updateTLBEntry inserts a freshly walked translation. No-exception probes
// never disturb the cache. Victim choice: way 0 while it is still empty,
// after that the way the recent bit does not name.
func (m *Mmu) updateTLBEntry(flag accessFlag, pte2, address uint32) {
	if flag.noException() {
		return
	}
	tag := address >> pageShift
	tlbe := &m.tlbFor(flag)[tag&tlbIndexMask]

	way := 0
	if tlbe.recent == 0 && tlbe.tag[0] != tlbTagInvalid {
		way = 1
	}
	tlbe.recent = uint8(way)
	tlbe.paddr[way] = pte2RPN(pte2) << pageShift
	tlbe.pte[way] = pte2
	tlbe.tag[way] = tag
}

// InvalidateTLBEntry drops the data and instruction sets covering addr.
// This is the tlbie path; a full flush is the context switcher's business.
func (m *Mmu) InvalidateTLBEntry(addr uint32) {
	set := (addr >> pageShift) & tlbIndexMask
	for i := range m.tlb {
		tlbe := &m.tlb[i][set]
		tlbe.tag[0] = tlbTagInvalid
		tlbe.tag[1] = tlbTagInvalid
	}
}

func (m *Mmu) invalidateTLBs() {
	for i := range m.tlb {
		for s := range m.tlb[i] {
			m.tlb[i][s].tag[0] = tlbTagInvalid
			m.tlb[i][s].tag[1] = tlbTagInvalid
		}
	}
}
