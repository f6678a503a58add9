package mmu

import (
	"math"
	"math/bits"
)

/*
Guest-visible load/store entry points, one per width, routed through the
dispatcher core. Reads observe the memory watch after the access, writes
before; that keeps watch values accurate in both directions.
*/

// ReadU8 performs a guest byte load at addr.
func (m *Mmu) ReadU8(addr uint32) uint8 {
	v := uint8(m.readFromHardware(flagRead, addr, 1, false))
	m.memcheck(addr, uint32(v), false, 1)
	return v
}

// ReadU16 performs a guest halfword load at addr.
func (m *Mmu) ReadU16(addr uint32) uint16 {
	v := uint16(m.readFromHardware(flagRead, addr, 2, false))
	m.memcheck(addr, uint32(v), false, 2)
	return v
}

// ReadU32 performs a guest word load at addr.
func (m *Mmu) ReadU32(addr uint32) uint32 {
	v := uint32(m.readFromHardware(flagRead, addr, 4, false))
	m.memcheck(addr, v, false, 4)
	return v
}

// ReadU64 performs a guest doubleword load at addr.
func (m *Mmu) ReadU64(addr uint32) uint64 {
	v := m.readFromHardware(flagRead, addr, 8, false)
	m.memcheck(addr, uint32(v), false, 8)
	return v
}

// ReadF32 loads a word and reinterprets the bit pattern.
func (m *Mmu) ReadF32(addr uint32) float32 {
	return math.Float32frombits(m.ReadU32(addr))
}

// ReadF64 loads a doubleword and reinterprets the bit pattern.
func (m *Mmu) ReadF64(addr uint32) float64 {
	return math.Float64frombits(m.ReadU64(addr))
}

// ReadU8ZX zero-extends a byte load to a word.
func (m *Mmu) ReadU8ZX(addr uint32) uint32 {
	return uint32(m.ReadU8(addr))
}

// ReadU16ZX zero-extends a halfword load to a word.
func (m *Mmu) ReadU16ZX(addr uint32) uint32 {
	return uint32(m.ReadU16(addr))
}

// WriteU8 performs a guest byte store at addr.
func (m *Mmu) WriteU8(v uint8, addr uint32) {
	m.memcheck(addr, uint32(v), true, 1)
	m.writeToHardware(flagWrite, addr, 1, uint64(v), false)
}

// WriteU16 performs a guest halfword store at addr.
func (m *Mmu) WriteU16(v uint16, addr uint32) {
	m.memcheck(addr, uint32(v), true, 2)
	m.writeToHardware(flagWrite, addr, 2, uint64(v), false)
}

// WriteU16Swap stores a byte-reversed halfword (the sthbrx path).
func (m *Mmu) WriteU16Swap(v uint16, addr uint32) {
	m.memcheck(addr, uint32(v), true, 2)
	m.WriteU16(bits.ReverseBytes16(v), addr)
}

// WriteU32 performs a guest word store at addr.
func (m *Mmu) WriteU32(v uint32, addr uint32) {
	m.memcheck(addr, v, true, 4)
	m.writeToHardware(flagWrite, addr, 4, uint64(v), false)
}

// WriteU32Swap stores a byte-reversed word (the stwbrx path).
func (m *Mmu) WriteU32Swap(v uint32, addr uint32) {
	m.memcheck(addr, v, true, 4)
	m.WriteU32(bits.ReverseBytes32(v), addr)
}

// WriteU64 performs a guest doubleword store at addr.
func (m *Mmu) WriteU64(v uint64, addr uint32) {
	m.memcheck(addr, uint32(v), true, 8)
	m.writeToHardware(flagWrite, addr, 8, v, false)
}

// WriteU64Swap stores a byte-reversed doubleword.
func (m *Mmu) WriteU64Swap(v uint64, addr uint32) {
	m.memcheck(addr, uint32(v), true, 8)
	m.WriteU64(bits.ReverseBytes64(v), addr)
}

// WriteF64 stores a float bit pattern as a doubleword.
func (m *Mmu) WriteF64(v float64, addr uint32) {
	m.WriteU64(math.Float64bits(v), addr)
}
