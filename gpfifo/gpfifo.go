package gpfifo

import "encoding/binary"

/*
The gather pipe: a write-only FIFO at physical 0x0C008000 that funnels
command words to the graphics processor. Writes accumulate in a small
buffer and drain to the sink in 32 byte bursts, the way the hardware
write-gathers a cache line at a time.
*/

const (
	// BurstSize - the hardware drains one cache line at a time
	BurstSize = 32

	// bufferSize leaves room for a full burst plus a trailing unaligned write
	bufferSize = 128

	// PipeAddress - the physical address of the write pipe
	PipeAddress = 0x0C008000
)

// Sink receives drained bursts. The real sink is the video command
// processor; tests substitute a recorder.
type Sink interface {
	Burst(data []byte)
}

// FIFO implements the gather pipe.
type FIFO struct {
	buf   [bufferSize]byte
	count int
	sink  Sink
}

// New returns a gather pipe draining to sink.
func New(sink Sink) *FIFO {
	return &FIFO{sink: sink}
}

// Write8 pushes one byte into the pipe.
func (f *FIFO) Write8(v uint8) {
	f.buf[f.count] = v
	f.count++
	f.check()
}

// Write16 pushes a halfword in guest byte order.
func (f *FIFO) Write16(v uint16) {
	binary.BigEndian.PutUint16(f.buf[f.count:], v)
	f.count += 2
	f.check()
}

// Write32 pushes a word in guest byte order.
func (f *FIFO) Write32(v uint32) {
	binary.BigEndian.PutUint32(f.buf[f.count:], v)
	f.count += 4
	f.check()
}

// Write64 pushes a doubleword in guest byte order.
func (f *FIFO) Write64(v uint64) {
	binary.BigEndian.PutUint64(f.buf[f.count:], v)
	f.count += 8
	f.check()
}

func (f *FIFO) check() {
	for f.count >= BurstSize {
		f.sink.Burst(f.buf[:BurstSize])
		copy(f.buf[:], f.buf[BurstSize:f.count])
		f.count -= BurstSize
	}
}

// Flush drains a partial burst. The hardware only ever bursts full cache
// lines; this exists for orderly shutdown and tests.
func (f *FIFO) Flush() {
	if f.count > 0 {
		f.sink.Burst(f.buf[:f.count])
		f.count = 0
	}
}

// Pending returns the number of bytes gathered but not yet burst.
func (f *FIFO) Pending() int {
	return f.count
}
