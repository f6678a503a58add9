package memmap

import "encoding/binary"

/*
Width-generic big-endian load/store against a raw byte slice. The guest is
big-endian throughout; this is the only place raw bytes are reinterpreted.
No bounds checking happens here, callers mask offsets into range first.
*/

// ReadBE loads size bytes (1, 2, 4 or 8) at off in guest byte order.
func ReadBE(b []byte, off uint32, size uint32) uint64 {
	switch size {
	case 1:
		return uint64(b[off])
	case 2:
		return uint64(binary.BigEndian.Uint16(b[off:]))
	case 4:
		return uint64(binary.BigEndian.Uint32(b[off:]))
	case 8:
		return binary.BigEndian.Uint64(b[off:])
	}
	panic("memmap: bad access size")
}

// WriteBE stores the low size bytes of v at off in guest byte order.
func WriteBE(b []byte, off uint32, size uint32, v uint64) {
	switch size {
	case 1:
		b[off] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(b[off:], uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b[off:], uint32(v))
	case 8:
		binary.BigEndian.PutUint64(b[off:], v)
	default:
		panic("memmap: bad access size")
	}
}
