package index

import "encoding/binary"

// uint32Key encodes val as a big-endian key, so the byte order of keys in a
// KV store matches the numeric order of document and segment ids.
func uint32Key(val uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, val)
	return b
}
