package protocol

import "errors"

// Trailer errors reported by CheckTrailer.
var (
	ErrSync     = errors.New("missing sync byte")
	ErrChecksum = errors.New("checksum mismatch")
)

// crcTable holds the reflected CCITT polynomial 0x8408, one entry per
// low byte of the running value.
var crcTable = func() (t [256]uint16) {
	for i := range t {
		c := uint16(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = c>>1 ^ 0x8408
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}()

// CRC16 is the reflected CCITT checksum with initial value 0xFFFF and no
// final xor. It covers a block from the length byte up to the trailer.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		crc = crc>>8 ^ crcTable[byte(crc)^b]
	}
	return crc
}

// AppendTrailer appends the checksum of block (big-endian) and the sync
// byte.
func AppendTrailer(block []byte) []byte {
	crc := CRC16(block)
	return append(block, byte(crc>>8), byte(crc), BlockSync)
}

// CheckTrailer verifies the trailer of a complete block and returns the
// checksummed body.
func CheckTrailer(block []byte) ([]byte, error) {
	n := len(block)
	if n < BlockTrailer {
		return nil, ErrSync
	}
	if block[n-1] != BlockSync {
		return nil, ErrSync
	}
	body := block[:n-BlockTrailer]
	if CRC16(body) != uint16(block[n-3])<<8|uint16(block[n-2]) {
		return nil, ErrChecksum
	}
	return body, nil
}
