// Package protocol implements the binary trace capture format used to record
// and replay duty sequences.
//
// A trace starts with the magic string followed by a stream of blocks. Each
// block is framed the same way the firmware link frames its messages:
//
//	<len> <seq> <records...> <crc16 hi> <crc16 lo> <sync>
//
// len counts the whole block including header and trailer. Records are three
// VLQ integers: the time since the previous record in µs, the raw table value
// and the mode ordinal.
package protocol

// Version of the trace format.
const Version = 1

// Magic prefixes every trace stream.
const Magic = "VDTRACE1"

// Block framing constants
const (
	BlockMax     = 255 // len is a single byte
	BlockMin     = 5   // header + trailer, no records
	BlockHeader  = 2
	BlockTrailer = 3
	BlockSync    = 0x7E

	// Sequence numbers live in the low nibble; the high nibble is fixed so a
	// zero byte never reads as a valid header.
	SeqMask = 0x0F
	SeqDest = 0x10
)

// Record is one applied duty update.
type Record struct {
	DeltaUS uint32
	Raw     uint8
	Mode    uint8
}

// maxRecordLen is the worst-case encoded size of a Record.
const maxRecordLen = 5 + 2 + 2
