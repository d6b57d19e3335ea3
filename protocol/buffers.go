package protocol

// blockBuffer assembles one block in place. The header bytes are reserved
// up front and patched when the block is sealed.
type blockBuffer struct {
	buf [BlockMax]byte
	pos int
}

func (b *blockBuffer) reset() {
	b.pos = BlockHeader
}

// records reports whether any record bytes have been added.
func (b *blockBuffer) records() bool {
	return b.pos > BlockHeader
}

// fits reports whether n more payload bytes leave room for the trailer.
func (b *blockBuffer) fits(n int) bool {
	return b.pos+n+BlockTrailer <= BlockMax
}

func (b *blockBuffer) output(data []byte) {
	b.pos += copy(b.buf[b.pos:], data)
}

// seal writes the header and trailer and returns the finished block.
func (b *blockBuffer) seal(seq uint8) []byte {
	b.buf[0] = byte(b.pos + BlockTrailer)
	b.buf[1] = SeqDest | (seq & SeqMask)
	return AppendTrailer(b.buf[:b.pos])
}
