package core

import "varduty/x/mathx"

// DutyTable holds the pre-generated duty sequence in 8-bit units.
type DutyTable []uint8

// NewDutyTable allocates a table of n entries and fills it from src.
func NewDutyTable(n int, lo, hi uint8, src EntropySource) DutyTable {
	t := make(DutyTable, n)
	GenerateTable(t, lo, hi, src)
	return t
}

// GenerateTable fills every entry of table with an independent draw that is
// uniform over the closed range [lo, hi]. Swapped bounds are reordered.
func GenerateTable(table []uint8, lo, hi uint8, src EntropySource) {
	lo, hi = mathx.Ordered(lo, hi)
	for i := range table {
		table[i] = UniformUint8(src, lo, hi)
	}
}

// UniformUint8 draws one value uniform over [lo, hi] (lo <= hi).
// Draws in the short tail of the 32-bit space are rejected, so the result
// carries no modulo bias.
func UniformUint8(src EntropySource, lo, hi uint8) uint8 {
	span := uint64(hi) - uint64(lo) + 1
	limit := (uint64(1) << 32) / span * span
	for {
		v := uint64(src.Uint32())
		if v < limit {
			return lo + uint8(v%span)
		}
	}
}

// Cursor walks a table of fixed length circularly.
type Cursor struct {
	pos int
	n   int
}

// NewCursor returns a cursor at index 0 over n entries.
func NewCursor(n int) Cursor { return Cursor{n: n} }

// Pos returns the index the next call to Next will yield.
func (c *Cursor) Pos() int { return c.pos }

// Next returns the current index and advances, wrapping to 0 at the end.
func (c *Cursor) Next() int {
	i := c.pos
	c.pos++
	if c.pos >= c.n {
		c.pos = 0
	}
	return i
}
