package core

import "testing"

func TestGenerateTableWithinRange(t *testing.T) {
	src := newPCGEntropy(42)
	table := make([]uint8, DefaultTableSize)

	for gen := 0; gen < 50; gen++ {
		GenerateTable(table, DefaultDutyMin, DefaultDutyMax, src)
		for i, v := range table {
			if v < DefaultDutyMin || v > DefaultDutyMax {
				t.Fatalf("generation %d: table[%d] = %d outside [%d, %d]", gen, i, v, DefaultDutyMin, DefaultDutyMax)
			}
		}
	}
}

func TestGenerateTableCoversRange(t *testing.T) {
	src := newPCGEntropy(7)
	table := NewDutyTable(DefaultTableSize*10, DefaultDutyMin, DefaultDutyMax, src)

	seen := make(map[uint8]int)
	for _, v := range table {
		seen[v]++
	}
	for v := DefaultDutyMin; v <= DefaultDutyMax; v++ {
		if seen[uint8(v)] == 0 {
			t.Errorf("value %d never drawn in %d samples", v, len(table))
		}
	}
}

func TestGenerateTableSwappedAndDegenerateBounds(t *testing.T) {
	src := newPCGEntropy(3)
	table := make([]uint8, 256)

	GenerateTable(table, 204, 51, src)
	for i, v := range table {
		if v < 51 || v > 204 {
			t.Fatalf("swapped bounds: table[%d] = %d", i, v)
		}
	}

	GenerateTable(table, 99, 99, src)
	for i, v := range table {
		if v != 99 {
			t.Fatalf("min == max: table[%d] = %d, want 99", i, v)
		}
	}
}

func TestUniformUint8RejectsBiasedTail(t *testing.T) {
	// span 154: 2^32 % 154 == 4, so the top four 32-bit values are rejected.
	src := &seqEntropy{vals: []uint32{0xFFFFFFFF, 0xFFFFFFFC, 7}}
	if got := UniformUint8(src, 51, 204); got != 58 {
		t.Errorf("UniformUint8 = %d, want 58", got)
	}
	if src.i != 3 {
		t.Errorf("consumed %d draws, want 3", src.i)
	}

	// The full byte range divides 2^32 exactly and never rejects.
	src = &seqEntropy{vals: []uint32{0xFFFFFFFF}}
	if got := UniformUint8(src, 0, 255); got != 255 {
		t.Errorf("UniformUint8(0, 255) = %d, want 255", got)
	}
}

func TestCursorCircularWalk(t *testing.T) {
	const n = 16
	c := NewCursor(n)
	visited := make([]int, n)

	for i := 0; i < n; i++ {
		visited[c.Next()]++
	}
	if c.Pos() != 0 {
		t.Errorf("cursor at %d after %d steps, want 0", c.Pos(), n)
	}
	for i, v := range visited {
		if v != 1 {
			t.Errorf("index %d visited %d times, want 1", i, v)
		}
	}

	if got := c.Next(); got != 0 {
		t.Errorf("next pass starts at %d, want 0", got)
	}
}
