package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

var (
	ErrBadMagic = errors.New("not a trace stream")
	ErrBadBlock = errors.New("corrupt trace block")
)

// TraceWriter packs records into CRC-checked blocks.
type TraceWriter struct {
	w       io.Writer
	block   blockBuffer
	seq     uint8
	started bool
	scratch []byte
	blocks  int
}

// NewTraceWriter returns a writer that emits the magic prefix on first use.
func NewTraceWriter(w io.Writer) *TraceWriter {
	tw := &TraceWriter{w: w, scratch: make([]byte, 0, maxRecordLen)}
	tw.block.reset()
	return tw
}

// Write adds one record, sealing the current block first if it is full.
func (tw *TraceWriter) Write(r Record) error {
	tw.scratch = AppendUVLQ(tw.scratch[:0], r.DeltaUS)
	tw.scratch = AppendUVLQ(tw.scratch, uint32(r.Raw))
	tw.scratch = AppendUVLQ(tw.scratch, uint32(r.Mode))
	if !tw.block.fits(len(tw.scratch)) {
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	tw.block.output(tw.scratch)
	return nil
}

// Flush seals and writes the pending block, if any.
func (tw *TraceWriter) Flush() error {
	if !tw.started {
		if _, err := io.WriteString(tw.w, Magic); err != nil {
			return fmt.Errorf("write trace magic: %w", err)
		}
		tw.started = true
	}
	if !tw.block.records() {
		return nil
	}
	if _, err := tw.w.Write(tw.block.seal(tw.seq)); err != nil {
		return fmt.Errorf("write trace block %d: %w", tw.blocks, err)
	}
	tw.seq = (tw.seq + 1) & SeqMask
	tw.blocks++
	tw.block.reset()
	return nil
}

// Blocks returns the number of blocks written so far.
func (tw *TraceWriter) Blocks() int { return tw.blocks }

// TraceReader decodes a stream produced by TraceWriter.
type TraceReader struct {
	r       *bufio.Reader
	started bool
	seq     uint8
	block   [BlockMax]byte
	pending []byte
}

// NewTraceReader wraps r.
func NewTraceReader(r io.Reader) *TraceReader {
	return &TraceReader{r: bufio.NewReader(r)}
}

// Next returns the next record, or io.EOF at a clean end of stream.
func (tr *TraceReader) Next() (Record, error) {
	if !tr.started {
		if err := tr.readMagic(); err != nil {
			return Record{}, err
		}
		tr.started = true
	}
	for len(tr.pending) == 0 {
		if err := tr.readBlock(); err != nil {
			return Record{}, err
		}
	}

	var rec Record
	var vals [3]uint32
	for i := range vals {
		v, n, err := DecodeUVLQ(tr.pending)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %v", ErrBadBlock, err)
		}
		vals[i] = v
		tr.pending = tr.pending[n:]
	}
	if vals[1] > 0xFF || vals[2] > 0xFF {
		return Record{}, fmt.Errorf("%w: record field out of range", ErrBadBlock)
	}
	rec.DeltaUS, rec.Raw, rec.Mode = vals[0], uint8(vals[1]), uint8(vals[2])
	return rec, nil
}

// ReadAll drains the stream.
func (tr *TraceReader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

func (tr *TraceReader) readMagic() error {
	var m [len(Magic)]byte
	if _, err := io.ReadFull(tr.r, m[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return ErrBadMagic
		}
		return err
	}
	if string(m[:]) != Magic {
		return ErrBadMagic
	}
	return nil
}

func (tr *TraceReader) readBlock() error {
	n, err := tr.r.ReadByte()
	if err != nil {
		return err // io.EOF between blocks is a clean end
	}
	if int(n) < BlockMin {
		return fmt.Errorf("%w: length %d", ErrBadBlock, n)
	}
	tr.block[0] = n
	if _, err := io.ReadFull(tr.r, tr.block[1:n]); err != nil {
		return fmt.Errorf("%w: %v", ErrBadBlock, err)
	}
	b := tr.block[:n]

	body, err := CheckTrailer(b)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadBlock, err)
	}
	if b[1]&^SeqMask != SeqDest {
		return fmt.Errorf("%w: bad sequence byte 0x%02x", ErrBadBlock, b[1])
	}
	if seq := b[1] & SeqMask; seq != tr.seq {
		return fmt.Errorf("%w: sequence %d, want %d", ErrBadBlock, seq, tr.seq)
	}

	tr.seq = (tr.seq + 1) & SeqMask
	tr.pending = body[BlockHeader:]
	return nil
}
