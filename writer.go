package wavstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-audio/riff"
)

const zeroChunkSize = 64 * 1024

// OpenWriter is a wav stream whose header has been written. It is turned
// into exactly one typed writer with NewRandomAccessWriter or
// NewStreamWriter, and must be closed (directly or through that writer) so
// the RIFF and data sizes get patched.
type OpenWriter struct {
	w      io.WriteSeeker
	closer io.Closer

	header    WavHeader
	base      int64
	dataStart int64
	pos       int64

	samplesWritten uint32
	finalized      bool

	consumed bool
	closed   bool
}

// WriteWav writes a wav header for header to w at its current position and
// returns a writer positioned at the first sample. The header always uses
// the 40 byte WAVE_FORMAT_EXTENSIBLE fmt chunk so the channel mask is kept.
func WriteWav(w io.WriteSeeker, header WavHeader) (*OpenWriter, error) {
	header, err := header.validate()
	if err != nil {
		return nil, err
	}

	base, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream position: %w", err)
	}

	fmtBytes, err := newFmtChunk(header).MarshalBinary()
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, headerSize))

	for _, field := range []any{riff.RiffID, uint32(headerSize - 8), riff.WavFormatID} {
		err = binary.Write(buf, binary.LittleEndian, field)
		if err != nil {
			return nil, fmt.Errorf("failed to encode RIFF header: %w", err)
		}
	}

	buf.Write(fmtBytes)

	for _, field := range []any{riff.DataFormatID, uint32(0)} {
		err = binary.Write(buf, binary.LittleEndian, field)
		if err != nil {
			return nil, fmt.Errorf("failed to encode data chunk header: %w", err)
		}
	}

	_, err = w.Write(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to write wav header: %w", err)
	}

	return &OpenWriter{
		w:         w,
		header:    header,
		base:      base,
		dataStart: base + int64(buf.Len()),
		pos:       base + int64(buf.Len()),
	}, nil
}

// CreateWav writes a wav header to w and hands the writer to fn. The header
// sizes are patched when fn returns, whether it fails, succeeds or panics.
// A finalize failure during a panic is logged since the panic is re-raised.
func CreateWav(w io.WriteSeeker, header WavHeader, fn func(*OpenWriter) error) (err error) {
	o, err := WriteWav(w, header)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			cerr := o.Close()
			if cerr != nil {
				log.Printf("wavstream: %v", cerr)
			}

			panic(p)
		}

		err = errors.Join(err, o.Close())
	}()

	return fn(o)
}

// take hands the open writer over to a typed writer.
func (o *OpenWriter) take() error {
	if o == nil {
		return errors.New("nil open writer")
	}

	if o.closed {
		return ErrClosed
	}

	if o.consumed {
		return ErrConsumed
	}

	o.consumed = true

	return nil
}

// Header returns the header the file was created with, MaxSamples resolved.
func (o *OpenWriter) Header() WavHeader {
	return o.header
}

// DataStart returns the stream position of the first sample byte.
func (o *OpenWriter) DataStart() int64 {
	return o.dataStart
}

// SampleFormat returns the on-disk sample format.
func (o *OpenWriter) SampleFormat() SampleFormat {
	return o.header.SampleFormat
}

// Channels returns the channel layout.
func (o *OpenWriter) Channels() Channels {
	return o.header.Channels
}

// NumChannels returns the number of channels in a frame.
func (o *OpenWriter) NumChannels() uint16 {
	return o.header.NumChannels()
}

// SampleRate returns the frames per second.
func (o *OpenWriter) SampleRate() uint32 {
	return o.header.SampleRate
}

// BitsPerSample returns the storage size of one sample in bits.
func (o *OpenWriter) BitsPerSample() uint16 {
	return o.header.BitsPerSample()
}

// BytesPerSample returns the storage size of one sample.
func (o *OpenWriter) BytesPerSample() uint16 {
	return o.header.BytesPerSample()
}

// LenSamples returns the number of frames written so far, padding included.
func (o *OpenWriter) LenSamples() uint32 {
	return o.samplesWritten
}

// Duration returns the playing time of the frames written so far.
func (o *OpenWriter) Duration() time.Duration {
	return durationFromSamples(o.samplesWritten, o.header.SampleRate)
}

func (o *OpenWriter) frameOffset(index uint32) int64 {
	return o.dataStart + int64(index)*int64(o.header.FrameSize())
}

func (o *OpenWriter) seek(pos int64) error {
	if pos == o.pos {
		return nil
	}

	_, err := o.w.Seek(pos, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek to %d: %w", pos, err)
	}

	o.pos = pos

	return nil
}

func (o *OpenWriter) write(p []byte) error {
	n, err := o.w.Write(p)
	o.pos += int64(n)

	return err
}

// padTo appends zero frames until the file holds the given number of frames.
func (o *OpenWriter) padTo(frames uint32) error {
	if frames <= o.samplesWritten {
		return nil
	}

	err := o.seek(o.frameOffset(o.samplesWritten))
	if err != nil {
		return err
	}

	remaining := int64(frames-o.samplesWritten) * int64(o.header.FrameSize())
	zeros := make([]byte, min(remaining, zeroChunkSize))

	for remaining > 0 {
		n := min(remaining, int64(len(zeros)))

		err = o.write(zeros[:n])
		if err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}

		remaining -= n
	}

	o.samplesWritten = frames
	o.finalized = false

	return nil
}

// Flush patches the RIFF and data chunk sizes for the frames written so far,
// adds the RIFF pad byte after odd sized data, moves back to the end of the
// data and flushes w when it buffers.
func (o *OpenWriter) Flush() error {
	if o.closed {
		return ErrClosed
	}

	dataSize := o.samplesWritten * o.header.FrameSize()

	// An odd sized data chunk is followed by a pad byte the RIFF size
	// counts and the data size doesn't. Later frames overwrite it.
	pad := dataSize % 2
	if pad == 1 {
		err := o.seek(o.dataStart + int64(dataSize))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFinalize, err)
		}

		err = o.write([]byte{0})
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFinalize, err)
		}
	}

	patches := []struct {
		pos  int64
		size uint32
	}{
		{o.base + 4, uint32(headerSize-8) + dataSize + pad},
		{o.dataStart - 4, dataSize},
	}

	for _, p := range patches {
		err := o.seek(p.pos)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFinalize, err)
		}

		var size [4]byte
		binary.LittleEndian.PutUint32(size[:], p.size)

		err = o.write(size[:])
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFinalize, err)
		}
	}

	err := o.seek(o.dataStart + int64(dataSize))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFinalize, err)
	}

	switch w := o.w.(type) {
	case *os.File:
		err = w.Sync()
	case interface{ Flush() error }:
		err = w.Flush()
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrFinalize, err)
	}

	o.finalized = true

	return nil
}

// Close finalizes the header unless Flush already did and closes the
// underlying file when the writer owns one. Close is idempotent.
func (o *OpenWriter) Close() error {
	if o.closed {
		return nil
	}

	var err error
	if !o.finalized {
		err = o.Flush()
	}

	o.closed = true

	if o.closer != nil {
		err = errors.Join(err, o.closer.Close())
	}

	return err
}
