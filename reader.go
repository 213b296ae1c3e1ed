package wavstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/riff"
)

// source tracks the absolute stream position of everything read through it,
// so the data chunk can be located again on seekable streams.
type source struct {
	r      io.Reader
	seeker io.Seeker
	pos    int64
}

func newSource(r io.Reader) (*source, error) {
	s := &source{r: r}

	if seeker, ok := r.(io.Seeker); ok {
		pos, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, fmt.Errorf("failed to get stream position: %w", err)
		}

		s.seeker = seeker
		s.pos = pos
	}

	return s, nil
}

func (s *source) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	s.pos += int64(n)

	return n, err
}

func (s *source) seekTo(pos int64) error {
	if s.seeker == nil {
		return ErrNotSeekable
	}

	if pos == s.pos {
		return nil
	}

	_, err := s.seeker.Seek(pos, io.SeekStart)
	if err != nil {
		return fmt.Errorf("failed to seek to %d: %w", pos, err)
	}

	s.pos = pos

	return nil
}

// skip moves n bytes forward, seeking when the stream allows it.
func (s *source) skip(n int64) error {
	if s.seeker != nil {
		return s.seekTo(s.pos + n)
	}

	_, err := io.CopyN(io.Discard, s, n)

	return err
}

// OpenReader is a parsed wav header positioned at the start of the sample
// data. It is turned into exactly one typed reader with
// NewRandomAccessReader or NewStreamReader.
type OpenReader struct {
	src    *source
	closer io.Closer

	header     WavHeader
	fmtChunk   *FmtChunk
	chunks     []ChunkInfo
	dataStart  int64
	dataLength uint32

	consumed bool
	closed   bool
}

// ReadWav parses the RIFF/WAVE preamble, the fmt chunk and the data chunk
// header from r. Chunks other than fmt and data are skipped by their declared
// size. When r is an io.Seeker its current position is taken as the start of
// the file; random access later seeks relative to it.
func ReadWav(r io.Reader) (*OpenReader, error) {
	src, err := newSource(r)
	if err != nil {
		return nil, err
	}

	o := &OpenReader{src: src}

	err = o.parse()
	if err != nil {
		return nil, err
	}

	return o, nil
}

func (o *OpenReader) parse() error {
	parser := riff.New(o.src)

	id, _, err := parser.IDnSize()
	if err != nil {
		return fmt.Errorf("%w: failed to read RIFF header: %w", ErrMalformedContainer, unexpectedEOF(err))
	}

	if id != riff.RiffID {
		return fmt.Errorf("%w: expected RIFF, got %q", ErrMalformedContainer, id[:])
	}

	var format [4]byte

	err = binary.Read(o.src, binary.BigEndian, &format)
	if err != nil {
		return fmt.Errorf("%w: failed to read WAVE id: %w", ErrMalformedContainer, unexpectedEOF(err))
	}

	if format != riff.WavFormatID {
		return fmt.Errorf("%w: expected WAVE, got %q", ErrMalformedContainer, format[:])
	}

	// Chunks before fmt are tolerated and recorded.
	for o.fmtChunk == nil {
		offset := o.src.pos

		id, size, err := o.chunkHeader()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: fmt chunk not found", ErrMalformedContainer)
			}

			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		switch id {
		case riff.FmtID:
			chunk := &riff.Chunk{
				ID:   id,
				Size: int(size),
				R:    io.LimitReader(o.src, int64(size)),
			}

			fmtChunk, err := decodeFmtChunk(chunk)
			if err != nil {
				return err
			}

			o.fmtChunk = fmtChunk
		case riff.DataFormatID:
			return fmt.Errorf("%w: data chunk before fmt chunk", ErrMalformedContainer)
		default:
			o.chunks = append(o.chunks, ChunkInfo{ID: id, Size: size, Offset: offset, BeforeFmt: true})

			err = o.src.skip(int64(size))
			if err != nil {
				return fmt.Errorf("%w: fmt chunk not found", ErrMalformedContainer)
			}
		}
	}

	header, err := o.fmtChunk.header()
	if err != nil {
		return err
	}

	o.header = header

	for {
		offset := o.src.pos

		id, size, err := o.chunkHeader()
		if err != nil {
			if err == io.EOF {
				return ErrDataChunkNotFound
			}

			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: truncated chunk header at %d: %w", ErrMalformedContainer, offset, err)
			}

			return fmt.Errorf("failed to read chunk header: %w", err)
		}

		if id == riff.DataFormatID {
			o.dataLength = size
			o.dataStart = o.src.pos

			return nil
		}

		o.chunks = append(o.chunks, ChunkInfo{ID: id, Size: size, Offset: offset})

		err = o.src.skip(int64(size))
		if err != nil {
			return ErrDataChunkNotFound
		}
	}
}

// chunkHeader reads a chunk id and its size. A stream ending inside the
// header yields io.ErrUnexpectedEOF, one ending before it io.EOF.
func (o *OpenReader) chunkHeader() ([4]byte, uint32, error) {
	var (
		buf [8]byte
		id  [4]byte
	)

	_, err := io.ReadFull(o.src, buf[:])
	if err != nil {
		return id, 0, err
	}

	copy(id[:], buf[:4])

	return id, binary.LittleEndian.Uint32(buf[4:]), nil
}

// take hands the open reader over to a typed reader.
func (o *OpenReader) take() error {
	if o == nil {
		return errors.New("nil open reader")
	}

	if o.consumed {
		return ErrConsumed
	}

	o.consumed = true

	return nil
}

// Header returns the audio layout of the file. MaxSamples reports the
// derived capacity of the layout, not the file length.
func (o *OpenReader) Header() WavHeader {
	return o.header
}

// FmtChunk returns a copy of the parsed fmt chunk.
func (o *OpenReader) FmtChunk() *FmtChunk {
	return o.fmtChunk.Clone()
}

// Chunks returns the chunks skipped while locating fmt and data.
func (o *OpenReader) Chunks() []ChunkInfo {
	return cloneChunkInfos(o.chunks)
}

// DataStart returns the stream position of the first sample byte.
func (o *OpenReader) DataStart() int64 {
	return o.dataStart
}

// DataLength returns the declared size of the data chunk in bytes.
func (o *OpenReader) DataLength() uint32 {
	return o.dataLength
}

// Seekable reports whether the underlying stream supports random access.
func (o *OpenReader) Seekable() bool {
	return o.src.seeker != nil
}

// SampleFormat returns the on-disk sample format.
func (o *OpenReader) SampleFormat() SampleFormat {
	return o.header.SampleFormat
}

// Channels returns the channel layout.
func (o *OpenReader) Channels() Channels {
	return o.header.Channels
}

// NumChannels returns the number of channels in a frame.
func (o *OpenReader) NumChannels() uint16 {
	return o.header.NumChannels()
}

// SampleRate returns the frames per second.
func (o *OpenReader) SampleRate() uint32 {
	return o.header.SampleRate
}

// BitsPerSample returns the storage size of one sample in bits.
func (o *OpenReader) BitsPerSample() uint16 {
	return o.header.BitsPerSample()
}

// BytesPerSample returns the storage size of one sample.
func (o *OpenReader) BytesPerSample() uint16 {
	return o.header.BytesPerSample()
}

// LenSamples returns the number of whole frames in the data chunk. A
// trailing partial frame is ignored.
func (o *OpenReader) LenSamples() uint32 {
	frameSize := o.header.FrameSize()
	if frameSize == 0 {
		return 0
	}

	return o.dataLength / frameSize
}

// Duration returns the playing time of the data chunk.
func (o *OpenReader) Duration() time.Duration {
	return durationFromSamples(o.LenSamples(), o.header.SampleRate)
}

// Close closes the underlying file when the reader owns one.
func (o *OpenReader) Close() error {
	if o.closed {
		return nil
	}

	o.closed = true

	if o.closer != nil {
		return o.closer.Close()
	}

	return nil
}
