package wavstream

import (
	"fmt"
	"io"
)

// RandomAccessReader reads frames by index from a seekable wav stream,
// converting them to T.
type RandomAccessReader[T Sample] struct {
	open  *OpenReader
	codec frameCodec[T]
	buf   []byte
}

// NewRandomAccessReader turns o into a reader of T samples. T must be at
// least as wide as the file's sample format and the stream must seek. o
// can't be used for another reader afterwards.
func NewRandomAccessReader[T Sample](o *OpenReader) (*RandomAccessReader[T], error) {
	codec, err := newFrameDecoder[T](o.header)
	if err != nil {
		return nil, err
	}

	if !o.Seekable() {
		return nil, ErrNotSeekable
	}

	err = o.take()
	if err != nil {
		return nil, err
	}

	return &RandomAccessReader[T]{
		open:  o,
		codec: codec,
		buf:   make([]byte, codec.frameSize()),
	}, nil
}

// Info describes the file being read.
func (r *RandomAccessReader[T]) Info() Info {
	return r.open
}

// LenSamples returns the number of frames in the file.
func (r *RandomAccessReader[T]) LenSamples() uint32 {
	return r.open.LenSamples()
}

// ReadSample returns the frame at index.
func (r *RandomAccessReader[T]) ReadSample(index uint32) (SamplesByChannel[T], error) {
	err := r.readFrame(index)
	if err != nil {
		return SamplesByChannel[T]{}, err
	}

	frame, err := r.codec.decodeFrame(r.buf)
	if err != nil {
		return SamplesByChannel[T]{}, fmt.Errorf("sample %d: %w", index, err)
	}

	return frame, nil
}

// ReadChannel returns a single channel of the frame at index.
func (r *RandomAccessReader[T]) ReadChannel(index uint32, p ChannelPosition) (T, error) {
	var zero T

	if !r.open.header.Channels.Has(p) {
		return zero, fmt.Errorf("%w: channel %s not in %v", ErrOutOfRange, p, r.open.header.Channels)
	}

	err := r.checkIndex(index)
	if err != nil {
		return zero, err
	}

	off := r.codec.offsets[p]
	size := r.codec.sampleSize
	pos := r.frameOffset(index) + int64(off)

	err = r.open.src.seekTo(pos)
	if err != nil {
		return zero, err
	}

	_, err = io.ReadFull(r.open.src, r.buf[:size])
	if err != nil {
		return zero, fmt.Errorf("failed to read sample %d: %w", index, unexpectedEOF(err))
	}

	v, err := r.codec.decode(r.buf[:size])
	if err != nil {
		return zero, fmt.Errorf("sample %d channel %s: %w", index, p, err)
	}

	return v, nil
}

// Close releases the underlying file when the reader owns one.
func (r *RandomAccessReader[T]) Close() error {
	return r.open.Close()
}

func (r *RandomAccessReader[T]) checkIndex(index uint32) error {
	if n := r.open.LenSamples(); index >= n {
		return fmt.Errorf("%w: sample %d of %d", ErrOutOfRange, index, n)
	}

	return nil
}

func (r *RandomAccessReader[T]) frameOffset(index uint32) int64 {
	return r.open.dataStart + int64(index)*int64(len(r.buf))
}

func (r *RandomAccessReader[T]) readFrame(index uint32) error {
	err := r.checkIndex(index)
	if err != nil {
		return err
	}

	err = r.open.src.seekTo(r.frameOffset(index))
	if err != nil {
		return err
	}

	_, err = io.ReadFull(r.open.src, r.buf)
	if err != nil {
		return fmt.Errorf("failed to read sample %d: %w", index, unexpectedEOF(err))
	}

	return nil
}
