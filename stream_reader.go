package wavstream

import (
	"fmt"
	"io"
	"iter"
)

// StreamReader reads frames front to back, converting them to T. It works on
// any io.Reader and doesn't seek.
type StreamReader[T Sample] struct {
	open   *OpenReader
	frames *FrameIterator[T]
}

// NewStreamReader turns o into a sequential reader of T samples. T must be
// at least as wide as the file's sample format. o can't be used for another
// reader afterwards.
func NewStreamReader[T Sample](o *OpenReader) (*StreamReader[T], error) {
	codec, err := newFrameDecoder[T](o.header)
	if err != nil {
		return nil, err
	}

	if o.consumed {
		return nil, ErrConsumed
	}

	// A seekable source may have been moved since ReadWav. A failed seek
	// leaves o usable.
	if o.Seekable() {
		err = o.src.seekTo(o.dataStart)
		if err != nil {
			return nil, err
		}
	}

	err = o.take()
	if err != nil {
		return nil, err
	}

	return &StreamReader[T]{
		open: o,
		frames: &FrameIterator[T]{
			r:      o.src,
			codec:  codec,
			header: o.header,
			buf:    make([]byte, codec.frameSize()),
			total:  o.LenSamples(),
		},
	}, nil
}

// Info describes the file being read.
func (r *StreamReader[T]) Info() Info {
	return r.open
}

// Frames returns the iterator over the file's frames. There is a single
// iterator per reader; it can't be restarted.
func (r *StreamReader[T]) Frames() *FrameIterator[T] {
	return r.frames
}

// Close releases the underlying file when the reader owns one.
func (r *StreamReader[T]) Close() error {
	return r.open.Close()
}

// FrameIterator yields the frames of a StreamReader in order.
//
// Next returns io.EOF after the last frame. The first read or conversion
// failure is returned once; every later call returns io.EOF.
type FrameIterator[T Sample] struct {
	r      io.Reader
	codec  frameCodec[T]
	header WavHeader
	buf    []byte
	total  uint32
	next   uint32
	done   bool
}

// Next returns the next frame.
func (it *FrameIterator[T]) Next() (SamplesByChannel[T], error) {
	if it.done || it.next >= it.total {
		it.done = true
		return SamplesByChannel[T]{}, io.EOF
	}

	_, err := io.ReadFull(it.r, it.buf)
	if err != nil {
		it.done = true
		return SamplesByChannel[T]{}, fmt.Errorf("failed to read frame %d of %d: %w", it.next, it.total, unexpectedEOF(err))
	}

	frame, err := it.codec.decodeFrame(it.buf)
	if err != nil {
		it.done = true
		return SamplesByChannel[T]{}, fmt.Errorf("frame %d: %w", it.next, err)
	}

	it.next++

	return frame, nil
}

// Remaining returns how many frames Next can still yield.
func (it *FrameIterator[T]) Remaining() uint32 {
	if it.done {
		return 0
	}

	return it.total - it.next
}

// All adapts the iterator to a range-over-func sequence. A failure is
// yielded as the last element.
func (it *FrameIterator[T]) All() iter.Seq2[SamplesByChannel[T], error] {
	return func(yield func(SamplesByChannel[T], error) bool) {
		for {
			frame, err := it.Next()
			if err == io.EOF {
				return
			}

			if !yield(frame, err) || err != nil {
				return
			}
		}
	}
}
