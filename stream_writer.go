package wavstream

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// FrameSource yields frames to a StreamWriter. Next returns io.EOF once the
// source is exhausted.
type FrameSource[T Sample] interface {
	Next() (SamplesByChannel[T], error)
}

type sliceSource[T Sample] struct {
	frames []SamplesByChannel[T]
}

// SliceSource returns a FrameSource over frames.
func SliceSource[T Sample](frames []SamplesByChannel[T]) FrameSource[T] {
	return &sliceSource[T]{frames: frames}
}

func (s *sliceSource[T]) Next() (SamplesByChannel[T], error) {
	if len(s.frames) == 0 {
		return SamplesByChannel[T]{}, io.EOF
	}

	frame := s.frames[0]
	s.frames = s.frames[1:]

	return frame, nil
}

// StreamWriter appends frames to the end of the data chunk.
type StreamWriter[T Sample] struct {
	open  *OpenWriter
	codec frameCodec[T]
	buf   []byte
}

// NewStreamWriter turns o into a sequential writer of T samples. The file's
// sample format must be at least as wide as T. o can't be used for another
// writer afterwards.
func NewStreamWriter[T Sample](o *OpenWriter) (*StreamWriter[T], error) {
	codec, err := newFrameEncoder[T](o.header)
	if err != nil {
		return nil, err
	}

	err = o.take()
	if err != nil {
		return nil, err
	}

	return &StreamWriter[T]{
		open:  o,
		codec: codec,
		buf:   make([]byte, codec.frameSize()),
	}, nil
}

// Info describes the file being written.
func (w *StreamWriter[T]) Info() Info {
	return w.open
}

// WriteFrame appends one frame. The frame must carry exactly the header's
// channels.
func (w *StreamWriter[T]) WriteFrame(frame SamplesByChannel[T]) error {
	o := w.open
	if o.closed {
		return ErrClosed
	}

	if o.samplesWritten >= o.header.MaxSamples {
		return fmt.Errorf("%w: the file holds %d samples", ErrCapacityExceeded, o.header.MaxSamples)
	}

	err := w.codec.checkComplete(frame)
	if err != nil {
		return fmt.Errorf("sample %d: %w", o.samplesWritten, err)
	}

	err = w.codec.encodeFrame(w.buf, frame)
	if err != nil {
		return fmt.Errorf("sample %d: %w", o.samplesWritten, err)
	}

	err = o.seek(o.frameOffset(o.samplesWritten))
	if err != nil {
		return err
	}

	err = o.write(w.buf)
	if err != nil {
		return fmt.Errorf("failed to write sample %d: %w", o.samplesWritten, err)
	}

	o.samplesWritten++
	o.finalized = false

	return nil
}

// WriteAll appends every frame of src and finalizes the header sizes, also
// when src or a write fails.
func (w *StreamWriter[T]) WriteAll(src FrameSource[T]) (err error) {
	defer func() {
		err = w.finalize(err)
	}()

	for {
		frame, err := src.Next()
		if err == io.EOF {
			return nil
		}

		if err != nil {
			return fmt.Errorf("frame source: %w", err)
		}

		err = w.WriteFrame(frame)
		if err != nil {
			return err
		}
	}
}

// WriteSeq appends every frame of seq and finalizes the header sizes. The
// first non-nil error yielded by seq stops the write.
func (w *StreamWriter[T]) WriteSeq(seq iter.Seq2[SamplesByChannel[T], error]) (err error) {
	defer func() {
		err = w.finalize(err)
	}()

	for frame, err := range seq {
		if err != nil {
			return fmt.Errorf("frame source: %w", err)
		}

		err = w.WriteFrame(frame)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *StreamWriter[T]) finalize(err error) error {
	if w.open.closed {
		return err
	}

	return errors.Join(err, w.open.Flush())
}

// Flush patches the header sizes for the frames written so far.
func (w *StreamWriter[T]) Flush() error {
	return w.open.Flush()
}

// Close finalizes the header and releases the underlying file when the
// writer owns one.
func (w *StreamWriter[T]) Close() error {
	return w.open.Close()
}
