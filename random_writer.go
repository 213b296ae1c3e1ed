package wavstream

import "fmt"

// RandomAccessWriter writes frames at arbitrary indices. Writing past the
// current end pads the gap with zero frames.
type RandomAccessWriter[T Sample] struct {
	open  *OpenWriter
	codec frameCodec[T]
	buf   []byte
}

// NewRandomAccessWriter turns o into a writer of T samples. The file's
// sample format must be at least as wide as T. o can't be used for another
// writer afterwards.
func NewRandomAccessWriter[T Sample](o *OpenWriter) (*RandomAccessWriter[T], error) {
	codec, err := newFrameEncoder[T](o.header)
	if err != nil {
		return nil, err
	}

	err = o.take()
	if err != nil {
		return nil, err
	}

	return &RandomAccessWriter[T]{
		open:  o,
		codec: codec,
		buf:   make([]byte, codec.frameSize()),
	}, nil
}

// Info describes the file being written.
func (w *RandomAccessWriter[T]) Info() Info {
	return w.open
}

// WriteSamples stores frame at index. Every channel of frame must be in the
// header; header channels frame doesn't carry are left as they are, which is
// silence for frames not written before.
func (w *RandomAccessWriter[T]) WriteSamples(index uint32, frame SamplesByChannel[T]) error {
	o := w.open
	if o.closed {
		return ErrClosed
	}

	if index >= o.header.MaxSamples {
		return fmt.Errorf("%w: sample %d, the file holds %d", ErrCapacityExceeded, index, o.header.MaxSamples)
	}

	clear(w.buf)

	err := w.codec.encodeFrame(w.buf, frame)
	if err != nil {
		return fmt.Errorf("sample %d: %w", index, err)
	}

	o.finalized = false

	// New frames are written whole, with absent channels left at zero.
	if index >= o.samplesWritten {
		err = o.padTo(index)
		if err != nil {
			return err
		}

		err = o.seek(o.frameOffset(index))
		if err != nil {
			return err
		}

		err = o.write(w.buf)
		if err != nil {
			return fmt.Errorf("failed to write sample %d: %w", index, err)
		}

		o.samplesWritten = index + 1

		return nil
	}

	pos := o.frameOffset(index)

	if frame.mask == w.codec.mask {
		err = o.seek(pos)
		if err != nil {
			return err
		}

		err = o.write(w.buf)
		if err != nil {
			return fmt.Errorf("failed to write sample %d: %w", index, err)
		}

		return nil
	}

	for _, p := range frame.Channels().Positions() {
		off := w.codec.offsets[p]

		err = o.seek(pos + int64(off))
		if err != nil {
			return err
		}

		err = o.write(w.buf[off : off+w.codec.sampleSize])
		if err != nil {
			return fmt.Errorf("failed to write sample %d channel %s: %w", index, p, err)
		}
	}

	return nil
}

// Flush patches the header sizes for the frames written so far.
func (w *RandomAccessWriter[T]) Flush() error {
	return w.open.Flush()
}

// Close finalizes the header and releases the underlying file when the
// writer owns one.
func (w *RandomAccessWriter[T]) Close() error {
	return w.open.Close()
}
