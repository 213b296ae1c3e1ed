package wavstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
)

var errBufferTooSmall = errors.New("buffer can't hold a frame")

// Format returns the go-audio format of the file.
func (o *OpenReader) Format() *audio.Format {
	return formatOf(o.header)
}

// Format returns the go-audio format of the file.
func (o *OpenWriter) Format() *audio.Format {
	return formatOf(o.header)
}

func formatOf(h WavHeader) *audio.Format {
	return &audio.Format{
		NumChannels: int(h.NumChannels()),
		SampleRate:  int(h.SampleRate),
	}
}

// FillIntBuffer reads as many whole frames as fit in buf.Data, interleaved
// in canonical channel order, and returns the number of samples stored. It
// returns 0 and no error once the iterator is exhausted.
func FillIntBuffer[T int8 | int16 | int32](it *FrameIterator[T], buf *audio.IntBuffer) (int, error) {
	if buf == nil {
		return 0, errors.New("nil buffer")
	}

	buf.Format = formatOf(it.header)
	buf.SourceBitDepth = int(sampleFormatOf[T]().BitsPerSample())

	return fill(it, len(buf.Data), func(i int, v T) {
		buf.Data[i] = int(v)
	})
}

// FillFloat32Buffer is FillIntBuffer for float32 samples.
func FillFloat32Buffer(it *FrameIterator[float32], buf *audio.Float32Buffer) (int, error) {
	if buf == nil {
		return 0, errors.New("nil buffer")
	}

	buf.Format = formatOf(it.header)
	buf.SourceBitDepth = int(Float.BitsPerSample())

	return fill(it, len(buf.Data), func(i int, v float32) {
		buf.Data[i] = v
	})
}

func fill[T Sample](it *FrameIterator[T], size int, store func(int, T)) (int, error) {
	positions := it.codec.positions
	if size < len(positions) {
		return 0, fmt.Errorf("%w: %d slots for %d channels", errBufferTooSmall, size, len(positions))
	}

	n := 0
	for n+len(positions) <= size {
		frame, err := it.Next()
		if err == io.EOF {
			break
		}

		if err != nil {
			return n, err
		}

		for i, p := range positions {
			store(n+i, frame.values[p])
		}

		n += len(positions)
	}

	return n, nil
}
