package wavstream

import (
	"fmt"
	"math"
)

// SampleFormat is the on-disk representation of a single sample.
type SampleFormat uint8

const (
	Int8 SampleFormat = iota
	Int16
	Int24
	Float
)

// String implements the Stringer interface.
func (f SampleFormat) String() string {
	switch f {
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int24:
		return "int24"
	case Float:
		return "float32"
	default:
		return fmt.Sprintf("SampleFormat(%d)", uint8(f))
	}
}

// BytesPerSample returns the storage size of one sample.
func (f SampleFormat) BytesPerSample() uint16 {
	switch f {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int24:
		return 3
	case Float:
		return 4
	default:
		return 0
	}
}

// BitsPerSample returns the storage size of one sample in bits.
func (f SampleFormat) BitsPerSample() uint16 {
	return f.BytesPerSample() * 8
}

func (f SampleFormat) valid() bool {
	return f <= Float
}

func (f SampleFormat) formatTag() uint16 {
	if f == Float {
		return wavFormatIEEEFloat
	}

	return wavFormatPCM
}

// sampleFormatFromBits classifies a bits-per-sample field. Odd depths such as
// 12 or 20 bits are stored padded to the next byte boundary.
func sampleFormatFromBits(bitsPerSample uint16) (SampleFormat, error) {
	switch {
	case bitsPerSample == 32:
		return Float, nil
	case bitsPerSample <= 8:
		return Int8, nil
	case bitsPerSample <= 16:
		return Int16, nil
	case bitsPerSample <= 24:
		return Int24, nil
	default:
		return 0, fmt.Errorf("%w: %d bits per sample", ErrUnsupportedFormat, bitsPerSample)
	}
}

// headerSize is what WriteWav emits before the first sample: the RIFF
// preamble, the 40 byte extensible fmt chunk and the data chunk header.
const headerSize = 12 + 8 + fmtChunkSizeExtensible + 8

// WavHeader describes the audio layout of a wav file.
type WavHeader struct {
	SampleFormat SampleFormat
	Channels     Channels
	SampleRate   uint32
	// MaxSamples is the largest number of frames the file can hold. Zero
	// means "derive from the layout"; values above the derived limit are
	// capped to it.
	MaxSamples uint32
}

// NewWavHeader returns a header with MaxSamples derived from the layout.
func NewWavHeader(format SampleFormat, channels Channels, sampleRate uint32) WavHeader {
	h := WavHeader{
		SampleFormat: format,
		Channels:     channels,
		SampleRate:   sampleRate,
	}
	h.MaxSamples = maxSamplesFor(format, channels)

	return h
}

// maxSamplesFor keeps the whole file, header included, below 2^32 bytes.
func maxSamplesFor(format SampleFormat, channels Channels) uint32 {
	frameSize := uint32(channels.Count()) * uint32(format.BytesPerSample())
	if frameSize == 0 {
		return 0
	}

	return (math.MaxUint32 - headerSize) / frameSize
}

// BytesPerSample returns the storage size of one sample.
func (h WavHeader) BytesPerSample() uint16 {
	return h.SampleFormat.BytesPerSample()
}

// BitsPerSample returns the storage size of one sample in bits.
func (h WavHeader) BitsPerSample() uint16 {
	return h.SampleFormat.BitsPerSample()
}

// NumChannels returns the number of channels in a frame.
func (h WavHeader) NumChannels() uint16 {
	return h.Channels.Count()
}

// FrameSize returns the number of bytes in a frame.
func (h WavHeader) FrameSize() uint32 {
	return uint32(h.NumChannels()) * uint32(h.BytesPerSample())
}

// validate checks the header can be written and completes MaxSamples.
func (h WavHeader) validate() (WavHeader, error) {
	if !h.SampleFormat.valid() {
		return h, fmt.Errorf("%w: %s", ErrUnsupportedFormat, h.SampleFormat)
	}

	if h.Channels.Count() == 0 {
		return h, fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}

	limit := maxSamplesFor(h.SampleFormat, h.Channels)
	if h.MaxSamples == 0 || h.MaxSamples > limit {
		h.MaxSamples = limit
	}

	return h, nil
}
