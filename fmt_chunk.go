package wavstream

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/riff"
)

const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE

	fmtChunkSizeClassic    = 16
	fmtChunkSizeExtensible = 40
	fmtExtensionSize       = 22
)

// ksSubFormatGUIDTail is the part of the KSDATAFORMAT_SUBTYPE_PCM and
// KSDATAFORMAT_SUBTYPE_IEEE_FLOAT GUIDs that follows the format tag.
var ksSubFormatGUIDTail = [12]byte{0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

// FmtChunk stores the fields of a wav fmt chunk, including extensible metadata.
type FmtChunk struct {
	Size           uint32
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	Size               uint16
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
}

// EffectiveFormatTag resolves the extensible SubFormat to PCM or float.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

func makeSubFormatGUID(formatTag uint16) [16]byte {
	var guid [16]byte
	binary.LittleEndian.PutUint32(guid[:4], uint32(formatTag))
	copy(guid[4:], ksSubFormatGUIDTail[:])

	return guid
}

// newFmtChunk builds the extensible fmt chunk WriteWav emits for h.
func newFmtChunk(h WavHeader) *FmtChunk {
	blockAlign := h.FrameSize()

	return &FmtChunk{
		Size:           fmtChunkSizeExtensible,
		FormatTag:      wavFormatExtensible,
		NumChannels:    h.NumChannels(),
		SampleRate:     h.SampleRate,
		AvgBytesPerSec: h.SampleRate * blockAlign,
		BlockAlign:     uint16(blockAlign),
		BitsPerSample:  h.BitsPerSample(),
		Extensible: &FmtExtensible{
			Size:               fmtExtensionSize,
			ValidBitsPerSample: h.BitsPerSample(),
			ChannelMask:        h.Channels.ChannelMask(),
			SubFormat:          makeSubFormatGUID(h.SampleFormat.formatTag()),
		},
	}
}

// MarshalBinary encodes the chunk, id and size included.
func (f *FmtChunk) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 8+fmtChunkSizeExtensible))

	size := uint32(fmtChunkSizeClassic)
	if f.Extensible != nil {
		size = fmtChunkSizeExtensible
	}

	fields := []any{
		riff.FmtID,
		size,
		f.FormatTag,
		f.NumChannels,
		f.SampleRate,
		f.AvgBytesPerSec,
		f.BlockAlign,
		f.BitsPerSample,
	}
	if f.Extensible != nil {
		fields = append(fields,
			f.Extensible.Size,
			f.Extensible.ValidBitsPerSample,
			f.Extensible.ChannelMask,
			f.Extensible.SubFormat,
		)
	}

	for _, field := range fields {
		err := binary.Write(buf, binary.LittleEndian, field)
		if err != nil {
			return nil, fmt.Errorf("failed to encode fmt chunk: %w", err)
		}
	}

	return buf.Bytes(), nil
}

// decodeFmtChunk reads the fmt chunk payload and drains what it doesn't use.
func decodeFmtChunk(chunk *riff.Chunk) (*FmtChunk, error) {
	if chunk.Size < fmtChunkSizeClassic {
		return nil, fmt.Errorf("%w: fmt chunk must be %d bytes or larger, got %d",
			ErrUnsupportedFormat, fmtChunkSizeClassic, chunk.Size)
	}

	fmtChunk := &FmtChunk{Size: uint32(chunk.Size)}

	err := chunk.ReadLE(&fmtChunk.FormatTag)
	if err != nil {
		return nil, fmt.Errorf("failed to read wav format: %w", unexpectedEOF(err))
	}

	if fmtChunk.FormatTag != wavFormatPCM &&
		fmtChunk.FormatTag != wavFormatIEEEFloat &&
		fmtChunk.FormatTag != wavFormatExtensible {
		return nil, fmt.Errorf("%w: format tag %#04x", ErrUnsupportedFormat, fmtChunk.FormatTag)
	}

	if fmtChunk.FormatTag == wavFormatExtensible && chunk.Size < fmtChunkSizeExtensible {
		return nil, fmt.Errorf("%w: extensible fmt chunk must be %d bytes or larger, got %d",
			ErrUnsupportedFormat, fmtChunkSizeExtensible, chunk.Size)
	}

	err = chunk.ReadLE(&fmtChunk.NumChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", unexpectedEOF(err))
	}

	err = chunk.ReadLE(&fmtChunk.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample rate: %w", unexpectedEOF(err))
	}

	err = chunk.ReadLE(&fmtChunk.AvgBytesPerSec)
	if err != nil {
		return nil, fmt.Errorf("failed to read avg bytes/sec: %w", unexpectedEOF(err))
	}

	err = chunk.ReadLE(&fmtChunk.BlockAlign)
	if err != nil {
		return nil, fmt.Errorf("failed to read block align: %w", unexpectedEOF(err))
	}

	err = chunk.ReadLE(&fmtChunk.BitsPerSample)
	if err != nil {
		return nil, fmt.Errorf("failed to read bit depth: %w", unexpectedEOF(err))
	}

	if fmtChunk.FormatTag == wavFormatExtensible {
		ext := &FmtExtensible{}

		for _, field := range []any{&ext.Size, &ext.ValidBitsPerSample, &ext.ChannelMask, &ext.SubFormat} {
			err := chunk.ReadLE(field)
			if err != nil {
				return nil, fmt.Errorf("failed to read fmt extension: %w", unexpectedEOF(err))
			}
		}

		fmtChunk.Extensible = ext
	}

	chunk.Drain()

	return fmtChunk, nil
}

// header turns the parsed chunk into a WavHeader.
func (f *FmtChunk) header() (WavHeader, error) {
	format, err := sampleFormatFromBits(f.BitsPerSample)
	if err != nil {
		return WavHeader{}, err
	}

	var channels Channels

	if f.Extensible != nil {
		tag := f.EffectiveFormatTag()
		if tag != wavFormatPCM && tag != wavFormatIEEEFloat {
			return WavHeader{}, fmt.Errorf("%w: sub format %#04x", ErrUnsupportedFormat, tag)
		}

		channels = ChannelsFromMask(f.Extensible.ChannelMask)
		if channels.Count() != f.NumChannels {
			return WavHeader{}, fmt.Errorf("%w: %d channels declared but channel mask %#x has %d",
				ErrUnsupportedFormat, f.NumChannels, f.Extensible.ChannelMask, channels.Count())
		}
	} else {
		if f.NumChannels > NumChannelPositions {
			return WavHeader{}, fmt.Errorf("%w: %d channels without a channel mask", ErrUnsupportedFormat, f.NumChannels)
		}

		channels = ChannelsFromCount(f.NumChannels)
	}

	if channels.Count() == 0 {
		return WavHeader{}, fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}

	return NewWavHeader(format, channels, f.SampleRate), nil
}

// unexpectedEOF turns a clean EOF inside a chunk into io.ErrUnexpectedEOF.
func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}
