package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cwbudde/wavstream"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	errNotAiffFile        = errors.New("not an AIFF file")
	errUnsupportedAiff    = errors.New("unsupported AIFF bit depth")
	errUnsupportedChannel = errors.New("unsupported channel count")
)

// mp3Reader is the part of gomp3.Decoder the converter uses.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// oggReader is the part of oggvorbis.Reader the converter uses.
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

// aiffReader is the part of aiff.Decoder the converter uses.
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// vorbisOrder maps vorbis channel indices to speaker positions for the
// layouts the vorbis mapping type 0 defines.
var vorbisOrder = map[int][]wavstream.ChannelPosition{
	1: {wavstream.FrontLeft},
	2: {wavstream.FrontLeft, wavstream.FrontRight},
	3: {wavstream.FrontLeft, wavstream.FrontCenter, wavstream.FrontRight},
	4: {wavstream.FrontLeft, wavstream.FrontRight, wavstream.BackLeft, wavstream.BackRight},
	5: {wavstream.FrontLeft, wavstream.FrontCenter, wavstream.FrontRight, wavstream.BackLeft, wavstream.BackRight},
	6: {
		wavstream.FrontLeft, wavstream.FrontCenter, wavstream.FrontRight,
		wavstream.BackLeft, wavstream.BackRight, wavstream.LowFrequency,
	},
	7: {
		wavstream.FrontLeft, wavstream.FrontCenter, wavstream.FrontRight,
		wavstream.SideLeft, wavstream.SideRight, wavstream.BackCenter, wavstream.LowFrequency,
	},
	8: {
		wavstream.FrontLeft, wavstream.FrontCenter, wavstream.FrontRight,
		wavstream.SideLeft, wavstream.SideRight, wavstream.BackLeft, wavstream.BackRight,
		wavstream.LowFrequency,
	},
}

func vorbisPositions(channels int) ([]wavstream.ChannelPosition, error) {
	if positions, ok := vorbisOrder[channels]; ok {
		return positions, nil
	}

	if channels < 1 || channels > wavstream.NumChannelPositions {
		return nil, fmt.Errorf("%w: %d", errUnsupportedChannel, channels)
	}

	return wavstream.ChannelsFromCount(uint16(channels)).Positions(), nil
}

func convertMP3(r io.Reader, dst output) error {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return fmt.Errorf("failed to decode mp3: %w", err)
	}

	return writeMP3(dec, dst)
}

// writeMP3 stores the decoder's 16-bit stereo output.
func writeMP3(dec mp3Reader, dst output) error {
	var buf []byte

	positions := wavstream.Stereo().Positions()

	return convert(dst, wavstream.Int16, positions, uint32(dec.SampleRate()), func(samples []int16) (int, error) {
		need := len(samples) * 2
		if cap(buf) < need {
			buf = make([]byte, need)
		}

		buf = buf[:need]

		n, err := io.ReadFull(dec, buf)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}

		for i := range n / 2 {
			samples[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
		}

		return n / 2, err
	})
}

func convertVorbis(r io.Reader, dst output) error {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return fmt.Errorf("failed to decode ogg vorbis: %w", err)
	}

	return writeVorbis(dec, dst)
}

// writeVorbis stores the decoder's float output, remapping the channels to
// their wav positions.
func writeVorbis(dec oggReader, dst output) error {
	positions, err := vorbisPositions(dec.Channels())
	if err != nil {
		return err
	}

	return convert(dst, wavstream.Float, positions, uint32(dec.SampleRate()), dec.Read)
}

func convertAiff(r io.ReadSeeker, dst output) error {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return errNotAiffFile
	}

	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return errNotAiffFile
	}

	switch dec.BitDepth {
	case 8:
		return writeAiff[int8](dec, wavstream.Int8, dst)
	case 16:
		return writeAiff[int16](dec, wavstream.Int16, dst)
	case 24:
		return writeAiff[int32](dec, wavstream.Int24, dst)
	default:
		return fmt.Errorf("%w: %d", errUnsupportedAiff, dec.BitDepth)
	}
}

// writeAiff stores the decoder's integer samples.
func writeAiff[T int8 | int16 | int32](dec aiffReader, native wavstream.SampleFormat, dst output) error {
	format := dec.Format()
	if format.NumChannels < 1 || format.NumChannels > wavstream.NumChannelPositions {
		return fmt.Errorf("%w: %d", errUnsupportedChannel, format.NumChannels)
	}

	positions := wavstream.ChannelsFromCount(uint16(format.NumChannels)).Positions()

	var intBuf *goaudio.IntBuffer

	return convert(dst, native, positions, uint32(format.SampleRate), func(samples []T) (int, error) {
		if intBuf == nil || len(intBuf.Data) != len(samples) {
			intBuf = &goaudio.IntBuffer{Data: make([]int, len(samples)), Format: format}
		}

		n, err := dec.PCMBuffer(intBuf)
		for i := range n {
			samples[i] = T(intBuf.Data[i])
		}

		return n, err
	})
}
