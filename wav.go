package wavstream

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrMalformedContainer indicates missing or broken RIFF/WAVE framing.
	ErrMalformedContainer = errors.New("malformed wav container")
	// ErrUnsupportedFormat is returned for format tags, bit depths or channel
	// layouts this package can't represent.
	ErrUnsupportedFormat = errors.New("unsupported wav format")
	// ErrOutOfRange is returned when reading past the last sample.
	ErrOutOfRange = errors.New("sample index out of range")
	// ErrUnsupportedConversion is returned when a reader or writer would have
	// to narrow samples (e.g. reading a 16-bit file as int8).
	ErrUnsupportedConversion = errors.New("unsupported sample conversion")
	// ErrCapacityExceeded is returned when a write would grow the file past
	// the 4 GiB RIFF limit.
	ErrCapacityExceeded = errors.New("wav capacity exceeded")
	// ErrInvalidSampleValue is returned for 24-bit values outside
	// [-8388608, 8388607].
	ErrInvalidSampleValue = errors.New("invalid sample value")

	// ErrDataChunkNotFound indicates a file without a data chunk.
	ErrDataChunkNotFound = fmt.Errorf("%w: data chunk not found", ErrMalformedContainer)
	// ErrChannelMismatch is returned when a frame's channels don't fit the header.
	ErrChannelMismatch = fmt.Errorf("%w: channel layout mismatch", ErrUnsupportedFormat)
	// ErrNotSeekable is returned when random access is requested over a
	// stream that can't seek.
	ErrNotSeekable = errors.New("underlying stream is not seekable")
	// ErrConsumed is returned when an open reader or writer is used a second time.
	ErrConsumed = errors.New("wav handle already consumed")
	// ErrClosed is returned when writing to a closed writer.
	ErrClosed = errors.New("wav writer closed")
	// ErrFinalize wraps failures to patch the RIFF and data chunk sizes.
	ErrFinalize = errors.New("failed to finalize wav header")
)

// SamplesForDuration returns how many sample frames at sampleRate fit in dur.
func SamplesForDuration(dur time.Duration, sampleRate uint32) uint32 {
	if dur <= 0 || sampleRate == 0 {
		return 0
	}

	return uint32(math.Floor(dur.Seconds() * float64(sampleRate)))
}

func durationFromSamples(samples uint32, sampleRate uint32) time.Duration {
	if sampleRate == 0 {
		return 0
	}

	return time.Duration(uint64(samples) * uint64(time.Second) / uint64(sampleRate))
}
