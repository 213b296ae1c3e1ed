package wavstream

import (
	"fmt"
	"math/bits"
)

// ChannelPosition is a standard speaker position. Its value is the bit index
// used in the WAVE_FORMAT_EXTENSIBLE dwChannelMask.
type ChannelPosition uint8

const (
	FrontLeft ChannelPosition = iota
	FrontRight
	FrontCenter
	LowFrequency
	BackLeft
	BackRight
	FrontLeftOfCenter
	FrontRightOfCenter
	BackCenter
	SideLeft
	SideRight
	TopCenter
	TopFrontLeft
	TopFrontCenter
	TopFrontRight
	TopBackLeft
	TopBackCenter
	TopBackRight

	// NumChannelPositions is the number of speaker positions a file can use.
	NumChannelPositions = 18
)

var channelPositionNames = [NumChannelPositions]string{
	"front-left",
	"front-right",
	"front-center",
	"low-frequency",
	"back-left",
	"back-right",
	"front-left-of-center",
	"front-right-of-center",
	"back-center",
	"side-left",
	"side-right",
	"top-center",
	"top-front-left",
	"top-front-center",
	"top-front-right",
	"top-back-left",
	"top-back-center",
	"top-back-right",
}

// String implements the Stringer interface.
func (p ChannelPosition) String() string {
	if int(p) < NumChannelPositions {
		return channelPositionNames[p]
	}

	return fmt.Sprintf("channel(%d)", uint8(p))
}

// Mask returns the dwChannelMask bit of the position.
func (p ChannelPosition) Mask() uint32 {
	return 1 << p
}

// Channels flags which speaker positions are present in a file.
type Channels struct {
	FrontLeft          bool
	FrontRight         bool
	FrontCenter        bool
	LowFrequency       bool
	BackLeft           bool
	BackRight          bool
	FrontLeftOfCenter  bool
	FrontRightOfCenter bool
	BackCenter         bool
	SideLeft           bool
	SideRight          bool
	TopCenter          bool
	TopFrontLeft       bool
	TopFrontCenter     bool
	TopFrontRight      bool
	TopBackLeft        bool
	TopBackCenter      bool
	TopBackRight       bool
}

// Mono is a single front-left channel.
func Mono() Channels {
	return Channels{FrontLeft: true}
}

// Stereo is front-left plus front-right.
func Stereo() Channels {
	return Channels{FrontLeft: true, FrontRight: true}
}

// ChannelsFromMask derives the channel flags from a dwChannelMask. Bits above
// the last known position are ignored.
func ChannelsFromMask(mask uint32) Channels {
	var ch Channels
	for p := range ChannelPosition(NumChannelPositions) {
		if mask&p.Mask() != 0 {
			ch.set(p, true)
		}
	}

	return ch
}

// ChannelsFromCount builds the layout old-style headers imply: the first n
// positions in canonical order. n is capped to NumChannelPositions.
func ChannelsFromCount(n uint16) Channels {
	var ch Channels
	for p := range ChannelPosition(min(n, NumChannelPositions)) {
		ch.set(p, true)
	}

	return ch
}

// ChannelsOf returns the layout containing exactly the given positions.
func ChannelsOf(positions ...ChannelPosition) Channels {
	var ch Channels
	for _, p := range positions {
		ch.set(p, true)
	}

	return ch
}

// Count returns the number of channels present.
func (c Channels) Count() uint16 {
	return uint16(bits.OnesCount32(c.ChannelMask()))
}

// ChannelMask returns the WAVE_FORMAT_EXTENSIBLE dwChannelMask.
func (c Channels) ChannelMask() uint32 {
	var mask uint32

	for p, ok := range c.flags() {
		if ok {
			mask |= ChannelPosition(p).Mask()
		}
	}

	return mask
}

// Has reports whether the position is present.
func (c Channels) Has(p ChannelPosition) bool {
	if int(p) >= NumChannelPositions {
		return false
	}

	return c.flags()[p]
}

// Positions lists the present positions in canonical (on-disk) order.
func (c Channels) Positions() []ChannelPosition {
	out := make([]ChannelPosition, 0, c.Count())

	for p, ok := range c.flags() {
		if ok {
			out = append(out, ChannelPosition(p))
		}
	}

	return out
}

// String implements the Stringer interface.
func (c Channels) String() string {
	return fmt.Sprintf("%v", c.Positions())
}

func (c Channels) flags() [NumChannelPositions]bool {
	return [NumChannelPositions]bool{
		c.FrontLeft,
		c.FrontRight,
		c.FrontCenter,
		c.LowFrequency,
		c.BackLeft,
		c.BackRight,
		c.FrontLeftOfCenter,
		c.FrontRightOfCenter,
		c.BackCenter,
		c.SideLeft,
		c.SideRight,
		c.TopCenter,
		c.TopFrontLeft,
		c.TopFrontCenter,
		c.TopFrontRight,
		c.TopBackLeft,
		c.TopBackCenter,
		c.TopBackRight,
	}
}

func (c *Channels) set(p ChannelPosition, v bool) {
	switch p {
	case FrontLeft:
		c.FrontLeft = v
	case FrontRight:
		c.FrontRight = v
	case FrontCenter:
		c.FrontCenter = v
	case LowFrequency:
		c.LowFrequency = v
	case BackLeft:
		c.BackLeft = v
	case BackRight:
		c.BackRight = v
	case FrontLeftOfCenter:
		c.FrontLeftOfCenter = v
	case FrontRightOfCenter:
		c.FrontRightOfCenter = v
	case BackCenter:
		c.BackCenter = v
	case SideLeft:
		c.SideLeft = v
	case SideRight:
		c.SideRight = v
	case TopCenter:
		c.TopCenter = v
	case TopFrontLeft:
		c.TopFrontLeft = v
	case TopFrontCenter:
		c.TopFrontCenter = v
	case TopFrontRight:
		c.TopFrontRight = v
	case TopBackLeft:
		c.TopBackLeft = v
	case TopBackCenter:
		c.TopBackCenter = v
	case TopBackRight:
		c.TopBackRight = v
	}
}

// SamplesByChannel holds one frame: an optional value per speaker position.
// The zero value has no channel set.
type SamplesByChannel[T Sample] struct {
	values [NumChannelPositions]T
	mask   uint32
}

// NewSamplesByChannel fills the channels of ch, in canonical order, with
// values. The number of values must match ch.Count().
func NewSamplesByChannel[T Sample](ch Channels, values ...T) (SamplesByChannel[T], error) {
	var s SamplesByChannel[T]

	positions := ch.Positions()
	if len(positions) != len(values) {
		return s, fmt.Errorf("%w: %d values for %d channels", ErrChannelMismatch, len(values), len(positions))
	}

	for i, p := range positions {
		s.Set(p, values[i])
	}

	return s, nil
}

// Set stores v for the position. Positions outside the known range are ignored.
func (s *SamplesByChannel[T]) Set(p ChannelPosition, v T) {
	if int(p) >= NumChannelPositions {
		return
	}

	s.values[p] = v
	s.mask |= p.Mask()
}

// Clear removes the value of the position.
func (s *SamplesByChannel[T]) Clear(p ChannelPosition) {
	if int(p) >= NumChannelPositions {
		return
	}

	var zero T

	s.values[p] = zero
	s.mask &^= p.Mask()
}

// Get returns the value of the position and whether it is set.
func (s SamplesByChannel[T]) Get(p ChannelPosition) (T, bool) {
	if int(p) >= NumChannelPositions || s.mask&p.Mask() == 0 {
		var zero T
		return zero, false
	}

	return s.values[p], true
}

// MustGet returns the value of the position and panics when it isn't set.
func (s SamplesByChannel[T]) MustGet(p ChannelPosition) T {
	v, ok := s.Get(p)
	if !ok {
		panic(fmt.Sprintf("wavstream: no sample for channel %s", p))
	}

	return v
}

// Channels returns the positions that carry a value.
func (s SamplesByChannel[T]) Channels() Channels {
	return ChannelsFromMask(s.mask)
}

// Len returns the number of positions that carry a value.
func (s SamplesByChannel[T]) Len() int {
	return bits.OnesCount32(s.mask)
}

// Values returns the set values in canonical order.
func (s SamplesByChannel[T]) Values() []T {
	out := make([]T, 0, s.Len())

	for p := range ChannelPosition(NumChannelPositions) {
		if s.mask&p.Mask() != 0 {
			out = append(out, s.values[p])
		}
	}

	return out
}
