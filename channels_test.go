package wavstream

import (
	"errors"
	"slices"
	"testing"
)

func TestChannelMaskRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mask uint32
	}{
		{"mono", 0x4},
		{"stereo", 0x3},
		{"5.1", 0x3F},
		{"7.1", 0x63F},
		{"all", 1<<NumChannelPositions - 1},
		{"none", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChannelsFromMask(tt.mask).ChannelMask()
			if got != tt.mask {
				t.Fatalf("ChannelsFromMask(%#x).ChannelMask()=%#x", tt.mask, got)
			}
		})
	}
}

func TestChannelsFromMaskIgnoresUnknownBits(t *testing.T) {
	ch := ChannelsFromMask(0x80000003)
	if ch != Stereo() {
		t.Fatalf("got %v, want stereo", ch)
	}
}

func TestChannelsFromCount(t *testing.T) {
	tests := []struct {
		n    uint16
		want []ChannelPosition
	}{
		{1, []ChannelPosition{FrontLeft}},
		{2, []ChannelPosition{FrontLeft, FrontRight}},
		{6, []ChannelPosition{FrontLeft, FrontRight, FrontCenter, LowFrequency, BackLeft, BackRight}},
	}

	for _, tt := range tests {
		got := ChannelsFromCount(tt.n).Positions()
		if !slices.Equal(got, tt.want) {
			t.Fatalf("ChannelsFromCount(%d)=%v, want %v", tt.n, got, tt.want)
		}
	}

	if got := ChannelsFromCount(40).Count(); got != NumChannelPositions {
		t.Fatalf("ChannelsFromCount(40).Count()=%d, want %d", got, NumChannelPositions)
	}
}

func TestChannelsPositionsAreCanonical(t *testing.T) {
	ch := ChannelsOf(TopBackRight, FrontCenter, FrontLeft)

	want := []ChannelPosition{FrontLeft, FrontCenter, TopBackRight}
	if got := ch.Positions(); !slices.Equal(got, want) {
		t.Fatalf("Positions()=%v, want %v", got, want)
	}

	if ch.Count() != 3 || !ch.Has(TopBackRight) || ch.Has(FrontRight) {
		t.Fatalf("unexpected layout %v", ch)
	}
}

func TestSamplesByChannel(t *testing.T) {
	frame, err := NewSamplesByChannel[int16](Stereo(), 10, -10)
	if err != nil {
		t.Fatal(err)
	}

	if v, ok := frame.Get(FrontRight); !ok || v != -10 {
		t.Fatalf("Get(FrontRight)=%d, %v", v, ok)
	}

	if _, ok := frame.Get(FrontCenter); ok {
		t.Fatal("FrontCenter unexpectedly set")
	}

	frame.Clear(FrontLeft)

	if frame.Channels() != ChannelsOf(FrontRight) || frame.Len() != 1 {
		t.Fatalf("after Clear: channels=%v len=%d", frame.Channels(), frame.Len())
	}

	if got := frame.Values(); !slices.Equal(got, []int16{-10}) {
		t.Fatalf("Values()=%v", got)
	}

	_, err = NewSamplesByChannel[int16](Stereo(), 1)
	if !errors.Is(err, ErrChannelMismatch) {
		t.Fatalf("error=%v, want ErrChannelMismatch", err)
	}
}

func TestSamplesByChannelMustGetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustGet on an unset channel did not panic")
		}
	}()

	var frame SamplesByChannel[float32]
	frame.MustGet(SideLeft)
}
