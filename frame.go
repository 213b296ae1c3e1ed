package wavstream

import "fmt"

// frameCodec moves one frame between its packed on-disk form and a
// SamplesByChannel. Present channels are packed in canonical order.
type frameCodec[T Sample] struct {
	mask       uint32
	positions  []ChannelPosition
	offsets    [NumChannelPositions]int
	sampleSize int
	decode     func([]byte) (T, error)
	encode     func([]byte, T) error
}

func newFrameCodec[T Sample](h WavHeader) frameCodec[T] {
	c := frameCodec[T]{
		mask:       h.Channels.ChannelMask(),
		positions:  h.Channels.Positions(),
		sampleSize: int(h.BytesPerSample()),
	}

	for i, p := range c.positions {
		c.offsets[p] = i * c.sampleSize
	}

	return c
}

func newFrameDecoder[T Sample](h WavHeader) (frameCodec[T], error) {
	c := newFrameCodec[T](h)

	decode, err := decoderFor[T](h.SampleFormat)
	if err != nil {
		return c, err
	}

	c.decode = decode

	return c, nil
}

func newFrameEncoder[T Sample](h WavHeader) (frameCodec[T], error) {
	c := newFrameCodec[T](h)

	encode, err := encoderFor[T](h.SampleFormat)
	if err != nil {
		return c, err
	}

	c.encode = encode

	return c, nil
}

func (c *frameCodec[T]) frameSize() int {
	return len(c.positions) * c.sampleSize
}

func (c *frameCodec[T]) decodeFrame(buf []byte) (SamplesByChannel[T], error) {
	var frame SamplesByChannel[T]

	for i, p := range c.positions {
		off := i * c.sampleSize

		v, err := c.decode(buf[off : off+c.sampleSize])
		if err != nil {
			return SamplesByChannel[T]{}, fmt.Errorf("channel %s: %w", p, err)
		}

		frame.Set(p, v)
	}

	return frame, nil
}

// encodeFrame packs the channels frame carries into buf. Channels the header
// has but frame lacks are left untouched in buf.
func (c *frameCodec[T]) encodeFrame(buf []byte, frame SamplesByChannel[T]) error {
	if extra := frame.mask &^ c.mask; extra != 0 {
		return fmt.Errorf("%w: frame has %v which the header lacks", ErrChannelMismatch, ChannelsFromMask(extra))
	}

	for _, p := range c.positions {
		v, ok := frame.Get(p)
		if !ok {
			continue
		}

		off := c.offsets[p]

		err := c.encode(buf[off:off+c.sampleSize], v)
		if err != nil {
			return fmt.Errorf("channel %s: %w", p, err)
		}
	}

	return nil
}

// checkComplete reports frames that don't carry exactly the header's channels.
func (c *frameCodec[T]) checkComplete(frame SamplesByChannel[T]) error {
	if frame.mask == c.mask {
		return nil
	}

	if missing := c.mask &^ frame.mask; missing != 0 {
		return fmt.Errorf("%w: frame lacks %v", ErrChannelMismatch, ChannelsFromMask(missing))
	}

	return fmt.Errorf("%w: frame has %v which the header lacks", ErrChannelMismatch, ChannelsFromMask(frame.mask&^c.mask))
}
