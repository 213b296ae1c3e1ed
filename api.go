package wavstream

import "time"

// Info describes the audio layout of an open wav file. OpenReader and
// OpenWriter implement it, and every typed reader and writer exposes it
// through Info().
type Info interface {
	Header() WavHeader
	SampleFormat() SampleFormat
	Channels() Channels
	NumChannels() uint16
	SampleRate() uint32
	BitsPerSample() uint16
	BytesPerSample() uint16
	// LenSamples is the number of frames in the file, or written so far.
	LenSamples() uint32
	Duration() time.Duration
}

// Handle is what every typed reader and writer offers, whatever the
// underlying stream supports.
type Handle interface {
	Info() Info
	Close() error
}

// FrameReader is the read capability of a seekable source.
type FrameReader[T Sample] interface {
	Handle
	LenSamples() uint32
	ReadSample(index uint32) (SamplesByChannel[T], error)
	ReadChannel(index uint32, p ChannelPosition) (T, error)
}

// FrameWriter is the write capability of a seekable sink.
type FrameWriter[T Sample] interface {
	Handle
	WriteSamples(index uint32, frame SamplesByChannel[T]) error
	Flush() error
}

var (
	_ Info = (*OpenReader)(nil)
	_ Info = (*OpenWriter)(nil)

	_ Handle               = (*StreamReader[int16])(nil)
	_ Handle               = (*StreamWriter[int16])(nil)
	_ FrameReader[float32] = (*RandomAccessReader[float32])(nil)
	_ FrameWriter[int32]   = (*RandomAccessWriter[int32])(nil)
)

// Clone returns a deep copy of the chunk.
func (f *FmtChunk) Clone() *FmtChunk {
	if f == nil {
		return nil
	}

	out := *f
	if f.Extensible != nil {
		ext := *f.Extensible
		out.Extensible = &ext
	}

	return &out
}
