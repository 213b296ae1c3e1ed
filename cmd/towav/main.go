// This tool converts mp3, ogg vorbis and aiff files into wav files.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wavstream"
)

const readFrames = 4096

var (
	errMissingPath   = errors.New("you must set the -in flag")
	errUnknownFormat = errors.New("unknown input format")

	errUnknownSampleFormat = errors.New("unknown sample format")
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("towav", flag.ContinueOnError)

	in := flagSet.String("in", "", "the mp3, ogg or aiff file to convert")
	out := flagSet.String("out", "", "the wav file to write, defaults to the input with a .wav extension")
	kind := flagSet.String("type", "", "input type (mp3, ogg or aiff), defaults to the input extension")
	format := flagSet.String("format", "", "output sample format (int8, int16, int24 or float32), defaults to the input's; only widening is supported")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *in == "" {
		return errMissingPath
	}

	if *out == "" {
		*out = strings.TrimSuffix(*in, filepath.Ext(*in)) + ".wav"
	}

	if *kind == "" {
		*kind = strings.TrimPrefix(strings.ToLower(filepath.Ext(*in)), ".")
	}

	dst := output{path: *out}

	if *format != "" {
		dst.format, err = parseFormat(*format)
		if err != nil {
			return err
		}

		dst.formatSet = true
	}

	file, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *in, err)
	}
	defer file.Close()

	switch *kind {
	case "mp3":
		err = convertMP3(file, dst)
	case "ogg", "oga":
		err = convertVorbis(file, dst)
	case "aif", "aiff":
		err = convertAiff(file, dst)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, *kind)
	}

	if err != nil {
		return err
	}

	log.Printf("%s converted to %s", *in, *out)

	return nil
}

// output is the wav file to produce.
type output struct {
	path      string
	format    wavstream.SampleFormat
	formatSet bool
}

func (o output) header(native wavstream.SampleFormat, positions []wavstream.ChannelPosition, sampleRate uint32) wavstream.WavHeader {
	format := native
	if o.formatSet {
		format = o.format
	}

	return wavstream.NewWavHeader(format, wavstream.ChannelsOf(positions...), sampleRate)
}

func parseFormat(name string) (wavstream.SampleFormat, error) {
	for _, f := range []wavstream.SampleFormat{wavstream.Int8, wavstream.Int16, wavstream.Int24, wavstream.Float} {
		if f.String() == name || (f == wavstream.Float && name == "float") {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", errUnknownSampleFormat, name)
}

// convert writes the interleaved samples read returns to a new wav file.
// native is the decoder's sample format and positions names the speaker of
// each interleaved channel.
func convert[T wavstream.Sample](
	dst output,
	native wavstream.SampleFormat,
	positions []wavstream.ChannelPosition,
	sampleRate uint32,
	read func([]T) (int, error),
) error {
	o, err := wavstream.CreateFile(dst.path, dst.header(native, positions, sampleRate))
	if err != nil {
		return err
	}

	w, err := wavstream.NewStreamWriter[T](o)
	if err != nil {
		return errors.Join(err, o.Close(), os.Remove(dst.path))
	}

	err = copyFrames(w, positions, read)

	return errors.Join(err, w.Close())
}

func copyFrames[T wavstream.Sample](w *wavstream.StreamWriter[T], positions []wavstream.ChannelPosition, read func([]T) (int, error)) error {
	buf := make([]T, readFrames*len(positions))

	for {
		n, err := read(buf)
		n -= n % len(positions)

		for i := 0; i < n; i += len(positions) {
			var frame wavstream.SamplesByChannel[T]
			for j, p := range positions {
				frame.Set(p, buf[i+j])
			}

			werr := w.WriteFrame(frame)
			if werr != nil {
				return werr
			}
		}

		if err == io.EOF || (err == nil && n == 0) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("failed to decode input: %w", err)
		}
	}
}
