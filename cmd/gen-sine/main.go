package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/cwbudde/wavstream"
)

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("gen-sine", flag.ContinueOnError)

	output := flagSet.String("output", "output.wav", "filename to write to")
	frequency := flagSet.Float64("frequency", 440, "frequency in hertz to generate")
	length := flagSet.Float64("length", 5, "length in seconds of output file")
	sampleRate := flagSet.Uint("rate", 48000, "sample rate in hertz")
	channels := flagSet.Uint("channels", 1, "number of channels (1-18)")
	format := flagSet.String("format", "int16", "sample format: int8, int16, int24 or float")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	sampleFormat, err := parseFormat(*format)
	if err != nil {
		return err
	}

	if *channels == 0 || *channels > wavstream.NumChannelPositions {
		return fmt.Errorf("invalid channel count %d", *channels)
	}

	header := wavstream.NewWavHeader(sampleFormat, wavstream.ChannelsFromCount(uint16(*channels)), uint32(*sampleRate))
	numSamples := wavstream.SamplesForDuration(time.Duration(*length*float64(time.Second)), header.SampleRate)

	log.Printf("generating a %f sec %s sine wav at %f hz", *length, sampleFormat, *frequency)

	o, err := wavstream.CreateFile(*output, header)
	if err != nil {
		return err
	}

	sine := func(i uint32) float64 {
		return math.Sin(float64(i) / float64(header.SampleRate) * *frequency * 2 * math.Pi)
	}

	switch sampleFormat {
	case wavstream.Int8:
		return write(o, numSamples, func(i uint32) int8 { return int8(sine(i) * math.MaxInt8) })
	case wavstream.Int16:
		return write(o, numSamples, func(i uint32) int16 { return int16(sine(i) * math.MaxInt16) })
	case wavstream.Int24:
		return write(o, numSamples, func(i uint32) int32 { return int32(sine(i) * 8388607) })
	default:
		return write(o, numSamples, func(i uint32) float32 { return float32(sine(i)) })
	}
}

func parseFormat(name string) (wavstream.SampleFormat, error) {
	for _, f := range []wavstream.SampleFormat{wavstream.Int8, wavstream.Int16, wavstream.Int24, wavstream.Float} {
		if f.String() == name || (f == wavstream.Float && name == "float") {
			return f, nil
		}
	}

	return 0, fmt.Errorf("unknown sample format %q", name)
}

// write streams numSamples frames with the same value on every channel.
func write[T wavstream.Sample](o *wavstream.OpenWriter, numSamples uint32, sample func(uint32) T) error {
	w, err := wavstream.NewStreamWriter[T](o)
	if err != nil {
		o.Close()
		return err
	}

	positions := o.Channels().Positions()

	frames := func(yield func(wavstream.SamplesByChannel[T], error) bool) {
		for i := range numSamples {
			var frame wavstream.SamplesByChannel[T]

			v := sample(i)
			for _, p := range positions {
				frame.Set(p, v)
			}

			if !yield(frame, nil) {
				return
			}
		}
	}

	err = w.WriteSeq(frames)
	if err != nil {
		w.Close()
		return err
	}

	return w.Close()
}
