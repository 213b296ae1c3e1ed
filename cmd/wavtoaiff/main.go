// This tool converts a wav file into an aiff file with the same samples and
// stores it next to the source.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/cwbudde/wavstream"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

const bufferSize = 1 << 16

var errMissingPath = errors.New("you must set the -path flag")

func main() {
	err := run(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	flagSet := flag.NewFlagSet("wavtoaiff", flag.ContinueOnError)
	flagPath := flagSet.String("path", "", "The path to the wav file to convert to aiff")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *flagPath == "" {
		return errMissingPath
	}

	sourcePath := *flagPath
	if strings.HasPrefix(sourcePath, "~/") {
		usr, err := user.Current()
		if err != nil {
			return fmt.Errorf("failed to get the user home directory: %w", err)
		}

		sourcePath = strings.Replace(sourcePath, "~", usr.HomeDir, 1)
	}

	in, err := wavstream.OpenFile(sourcePath)
	if err != nil {
		return err
	}
	defer in.Close()

	outPath := sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	bitDepth := int(in.BitsPerSample())
	if in.SampleFormat() == wavstream.Float {
		bitDepth = 24
	}

	encoder := aiff.NewEncoder(outFile, int(in.SampleRate()), bitDepth, int(in.NumChannels()))

	switch in.SampleFormat() {
	case wavstream.Int8:
		err = copyInts[int8](in, encoder)
	case wavstream.Int16:
		err = copyInts[int16](in, encoder)
	case wavstream.Int24:
		err = copyInts[int32](in, encoder)
	default:
		err = copyFloats(in, encoder, bitDepth)
	}

	if err != nil {
		return err
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("failed to finish %s: %w", outPath, err)
	}

	log.Printf("wav file converted to %s", outPath)

	return nil
}

func copyInts[T int8 | int16 | int32](in *wavstream.OpenReader, encoder *aiff.Encoder) error {
	r, err := wavstream.NewStreamReader[T](in)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{Data: make([]int, bufferSize)}

	for {
		n, err := wavstream.FillIntBuffer(r.Frames(), buf)
		if err != nil {
			return err
		}

		if n == 0 {
			return nil
		}

		err = encoder.Write(&audio.IntBuffer{Data: buf.Data[:n], Format: buf.Format, SourceBitDepth: buf.SourceBitDepth})
		if err != nil {
			return err
		}
	}
}

func copyFloats(in *wavstream.OpenReader, encoder *aiff.Encoder, bitDepth int) error {
	r, err := wavstream.NewStreamReader[float32](in)
	if err != nil {
		return err
	}

	buf := &audio.Float32Buffer{Data: make([]float32, bufferSize)}

	for {
		n, err := wavstream.FillFloat32Buffer(r.Frames(), buf)
		if err != nil {
			return err
		}

		if n == 0 {
			return nil
		}

		err = encoder.Write(float32ToIntBuffer(buf.Data[:n], buf.Format, bitDepth))
		if err != nil {
			return err
		}
	}
}

func float32ToIntBuffer(data []float32, format *audio.Format, bitDepth int) *audio.IntBuffer {
	intBuf := &audio.IntBuffer{
		Format:         format,
		SourceBitDepth: bitDepth,
		Data:           make([]int, len(data)),
	}
	for i, v := range data {
		intBuf.Data[i] = float32ToPCMInt(v, bitDepth)
	}

	return intBuf
}

func float32ToPCMInt(value float32, bitDepth int) int {
	value = clampFloat32(value, -1, 1)

	switch bitDepth {
	case 8:
		return int(clampScaledPCM(value, 128.0, 127))
	case 16:
		return int(clampScaledPCM(value, 32768.0, 32767))
	case 24:
		return int(clampScaledPCM(value, 8388608.0, 8388607))
	case 32:
		return int(clampScaledPCM(value, 2147483648.0, 2147483647))
	default:
		return 0
	}
}

func clampScaledPCM(value float32, scale float64, max int64) int32 {
	sample := min(int64(math.Round(float64(value)*scale)), max)

	min := int64(-scale)
	if sample < min {
		sample = min
	}

	return int32(sample)
}

func clampFloat32(value, min, max float32) float32 {
	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}
