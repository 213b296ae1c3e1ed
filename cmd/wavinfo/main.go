// This tool prints the layout of the passed wav files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cwbudde/wavstream"
)

const missingPathMessage = "You must pass the path of at least one file to inspect"

var errMissingPath = errors.New("missing path argument")

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	for _, path := range args {
		err := describe(path, out)
		if err != nil {
			return err
		}
	}

	return nil
}

func describe(path string, out io.Writer) error {
	o, err := wavstream.OpenFile(path)
	if err != nil {
		return err
	}
	defer o.Close()

	fmtChunk := o.FmtChunk()

	fmt.Fprintf(out, "%s:\n", path)
	fmt.Fprintf(out, "Format: %s (tag %#04x)\n", o.SampleFormat(), fmtChunk.FormatTag)
	fmt.Fprintf(out, "Channels: %d %v\n", o.NumChannels(), o.Channels())
	fmt.Fprintf(out, "Sample rate: %d Hz\n", o.SampleRate())
	fmt.Fprintf(out, "Bits per sample: %d (declared %d)\n", o.BitsPerSample(), fmtChunk.BitsPerSample)
	fmt.Fprintf(out, "Samples: %d\n", o.LenSamples())
	fmt.Fprintf(out, "Duration: %s\n", o.Duration())
	fmt.Fprintf(out, "Data: %d bytes at offset %d\n", o.DataLength(), o.DataStart())

	for _, c := range o.Chunks() {
		fmt.Fprintf(out, "\tchunk %q:\t%d bytes at offset %d\n", c.String(), c.Size, c.Offset)
	}

	return nil
}
