package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/wavstream"
	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

func TestClampFloat32(t *testing.T) {
	tests := []struct {
		name  string
		value float32
		want  float32
	}{
		{name: "below", value: -2, want: -1},
		{name: "inside", value: 0.25, want: 0.25},
		{name: "above", value: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clampFloat32(tt.value, -1, 1)
			if got != tt.want {
				t.Fatalf("clampFloat32(%f)=%f, want %f", tt.value, got, tt.want)
			}
		})
	}
}

func TestFloat32ToPCMInt(t *testing.T) {
	tests := []struct {
		name     string
		value    float32
		bitDepth int
		want     int
	}{
		{name: "8bit min", value: -1, bitDepth: 8, want: -128},
		{name: "8bit max", value: 1, bitDepth: 8, want: 127},
		{name: "16bit half", value: 0.5, bitDepth: 16, want: 16384},
		{name: "24bit half", value: 0.5, bitDepth: 24, want: 4194304},
		{name: "32bit quarter", value: 0.25, bitDepth: 32, want: 536870912},
		{name: "unsupported", value: 0.5, bitDepth: 12, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := float32ToPCMInt(tt.value, tt.bitDepth)
			if got != tt.want {
				t.Fatalf("float32ToPCMInt(%f,%d)=%d, want %d", tt.value, tt.bitDepth, got, tt.want)
			}
		})
	}
}

func TestFloat32ToIntBuffer(t *testing.T) {
	format := &audio.Format{NumChannels: 1, SampleRate: 48000}
	in := []float32{-1.5, 0, 0.5, 1.5}

	got := float32ToIntBuffer(in, format, 16)
	if got.SourceBitDepth != 16 {
		t.Fatalf("unexpected bit depth %d", got.SourceBitDepth)
	}

	if got.Format != format {
		t.Fatalf("expected returned format pointer to match input")
	}

	want := []int{-32768, 0, 16384, 32767}
	if len(got.Data) != len(want) {
		t.Fatalf("unexpected data length %d", len(got.Data))
	}

	for i := range want {
		if got.Data[i] != want[i] {
			t.Fatalf("sample[%d]=%d, want %d", i, got.Data[i], want[i])
		}
	}
}

func writeWav[T wavstream.Sample](t *testing.T, path string, h wavstream.WavHeader, values ...T) {
	t.Helper()

	o, err := wavstream.CreateFile(path, h)
	if err != nil {
		t.Fatal(err)
	}

	w, err := wavstream.NewStreamWriter[T](o)
	if err != nil {
		t.Fatal(err)
	}

	positions := h.Channels.Positions()
	for i := 0; i+len(positions) <= len(values); i += len(positions) {
		var frame wavstream.SamplesByChannel[T]
		for j, p := range positions {
			frame.Set(p, values[i+j])
		}

		err = w.WriteFrame(frame)
		if err != nil {
			t.Fatal(err)
		}
	}

	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}
}

func readAiff(t *testing.T, path string) (*aiff.Decoder, *audio.IntBuffer) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })

	dec := aiff.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("%s is not a valid aiff file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}

	return dec, buf
}

func TestRunConvertsInt16(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "stereo.wav")

	samples := []int16{0, 1, -1, 1000, 32767, -32768}
	writeWav(t, src, wavstream.NewWavHeader(wavstream.Int16, wavstream.Stereo(), 44100), samples...)

	err := run([]string{"-path", src})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	dec, buf := readAiff(t, filepath.Join(dir, "stereo.aif"))

	if int(dec.NumChans) != 2 || int(dec.BitDepth) != 16 || int(dec.SampleRate) != 44100 {
		t.Fatalf("unexpected aiff layout: %d ch, %d bits, %d Hz", dec.NumChans, dec.BitDepth, dec.SampleRate)
	}

	if len(buf.Data) != len(samples) {
		t.Fatalf("aiff holds %d samples, want %d", len(buf.Data), len(samples))
	}

	for i, v := range samples {
		if buf.Data[i] != int(v) {
			t.Fatalf("sample %d=%d, want %d", i, buf.Data[i], v)
		}
	}
}

func TestRunConvertsFloatTo24Bit(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "float.wav")

	writeWav(t, src, wavstream.NewWavHeader(wavstream.Float, wavstream.Mono(), 8000), float32(0.5), -1, 2)

	err := run([]string{"-path", src})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	dec, buf := readAiff(t, filepath.Join(dir, "float.aif"))
	if int(dec.BitDepth) != 24 {
		t.Fatalf("bit depth=%d, want 24", dec.BitDepth)
	}

	want := []int{4194304, -8388608, 8388607}
	for i, v := range want {
		if buf.Data[i] != v {
			t.Fatalf("sample %d=%d, want %d", i, buf.Data[i], v)
		}
	}
}

func TestRunMissingPath(t *testing.T) {
	err := run(nil)
	if !errors.Is(err, errMissingPath) {
		t.Fatalf("error=%v, want errMissingPath", err)
	}
}

func TestRunInvalidWav(t *testing.T) {
	src := filepath.Join(t.TempDir(), "bad.wav")

	err := os.WriteFile(src, []byte("RIFF"), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	err = run([]string{"-path", src})
	if !errors.Is(err, wavstream.ErrMalformedContainer) {
		t.Fatalf("error=%v, want ErrMalformedContainer", err)
	}
}
