package wavstream

import (
	"errors"
	"math"
	"testing"
)

func TestInt8ToFloat32(t *testing.T) {
	tests := []struct {
		in   int8
		want float32
	}{
		{127, 1},
		{-128, -1},
		{125, 0.9843137},
		{122, 0.9607843},
		{0, 0.003921628},
		{-1, -0.0039215684},
		{63, 0.49803925},
		{-65, -0.5058824},
	}

	for _, tt := range tests {
		got := Int8ToFloat32(tt.in)
		if got != tt.want {
			t.Fatalf("Int8ToFloat32(%d)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt16ToFloat32(t *testing.T) {
	tests := []struct {
		in   int16
		want float32
	}{
		{math.MaxInt16, 1},
		{math.MinInt16, -1},
		{16383, 0.49999237},
		{-16385, -0.5000229},
		{0, 1.5258789e-5},
		{-1, -1.5258789e-5},
	}

	for _, tt := range tests {
		got := Int16ToFloat32(tt.in)
		if got != tt.want {
			t.Fatalf("Int16ToFloat32(%d)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt24ToFloat32(t *testing.T) {
	tests := []struct {
		in   int32
		want float32
	}{
		{maxInt24, 1},
		{minInt24, -1},
		{4194303, 0.5},
		{-4194305, -0.5000001},
		{0, 1.1920929e-7},
		{-1, -5.9604645e-8},
	}

	for _, tt := range tests {
		got, err := Int24ToFloat32(tt.in)
		if err != nil {
			t.Fatalf("Int24ToFloat32(%d) returned error: %v", tt.in, err)
		}

		if got != tt.want {
			t.Fatalf("Int24ToFloat32(%d)=%v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt24ToFloat32RejectsOutOfRange(t *testing.T) {
	for _, v := range []int32{maxInt24 + 1, minInt24 - 1, math.MaxInt32, math.MinInt32} {
		_, err := Int24ToFloat32(v)
		if !errors.Is(err, ErrInvalidSampleValue) {
			t.Fatalf("Int24ToFloat32(%d) error=%v, want ErrInvalidSampleValue", v, err)
		}
	}
}

func TestIntegerWidening(t *testing.T) {
	t.Run("int8 to int16", func(t *testing.T) {
		tests := []struct {
			in   int8
			want int16
		}{
			{127, 32767},
			{-128, -32768},
			{0, 255},
			{-1, -256},
			{125, 32255},
			{122, 31487},
		}

		for _, tt := range tests {
			if got := Int8ToInt16(tt.in); got != tt.want {
				t.Fatalf("Int8ToInt16(%d)=%d, want %d", tt.in, got, tt.want)
			}
		}
	})

	t.Run("int8 to int24", func(t *testing.T) {
		tests := []struct {
			in   int8
			want int32
		}{
			{127, maxInt24},
			{-128, minInt24},
			{0, 65535},
			{-1, -65536},
			{125, 8257535},
			{122, 8060927},
		}

		for _, tt := range tests {
			if got := Int8ToInt24(tt.in); got != tt.want {
				t.Fatalf("Int8ToInt24(%d)=%d, want %d", tt.in, got, tt.want)
			}
		}
	})

	t.Run("int16 to int24", func(t *testing.T) {
		tests := []struct {
			in   int16
			want int32
		}{
			{math.MaxInt16, maxInt24},
			{math.MinInt16, minInt24},
			{0, 255},
			{-1, -256},
			{math.MaxInt16 / 2, maxInt24 / 2},
		}

		for _, tt := range tests {
			if got := Int16ToInt24(tt.in); got != tt.want {
				t.Fatalf("Int16ToInt24(%d)=%d, want %d", tt.in, got, tt.want)
			}
		}
	})
}

func TestConversionsOnlyWiden(t *testing.T) {
	formats := []SampleFormat{Int8, Int16, Int24, Float}

	check := func(t *testing.T, name string, native SampleFormat, decodeErr, encodeErr func(SampleFormat) error) {
		t.Helper()

		for _, f := range formats {
			err := decodeErr(f)
			if f <= native && err != nil {
				t.Fatalf("%s: reading %s failed: %v", name, f, err)
			}

			if f > native && !errors.Is(err, ErrUnsupportedConversion) {
				t.Fatalf("%s: reading %s error=%v, want ErrUnsupportedConversion", name, f, err)
			}

			err = encodeErr(f)
			if f >= native && err != nil {
				t.Fatalf("%s: writing %s failed: %v", name, f, err)
			}

			if f < native && !errors.Is(err, ErrUnsupportedConversion) {
				t.Fatalf("%s: writing %s error=%v, want ErrUnsupportedConversion", name, f, err)
			}
		}
	}

	check(t, "int8", Int8,
		func(f SampleFormat) error { _, err := decoderFor[int8](f); return err },
		func(f SampleFormat) error { _, err := encoderFor[int8](f); return err })
	check(t, "int16", Int16,
		func(f SampleFormat) error { _, err := decoderFor[int16](f); return err },
		func(f SampleFormat) error { _, err := encoderFor[int16](f); return err })
	check(t, "int32", Int24,
		func(f SampleFormat) error { _, err := decoderFor[int32](f); return err },
		func(f SampleFormat) error { _, err := encoderFor[int32](f); return err })
	check(t, "float32", Float,
		func(f SampleFormat) error { _, err := decoderFor[float32](f); return err },
		func(f SampleFormat) error { _, err := encoderFor[float32](f); return err })
}

func TestSampleCodecBytes(t *testing.T) {
	buf := make([]byte, 4)

	encode24, err := encoderFor[int32](Int24)
	if err != nil {
		t.Fatal(err)
	}

	err = encode24(buf, -2)
	if err != nil {
		t.Fatal(err)
	}

	if buf[0] != 0xFE || buf[1] != 0xFF || buf[2] != 0xFF {
		t.Fatalf("-2 as int24 = % x, want fe ff ff", buf[:3])
	}

	decode24, err := decoderFor[int32](Int24)
	if err != nil {
		t.Fatal(err)
	}

	got, err := decode24(buf)
	if err != nil || got != -2 {
		t.Fatalf("decoded %d, %v; want -2", got, err)
	}

	err = encode24(buf, maxInt24+1)
	if !errors.Is(err, ErrInvalidSampleValue) {
		t.Fatalf("encoding %d error=%v, want ErrInvalidSampleValue", maxInt24+1, err)
	}

	decode8, err := decoderFor[float32](Int8)
	if err != nil {
		t.Fatal(err)
	}

	f, _ := decode8([]byte{0x7D})
	if f != 0.9843137 {
		t.Fatalf("0x7d as float=%v, want 0.9843137", f)
	}
}
