package wavstream

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

// Conversion strategies are plain functions picked from static tables
// indexed by the file's SampleFormat, one table per Go sample type. A nil
// entry is a narrowing conversion and is refused.

var (
	int8Decoders = [Float + 1]func([]byte) (int8, error){
		Int8: decodeInt8,
	}
	int16Decoders = [Float + 1]func([]byte) (int16, error){
		Int8:  decodeInt8AsInt16,
		Int16: decodeInt16,
	}
	int24Decoders = [Float + 1]func([]byte) (int32, error){
		Int8:  decodeInt8AsInt24,
		Int16: decodeInt16AsInt24,
		Int24: decodeInt24,
	}
	floatDecoders = [Float + 1]func([]byte) (float32, error){
		Int8:  decodeInt8AsFloat,
		Int16: decodeInt16AsFloat,
		Int24: decodeInt24AsFloat,
		Float: decodeFloat,
	}

	int8Encoders = [Float + 1]func([]byte, int8) error{
		Int8:  encodeInt8,
		Int16: encodeInt8AsInt16,
		Int24: encodeInt8AsInt24,
		Float: encodeInt8AsFloat,
	}
	int16Encoders = [Float + 1]func([]byte, int16) error{
		Int16: encodeInt16,
		Int24: encodeInt16AsInt24,
		Float: encodeInt16AsFloat,
	}
	int24Encoders = [Float + 1]func([]byte, int32) error{
		Int24: encodeInt24,
		Float: encodeInt24AsFloat,
	}
	floatEncoders = [Float + 1]func([]byte, float32) error{
		Float: encodeFloat,
	}
)

// decoderFor returns the function reading a stored sample of the given
// format as T. Only widening conversions are available.
func decoderFor[T Sample](format SampleFormat) (func([]byte) (T, error), error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var (
		zero T
		fn   any
	)

	switch any(zero).(type) {
	case int8:
		if f := int8Decoders[format]; f != nil {
			fn = f
		}
	case int16:
		if f := int16Decoders[format]; f != nil {
			fn = f
		}
	case int32:
		if f := int24Decoders[format]; f != nil {
			fn = f
		}
	case float32:
		if f := floatDecoders[format]; f != nil {
			fn = f
		}
	}

	if fn == nil {
		return nil, fmt.Errorf("%w: can't read %s samples as %s", ErrUnsupportedConversion, format, sampleFormatOf[T]())
	}

	return fn.(func([]byte) (T, error)), nil
}

// encoderFor returns the function storing a T in the given format. Only
// widening conversions are available.
func encoderFor[T Sample](format SampleFormat) (func([]byte, T) error, error) {
	if !format.valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	var (
		zero T
		fn   any
	)

	switch any(zero).(type) {
	case int8:
		if f := int8Encoders[format]; f != nil {
			fn = f
		}
	case int16:
		if f := int16Encoders[format]; f != nil {
			fn = f
		}
	case int32:
		if f := int24Encoders[format]; f != nil {
			fn = f
		}
	case float32:
		if f := floatEncoders[format]; f != nil {
			fn = f
		}
	}

	if fn == nil {
		return nil, fmt.Errorf("%w: can't write %s samples as %s", ErrUnsupportedConversion, sampleFormatOf[T](), format)
	}

	return fn.(func([]byte, T) error), nil
}

// sampleFormatOf returns the format a Go sample type natively holds.
func sampleFormatOf[T Sample]() SampleFormat {
	var zero T

	switch any(zero).(type) {
	case int8:
		return Int8
	case int16:
		return Int16
	case int32:
		return Int24
	default:
		return Float
	}
}

func readInt16(b []byte) int16 {
	return int16(binary.LittleEndian.Uint16(b))
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func putInt16(dst []byte, v int16) {
	binary.LittleEndian.PutUint16(dst, uint16(v))
}

func putInt24(dst []byte, v int32) {
	copy(dst[:3], audio.Int32toInt24LEBytes(v))
}

func putFloat(dst []byte, v float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(v))
}

func decodeInt8(b []byte) (int8, error) {
	return int8(b[0]), nil
}

func decodeInt8AsInt16(b []byte) (int16, error) {
	return Int8ToInt16(int8(b[0])), nil
}

func decodeInt16(b []byte) (int16, error) {
	return readInt16(b), nil
}

func decodeInt8AsInt24(b []byte) (int32, error) {
	return Int8ToInt24(int8(b[0])), nil
}

func decodeInt16AsInt24(b []byte) (int32, error) {
	return Int16ToInt24(readInt16(b)), nil
}

func decodeInt24(b []byte) (int32, error) {
	return audio.Int24LETo32(b[:3]), nil
}

func decodeInt8AsFloat(b []byte) (float32, error) {
	return Int8ToFloat32(int8(b[0])), nil
}

func decodeInt16AsFloat(b []byte) (float32, error) {
	return Int16ToFloat32(readInt16(b)), nil
}

func decodeInt24AsFloat(b []byte) (float32, error) {
	return Int24ToFloat32(audio.Int24LETo32(b[:3]))
}

func decodeFloat(b []byte) (float32, error) {
	return readFloat(b), nil
}

func encodeInt8(dst []byte, v int8) error {
	dst[0] = byte(v)
	return nil
}

func encodeInt8AsInt16(dst []byte, v int8) error {
	putInt16(dst, Int8ToInt16(v))
	return nil
}

func encodeInt8AsInt24(dst []byte, v int8) error {
	putInt24(dst, Int8ToInt24(v))
	return nil
}

func encodeInt8AsFloat(dst []byte, v int8) error {
	putFloat(dst, Int8ToFloat32(v))
	return nil
}

func encodeInt16(dst []byte, v int16) error {
	putInt16(dst, v)
	return nil
}

func encodeInt16AsInt24(dst []byte, v int16) error {
	putInt24(dst, Int16ToInt24(v))
	return nil
}

func encodeInt16AsFloat(dst []byte, v int16) error {
	putFloat(dst, Int16ToFloat32(v))
	return nil
}

func encodeInt24(dst []byte, v int32) error {
	if err := checkInt24(v); err != nil {
		return err
	}

	putInt24(dst, v)

	return nil
}

func encodeInt24AsFloat(dst []byte, v int32) error {
	f, err := Int24ToFloat32(v)
	if err != nil {
		return err
	}

	putFloat(dst, f)

	return nil
}

func encodeFloat(dst []byte, v float32) error {
	putFloat(dst, v)
	return nil
}
