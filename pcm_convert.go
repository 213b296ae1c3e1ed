package wavstream

import "fmt"

const (
	minInt24 = -8388608
	maxInt24 = 8388607

	int8AddForFloat   float32 = 128
	int8DivideFloat   float32 = 127.5
	int16AddForFloat  float32 = 32768
	int16DivideFloat  float32 = 32767.5
	int24AddForFloat  float32 = 8388608
	int24DivideFloat  float32 = 8388607.5
	int8ToInt16Scale          = 256
	int8ToInt24Scale          = 65536
	int16ToInt24Scale         = 256
)

// Sample is the set of Go types samples can be read or written as. Int24
// samples travel in an int32.
type Sample interface {
	int8 | int16 | int32 | float32
}

// checkInt24 reports values a 24-bit sample can't hold.
func checkInt24(v int32) error {
	if v < minInt24 || v > maxInt24 {
		return fmt.Errorf("%w: %d is not a 24-bit integer", ErrInvalidSampleValue, v)
	}

	return nil
}

// Int8ToFloat32 maps [-128, 127] onto [-1, 1].
func Int8ToFloat32(v int8) float32 {
	abs := float32(v) + int8AddForFloat
	return float32(abs/int8DivideFloat) - 1
}

// Int16ToFloat32 maps [-32768, 32767] onto [-1, 1].
func Int16ToFloat32(v int16) float32 {
	abs := float32(v) + int16AddForFloat
	return float32(abs/int16DivideFloat) - 1
}

// Int24ToFloat32 maps [-8388608, 8388607] onto [-1, 1].
func Int24ToFloat32(v int32) (float32, error) {
	if err := checkInt24(v); err != nil {
		return 0, err
	}

	abs := float32(v) + int24AddForFloat

	return float32(abs/int24DivideFloat) - 1, nil
}

// The integer widenings below map the max of the narrow range onto the max
// of the wide range and the min onto the min.

// Int8ToInt16 widens an 8-bit sample to 16 bits.
func Int8ToInt16(v int8) int16 {
	w := int32(v)
	if w >= 0 {
		return int16((w+1)*int8ToInt16Scale - 1)
	}

	return int16(w * int8ToInt16Scale)
}

// Int8ToInt24 widens an 8-bit sample to 24 bits.
func Int8ToInt24(v int8) int32 {
	w := int32(v)
	if w >= 0 {
		return (w+1)*int8ToInt24Scale - 1
	}

	return w * int8ToInt24Scale
}

// Int16ToInt24 widens a 16-bit sample to 24 bits.
func Int16ToInt24(v int16) int32 {
	w := int32(v)
	if w >= 0 {
		return (w+1)*int16ToInt24Scale - 1
	}

	return w * int16ToInt24Scale
}
