// Package wavstream reads and writes RIFF/WAVE files sample by sample.
//
// Files hold 8, 16 or 24-bit PCM or 32-bit IEEE float samples for any
// combination of the 18 WAVE_FORMAT_EXTENSIBLE speaker positions. A frame
// is a SamplesByChannel value: one optional sample per position.
//
// Opening a file is a two step affair. ReadWav or WriteWav handles the
// header and returns an OpenReader or OpenWriter, which is then turned into
// one typed reader or writer:
//
//   - NewRandomAccessReader and NewRandomAccessWriter address frames by
//     index and need a seekable stream.
//   - NewStreamReader and NewStreamWriter go front to back.
//
// The type parameter picks the Go type samples are exchanged as (int8,
// int16, int32 for 24-bit, float32). Conversions only ever widen: a 16-bit
// file can be read as int32 or float32 but not as int8, and an int16 writer
// can target 16-bit, 24-bit or float files.
//
// Writers patch the RIFF and data chunk sizes on Flush and Close. CreateWav
// and StreamWriter.WriteAll do it for you, even on failure.
package wavstream
