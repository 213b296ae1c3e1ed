package wavstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end + int(size%2)
	}

	return chunks, nil
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

// memFile is an in-memory io.ReadWriteSeeker.
type memFile struct {
	data []byte
	pos  int64
}

func newMemFile(data []byte) *memFile {
	return &memFile{data: append([]byte(nil), data...)}
}

func (m *memFile) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.data)) {
		return 0, io.EOF
	}

	n := copy(p, m.data[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.data)) {
		m.data = append(m.data, make([]byte, end-int64(len(m.data)))...)
	}

	copy(m.data[m.pos:], p)
	m.pos = end

	return len(p), nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	var pos int64

	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(len(m.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}

	if pos < 0 {
		return 0, errors.New("negative position")
	}

	m.pos = pos

	return pos, nil
}

// streamOnly hides everything but Read, so the reader can't seek.
type streamOnly struct {
	r io.Reader
}

func (s streamOnly) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

var errWriteFailed = errors.New("write failed")

// failingFile fails every write once the file holds limit bytes.
type failingFile struct {
	memFile
	limit int
}

func (f *failingFile) Write(p []byte) (int, error) {
	if int(f.pos)+len(p) > f.limit {
		return 0, errWriteFailed
	}

	return f.memFile.Write(p)
}

func classicFmt(tag, channels uint16, sampleRate uint32, bits uint16) []byte {
	blockAlign := channels * ((bits + 7) / 8)

	buf := new(bytes.Buffer)
	for _, v := range []any{tag, channels, sampleRate, sampleRate * uint32(blockAlign), blockAlign, bits} {
		binary.Write(buf, binary.LittleEndian, v)
	}

	return buf.Bytes()
}

func extensibleFmt(channels uint16, sampleRate uint32, bits uint16, mask uint32, subFormat uint16) []byte {
	buf := bytes.NewBuffer(classicFmt(wavFormatExtensible, channels, sampleRate, bits))

	guid := makeSubFormatGUID(subFormat)
	for _, v := range []any{uint16(fmtExtensionSize), bits, mask, guid} {
		binary.Write(buf, binary.LittleEndian, v)
	}

	return buf.Bytes()
}

// buildWav assembles a RIFF/WAVE file from the given chunks, in order.
func buildWav(chunks ...testChunk) []byte {
	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	for _, c := range chunks {
		size := c.size
		if size == 0 {
			size = uint32(len(c.data))
		}

		body.WriteString(c.id)
		binary.Write(body, binary.LittleEndian, size)
		body.Write(c.data)
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())

	return out.Bytes()
}

func fmtChunkOf(payload []byte) testChunk {
	return testChunk{id: "fmt ", data: payload}
}

func dataChunkOf(payload []byte) testChunk {
	return testChunk{id: "data", data: payload}
}
