package wavstream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

const fileBufferSize = 64 * 1024

// bufferedReadSeeker buffers reads from a file while keeping Seek
// consistent with what has been handed out.
type bufferedReadSeeker struct {
	f  *os.File
	br *bufio.Reader
}

func newBufferedReadSeeker(f *os.File) *bufferedReadSeeker {
	return &bufferedReadSeeker{f: f, br: bufio.NewReaderSize(f, fileBufferSize)}
}

func (b *bufferedReadSeeker) Read(p []byte) (int, error) {
	return b.br.Read(p)
}

func (b *bufferedReadSeeker) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent {
		offset -= int64(b.br.Buffered())
	}

	pos, err := b.f.Seek(offset, whence)
	if err != nil {
		return 0, err
	}

	b.br.Reset(b.f)

	return pos, nil
}

// bufferedWriteSeeker buffers writes to a file and flushes before seeking.
type bufferedWriteSeeker struct {
	f  *os.File
	bw *bufio.Writer
}

func newBufferedWriteSeeker(f *os.File) *bufferedWriteSeeker {
	return &bufferedWriteSeeker{f: f, bw: bufio.NewWriterSize(f, fileBufferSize)}
}

func (b *bufferedWriteSeeker) Write(p []byte) (int, error) {
	return b.bw.Write(p)
}

func (b *bufferedWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	err := b.bw.Flush()
	if err != nil {
		return 0, err
	}

	return b.f.Seek(offset, whence)
}

// Flush writes out buffered data and syncs the file.
func (b *bufferedWriteSeeker) Flush() error {
	err := b.bw.Flush()
	if err != nil {
		return err
	}

	return b.f.Sync()
}

func (b *bufferedWriteSeeker) Close() error {
	return errors.Join(b.bw.Flush(), b.f.Close())
}

// OpenFile opens the wav file at path for reading. The returned reader owns
// the file; closing it or the typed reader made from it closes the file.
func OpenFile(path string) (*OpenReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	o, err := ReadWav(newBufferedReadSeeker(f))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	o.closer = f

	return o, nil
}

// CreateFile creates or truncates the file at path and writes a wav header
// for header. The returned writer owns the file; closing it or the typed
// writer made from it finalizes the header and closes the file.
func CreateFile(path string, header WavHeader) (*OpenWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	ws := newBufferedWriteSeeker(f)

	o, err := WriteWav(ws, header)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	o.closer = ws

	return o, nil
}
