package aim

import (
	"encoding/binary"
	"errors"
	"io"
)

var errShortRead = errors.New("short read")

// streamReader wraps a ReadSeeker with binary read helpers for the
// streaming EXIF decoder. Read failures panic with errStop; the
// decoder entry point recovers and reports readErr.
// Not thread safe.
type streamReader struct {
	r         io.ReadSeeker
	byteOrder binary.ByteOrder

	buf []byte

	isEOF   bool
	readErr error
}

func newStreamReader(r io.ReadSeeker, byteOrder binary.ByteOrder) *streamReader {
	return &streamReader{
		r:         r,
		byteOrder: byteOrder,
	}
}

func (e *streamReader) allocateBuf(length int) {
	if length > cap(e.buf) {
		e.buf = make([]byte, length)
	}
}

func (e *streamReader) pos() int64 {
	n, _ := e.r.Seek(0, io.SeekCurrent)
	return n
}

func (e *streamReader) read1() uint8 {
	e.readNIntoBuf(1)
	return e.buf[0]
}

func (e *streamReader) read2() uint16 {
	e.readNIntoBuf(2)
	return e.byteOrder.Uint16(e.buf[:2])
}

func (e *streamReader) read2E() (uint16, error) {
	if err := e.readNIntoBufE(2); err != nil {
		return 0, err
	}
	return e.byteOrder.Uint16(e.buf[:2]), nil
}

func (e *streamReader) read4() uint32 {
	e.readNIntoBuf(4)
	return e.byteOrder.Uint32(e.buf[:4])
}

func (e *streamReader) read4r(r io.Reader) uint32 {
	e.readNFromRIntoBuf(4, r)
	return e.byteOrder.Uint32(e.buf[:4])
}

func (e *streamReader) read4sr(r io.Reader) int32 {
	return int32(e.read4r(r))
}

func (e *streamReader) read2r(r io.Reader) uint16 {
	e.readNFromRIntoBuf(2, r)
	return e.byteOrder.Uint16(e.buf[:2])
}

func (e *streamReader) read1r(r io.Reader) uint8 {
	e.readNFromRIntoBuf(1, r)
	return e.buf[0]
}

// readBytesVolatile reads a slice of bytes from the stream
// which is not guaranteed to be valid after the next read.
func (e *streamReader) readBytesVolatile(n int) []byte {
	e.readNIntoBuf(n)
	return e.buf[:n]
}

func (e *streamReader) readBytesFromRVolatile(n int, r io.Reader) []byte {
	e.readNFromRIntoBuf(n, r)
	return e.buf[:n]
}

func (e *streamReader) readNFromRIntoBuf(n int, r io.Reader) {
	if err := e.readNFromRIntoBufE(n, r); err != nil {
		e.stop(err)
	}
}

func (e *streamReader) readNFromRIntoBufE(n int, r io.Reader) error {
	e.allocateBuf(n)
	n2, err := io.ReadFull(r, e.buf[:n])
	if err != nil {
		return err
	}
	if n != n2 {
		return errShortRead
	}
	return nil
}

func (e *streamReader) readNIntoBuf(n int) {
	e.readNFromRIntoBuf(n, e.r)
}

func (e *streamReader) readNIntoBufE(n int) error {
	return e.readNFromRIntoBufE(n, e.r)
}

func (e *streamReader) seek(pos int64) {
	if _, err := e.r.Seek(pos, io.SeekStart); err != nil {
		e.stop(err)
	}
}

func (e *streamReader) skip(n int64) {
	e.r.Seek(n, io.SeekCurrent)
}

func (e *streamReader) stop(err error) {
	// Allow one silent EOF so the client doesn't have to check
	// for EOF on every read.
	if err == io.EOF && !e.isEOF {
		e.isEOF = true
		return
	}
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		e.readErr = err
	}
	panic(errStop)
}
