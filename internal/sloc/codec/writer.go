package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/sloc"
)

// Writer builds one object frame body. All multi-byte writes are little-endian.
// A value the format cannot hold sets a sticky error; the frame is then invalid.
type Writer struct {
	buf []byte
	err error
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 128)}
}

// WriteU8 writes 1 byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteU8(1)
		return
	}
	w.WriteU8(0)
}

// WriteU16 writes 2 bytes little-endian.
func (w *Writer) WriteU16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteI32 writes 4 bytes little-endian.
func (w *Writer) WriteI32(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

// WriteF32 writes the IEEE 754 bits of v.
func (w *Writer) WriteF32(v float32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, math.Float32bits(v))
}

func (w *Writer) WriteVec3(v mgl32.Vec3) {
	w.WriteF32(v[0])
	w.WriteF32(v[1])
	w.WriteF32(v[2])
}

// WriteQuat writes x, y, z, w.
func (w *Writer) WriteQuat(q mgl32.Quat) {
	w.WriteVec3(q.V)
	w.WriteF32(q.W)
}

func (w *Writer) WriteColor(c sloc.Color) {
	w.WriteF32(c.R)
	w.WriteF32(c.G)
	w.WriteF32(c.B)
	w.WriteF32(c.A)
}

func (w *Writer) WriteTransform(t sloc.Transform) {
	w.WriteVec3(t.Position)
	w.WriteQuat(t.Rotation)
	w.WriteVec3(t.Scale)
}

// WriteString writes a uint16 byte length followed by the raw UTF-8 bytes.
// A string longer than 65535 bytes is not written and sets ErrStringTooLong.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		if w.err == nil {
			w.err = fmt.Errorf("%w: %d bytes", ErrStringTooLong, len(s))
		}
		return
	}
	w.WriteU16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// Bytes returns the written content.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current length.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	return w.err
}

// Reset empties the buffer and clears the error for reuse.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.err = nil
}
