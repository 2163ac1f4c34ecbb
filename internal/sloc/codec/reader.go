package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/slocgo/loader/internal/sloc"
)

// Reader reads little-endian sloc fields from one object frame.
// The first short read sets a sticky error; later reads return zero values.
type Reader struct {
	data []byte
	off  int
	err  error
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.data) {
		r.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, r.off, len(r.data)-r.off)
		r.off = len(r.data)
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// ReadU8 reads 1 unsigned byte.
func (r *Reader) ReadU8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadBool reads 1 byte, any non-zero value is true.
func (r *Reader) ReadBool() bool {
	return r.ReadU8() != 0
}

// ReadU16 reads 2 bytes as little-endian uint16.
func (r *Reader) ReadU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadI32 reads 4 bytes as little-endian int32.
func (r *Reader) ReadI32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

// ReadF32 reads 4 bytes as an IEEE 754 float, bit-exact.
func (r *Reader) ReadF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *Reader) ReadVec3() mgl32.Vec3 {
	return mgl32.Vec3{r.ReadF32(), r.ReadF32(), r.ReadF32()}
}

// ReadQuat reads x, y, z, w.
func (r *Reader) ReadQuat() mgl32.Quat {
	v := r.ReadVec3()
	return mgl32.Quat{V: v, W: r.ReadF32()}
}

func (r *Reader) ReadColor() sloc.Color {
	return sloc.Color{R: r.ReadF32(), G: r.ReadF32(), B: r.ReadF32(), A: r.ReadF32()}
}

func (r *Reader) ReadTransform() sloc.Transform {
	return sloc.Transform{
		Position: r.ReadVec3(),
		Rotation: r.ReadQuat(),
		Scale:    r.ReadVec3(),
	}
}

// ReadString reads a uint16 byte length followed by UTF-8 bytes.
func (r *Reader) ReadString() string {
	n := int(r.ReadU16())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Err returns the first read error, if any.
func (r *Reader) Err() error {
	return r.err
}
