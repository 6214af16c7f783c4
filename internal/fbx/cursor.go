package fbx

import (
	"encoding/binary"
	"math"
)

// cursor reads sequentially from an in-memory file image.
// Every read is bounds-checked; returned slices alias the image.
type cursor struct {
	data []byte
	off  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.off
}

func (c *cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, &TruncatedInputError{Offset: int64(c.off), Need: int64(n), Have: int64(c.remaining())}
	}
	b := c.data[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// seek moves the cursor to an absolute offset within the image.
func (c *cursor) seek(off int64) error {
	if off < 0 || off > int64(len(c.data)) {
		return &TruncatedInputError{Offset: int64(c.off), Need: off - int64(c.off), Have: int64(c.remaining())}
	}
	c.off = int(off)
	return nil
}

func f32frombytes(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func f64frombytes(b []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}
