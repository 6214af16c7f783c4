package fbx

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// decodeArray returns the uncompressed payload of an array property of type t.
// The result always holds exactly Count elements.
func (p Property) decodeArray(t PropertyType) ([]byte, error) {
	if !p.Array || p.Type != t {
		return nil, &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected %s[], got %s", t, p.describe())}
	}
	want := uint64(p.Count) * uint64(t.Size())
	if p.Encoding == 0 {
		if uint64(len(p.Data)) != want {
			return nil, &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("%s[] of %d elements has %d bytes, want %d", t, p.Count, len(p.Data), want)}
		}
		out := make([]byte, len(p.Data))
		copy(out, p.Data)
		return out, nil
	}
	return inflate(p.Data, want, p.Offset)
}

// maxDeflateRatio bounds how far deflate can expand its input.
const maxDeflateRatio = 1032

// inflate decompresses a zlib stream that must produce exactly want bytes.
func inflate(src []byte, want uint64, off int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array: %v", err)}
	}
	defer zr.Close()

	if want > math.MaxInt32 || want > uint64(len(src))*maxDeflateRatio {
		return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array of %d bytes cannot hold %d bytes", len(src), want)}
	}
	out := make([]byte, want)
	n, err := io.ReadFull(zr, out)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array decompressed to %d bytes, want %d", n, want)}
		}
		return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array: %v", err)}
	}
	var extra [1]byte
	m, err := zr.Read(extra[:])
	if m > 0 {
		return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array decompressed to more than %d bytes", want)}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &FormatError{Offset: off, Msg: fmt.Sprintf("compressed array: %v", err)}
	}
	return out, nil
}

// Int32Array decodes an int32[] property.
func (p Property) Int32Array() ([]int32, error) {
	b, err := p.decodeArray(Int32)
	if err != nil {
		return nil, err
	}
	out := make([]int32, p.Count)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// Int64Array decodes an int64[] property.
func (p Property) Int64Array() ([]int64, error) {
	b, err := p.decodeArray(Int64)
	if err != nil {
		return nil, err
	}
	out := make([]int64, p.Count)
	for i := range out {
		out[i] = int64(binary.LittleEndian.Uint64(b[i*8:]))
	}
	return out, nil
}

// Float32Array decodes a float[] property.
func (p Property) Float32Array() ([]float32, error) {
	b, err := p.decodeArray(Float)
	if err != nil {
		return nil, err
	}
	out := make([]float32, p.Count)
	for i := range out {
		out[i] = f32frombytes(b[i*4:])
	}
	return out, nil
}

// Float64Array decodes a double[] property.
func (p Property) Float64Array() ([]float64, error) {
	b, err := p.decodeArray(Double)
	if err != nil {
		return nil, err
	}
	out := make([]float64, p.Count)
	for i := range out {
		out[i] = f64frombytes(b[i*8:])
	}
	return out, nil
}

// BoolArray decodes a bool[] property.
func (p Property) BoolArray() ([]bool, error) {
	b, err := p.decodeArray(Bool)
	if err != nil {
		return nil, err
	}
	out := make([]bool, p.Count)
	for i := range out {
		out[i] = b[i] != 0
	}
	return out, nil
}
