package fbx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PropertyType is the element type of a property.
type PropertyType uint8

const (
	Bool PropertyType = iota
	Float
	Double
	Int16
	Int32
	Int64
	String
	Raw
)

var typeNames = [...]string{"Bool", "Float", "Double", "Int16", "Int32", "Int64", "String", "Raw"}

func (t PropertyType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("PropertyType(%d)", uint8(t))
}

// Size returns the byte size of one element, 1 for String and Raw.
func (t PropertyType) Size() int {
	switch t {
	case Bool:
		return 1
	case Int16:
		return 2
	case Float, Int32:
		return 4
	case Double, Int64:
		return 8
	}
	return 1
}

// Property is one typed value (or array of values) attached to a node.
// Data aliases the file image; array payloads stay encoded until read
// through one of the typed array accessors.
type Property struct {
	Type     PropertyType
	Array    bool
	Count    uint32 // elements; bytes for String and Raw
	Encoding uint32 // 0 raw, otherwise zlib
	Length   uint32 // payload bytes as stored
	Data     []byte
	Offset   int64 // payload offset in the file image
}

// parseProperties reads n property records, appending the non-empty ones to out.
func parseProperties(c *cursor, n uint64, out []Property) ([]Property, error) {
	for i := uint64(0); i < n; i++ {
		tagOff := c.off
		tag, err := c.u8()
		if err != nil {
			return out, err
		}
		switch tag {
		case 'C', 'F', 'D', 'Y', 'I', 'L':
			t := scalarType(tag)
			off := c.off
			b, err := c.take(t.Size())
			if err != nil {
				return out, err
			}
			out = append(out, Property{Type: t, Count: 1, Length: uint32(len(b)), Data: b, Offset: int64(off)})

		case 'b', 'f', 'd', 'i', 'l':
			count, err := c.u32()
			if err != nil {
				return out, err
			}
			encoding, err := c.u32()
			if err != nil {
				return out, err
			}
			length, err := c.u32()
			if err != nil {
				return out, err
			}
			off := c.off
			b, err := c.take(int(length))
			if err != nil {
				return out, err
			}
			out = append(out, Property{
				Type:     scalarType(tag - 'a' + 'A'),
				Array:    true,
				Count:    count,
				Encoding: encoding,
				Length:   length,
				Data:     b,
				Offset:   int64(off),
			})

		case 'S', 'R':
			length, err := c.u32()
			if err != nil {
				return out, err
			}
			off := c.off
			b, err := c.take(int(length))
			if err != nil {
				return out, err
			}
			// Empty strings and blobs are dropped entirely.
			if length == 0 {
				continue
			}
			t := String
			if tag == 'R' {
				t = Raw
			}
			out = append(out, Property{Type: t, Count: length, Length: length, Data: b, Offset: int64(off)})

		default:
			return out, &FormatError{Offset: int64(tagOff), Msg: fmt.Sprintf("unsupported property type %q", tag)}
		}
	}
	return out, nil
}

func scalarType(tag byte) PropertyType {
	switch tag {
	case 'C', 'B':
		return Bool
	case 'F':
		return Float
	case 'D':
		return Double
	case 'Y':
		return Int16
	case 'I':
		return Int32
	}
	return Int64
}

func (p Property) scalar(t PropertyType) error {
	if p.Array || p.Type != t {
		return &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected %s scalar, got %s", t, p.describe())}
	}
	return nil
}

func (p Property) describe() string {
	if p.Array {
		return p.Type.String() + "[]"
	}
	return p.Type.String()
}

// Bool returns the value of a bool scalar.
func (p Property) Bool() (bool, error) {
	if err := p.scalar(Bool); err != nil {
		return false, err
	}
	return p.Data[0] != 0, nil
}

// Int32 returns the value of an int32 scalar.
func (p Property) Int32() (int32, error) {
	if err := p.scalar(Int32); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(p.Data)), nil
}

// Int64 returns the value of an int64 scalar.
func (p Property) Int64() (int64, error) {
	if err := p.scalar(Int64); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(p.Data)), nil
}

// Float64 returns the value of a double scalar.
func (p Property) Float64() (float64, error) {
	if err := p.scalar(Double); err != nil {
		return 0, err
	}
	return f64frombytes(p.Data), nil
}

// Number widens any numeric scalar to float64.
func (p Property) Number() (float64, error) {
	if p.Array {
		return 0, &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected number, got %s", p.describe())}
	}
	switch p.Type {
	case Bool:
		if p.Data[0] != 0 {
			return 1, nil
		}
		return 0, nil
	case Float:
		return float64(f32frombytes(p.Data)), nil
	case Double:
		return f64frombytes(p.Data), nil
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(p.Data))), nil
	case Int32:
		return float64(int32(binary.LittleEndian.Uint32(p.Data))), nil
	case Int64:
		return float64(int64(binary.LittleEndian.Uint64(p.Data))), nil
	}
	return math.NaN(), &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected number, got %s", p.describe())}
}

// IsNumber reports whether p is a numeric scalar.
func (p Property) IsNumber() bool {
	return !p.Array && p.Type != String && p.Type != Raw
}

// Text returns the content of a string property.
func (p Property) Text() (string, error) {
	if p.Type != String {
		return "", &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected String, got %s", p.describe())}
	}
	return string(p.Data), nil
}

// Bytes returns the payload of a raw property.
func (p Property) Bytes() ([]byte, error) {
	if p.Type != Raw {
		return nil, &FormatError{Offset: p.Offset, Msg: fmt.Sprintf("expected Raw, got %s", p.describe())}
	}
	return p.Data, nil
}
