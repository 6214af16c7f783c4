// Package fbxtest builds binary containers in memory for tests.
package fbxtest

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"math"
)

// magic duplicates fbx.Magic so that fbx's in-package tests can import fbxtest.
const magic = "Kaydara FBX Binary  \x00"

// Prop is one encoded property: a type tag followed by its payload.
type Prop struct {
	Tag     byte
	Payload []byte
}

// Node is a record to encode.
type Node struct {
	Name     string
	Props    []Prop
	Children []*Node
}

// N is shorthand for building a node.
func N(name string, props []Prop, children ...*Node) *Node {
	return &Node{Name: name, Props: props, Children: children}
}

// P collects properties.
func P(props ...Prop) []Prop { return props }

func le32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func le64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func Bool(v bool) Prop {
	if v {
		return Prop{'C', []byte{1}}
	}
	return Prop{'C', []byte{0}}
}

func Int16(v int16) Prop {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return Prop{'Y', b}
}

func Int32(v int32) Prop     { return Prop{'I', le32(uint32(v))} }
func Int64(v int64) Prop     { return Prop{'L', le64(uint64(v))} }
func Float32(v float32) Prop { return Prop{'F', le32(math.Float32bits(v))} }
func Float64(v float64) Prop { return Prop{'D', le64(math.Float64bits(v))} }

// String encodes a string property; an empty string is still written.
func String(s string) Prop {
	return Prop{'S', append(le32(uint32(len(s))), s...)}
}

// Raw encodes an uninterpreted byte blob.
func Raw(b []byte) Prop {
	return Prop{'R', append(le32(uint32(len(b))), b...)}
}

// Float64Array encodes a double[] property, zlib-compressed when compress is set.
func Float64Array(vals []float64, compress bool) Prop {
	raw := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		raw = append(raw, le64(math.Float64bits(v))...)
	}
	return array('d', uint32(len(vals)), raw, compress)
}

// Int32Array encodes an int32[] property.
func Int32Array(vals []int32, compress bool) Prop {
	raw := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		raw = append(raw, le32(uint32(v))...)
	}
	return array('i', uint32(len(vals)), raw, compress)
}

// Int64Array encodes an int64[] property.
func Int64Array(vals []int64, compress bool) Prop {
	raw := make([]byte, 0, len(vals)*8)
	for _, v := range vals {
		raw = append(raw, le64(uint64(v))...)
	}
	return array('l', uint32(len(vals)), raw, compress)
}

// Float32Array encodes a float[] property.
func Float32Array(vals []float32, compress bool) Prop {
	raw := make([]byte, 0, len(vals)*4)
	for _, v := range vals {
		raw = append(raw, le32(math.Float32bits(v))...)
	}
	return array('f', uint32(len(vals)), raw, compress)
}

// ArrayWithCount encodes an array whose declared element count differs from
// the payload, for exercising size checks.
func ArrayWithCount(tag byte, count uint32, raw []byte, compress bool) Prop {
	return array(tag, count, raw, compress)
}

func array(tag byte, count uint32, raw []byte, compress bool) Prop {
	var encoding uint32
	payload := raw
	if compress {
		var buf bytes.Buffer
		zw := zlib.NewWriter(&buf)
		zw.Write(raw)
		zw.Close()
		payload = buf.Bytes()
		encoding = 1
	}
	out := append(le32(count), le32(encoding)...)
	out = append(out, le32(uint32(len(payload)))...)
	return Prop{tag, append(out, payload...)}
}

// Encode serializes nodes as a complete container of the given version,
// using 64-bit record headers from version 7500 on.
func Encode(version uint32, nodes ...*Node) []byte {
	w := &writer{wide: version >= 7500}
	w.buf = append(w.buf, magic...)
	w.buf = append(w.buf, 0x1A, 0x00)
	w.buf = append(w.buf, le32(version)...)
	for _, n := range nodes {
		w.node(n)
	}
	w.null()
	return w.buf
}

type writer struct {
	buf  []byte
	wide bool
}

func (w *writer) headerSize() int {
	if w.wide {
		return 25
	}
	return 13
}

func (w *writer) null() {
	w.buf = append(w.buf, make([]byte, w.headerSize())...)
}

func (w *writer) putField(at int, field int, v uint64) {
	if w.wide {
		binary.LittleEndian.PutUint64(w.buf[at+field*8:], v)
	} else {
		binary.LittleEndian.PutUint32(w.buf[at+field*4:], uint32(v))
	}
}

func (w *writer) node(n *Node) {
	start := len(w.buf)
	w.buf = append(w.buf, make([]byte, w.headerSize())...)
	w.buf[start+w.headerSize()-1] = uint8(len(n.Name))
	w.buf = append(w.buf, n.Name...)

	propStart := len(w.buf)
	for _, p := range n.Props {
		w.buf = append(w.buf, p.Tag)
		w.buf = append(w.buf, p.Payload...)
	}
	propLen := len(w.buf) - propStart

	if len(n.Children) > 0 {
		for _, c := range n.Children {
			w.node(c)
		}
		w.null()
	}

	w.putField(start, 0, uint64(len(w.buf)))
	w.putField(start, 1, uint64(len(n.Props)))
	w.putField(start, 2, uint64(propLen))
}

// Header returns only the magic, sentinel and version bytes.
func Header(version uint32) []byte {
	b := append([]byte(magic), 0x1A, 0x00)
	return append(b, le32(version)...)
}
