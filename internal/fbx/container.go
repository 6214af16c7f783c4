package fbx

import (
	"fmt"
	"log/slog"
	"os"
)

// Magic is the fixed text at the start of every binary container.
const Magic = "Kaydara FBX Binary  \x00"

// HeaderSize is the length of magic, sentinel bytes and version.
const HeaderSize = len(Magic) + 2 + 4

// Version7500 is the first version whose node records use 64-bit fields.
const Version7500 = 7500

// Document is a decoded node tree. Nodes and properties live in flat
// arrays; Nodes[0] is a synthetic root.
type Document struct {
	Version    uint32
	Nodes      []Node
	Properties []Property
}

type decodeConfig struct {
	lenient bool
	logger  *slog.Logger
}

// DecodeOption configures Decode.
type DecodeOption func(*decodeConfig)

// Lenient makes Decode seek to a node's declared end instead of failing
// when the node body does not end exactly there.
func Lenient() DecodeOption {
	return func(c *decodeConfig) { c.lenient = true }
}

// WithLogger sets the logger used for lenient-mode warnings.
func WithLogger(l *slog.Logger) DecodeOption {
	return func(c *decodeConfig) { c.logger = l }
}

// ReadFile loads the whole file into memory.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, &IOError{Path: path, Err: ErrEmptyFile}
	}
	return data, nil
}

// Decode parses the header and node tree of a container held in data.
// The returned document aliases data, which must not be modified.
func Decode(data []byte, opts ...DecodeOption) (*Document, error) {
	cfg := decodeConfig{logger: slog.Default()}
	for _, o := range opts {
		o(&cfg)
	}

	if len(data) < HeaderSize {
		return nil, &FormatError{
			Offset: 0,
			Msg:    "buffer shorter than header",
			Err:    &TruncatedInputError{Offset: 0, Need: int64(HeaderSize), Have: int64(len(data))},
		}
	}
	if string(data[:len(Magic)]) != Magic {
		return nil, &FormatError{Offset: 0, Msg: "bad magic"}
	}
	if data[len(Magic)] != 0x1A || data[len(Magic)+1] != 0x00 {
		return nil, &FormatError{Offset: int64(len(Magic)), Msg: "bad header sentinel"}
	}

	c := &cursor{data: data, off: len(Magic) + 2}
	version, _ := c.u32()

	p := &parser{
		cfg: cfg,
		c:   c,
		doc: &Document{
			Version: version,
			Nodes:   []Node{{Parent: None, Next: None, FirstChild: None, LastChild: None, Level: -1}},
		},
	}
	if err := p.parseNodes(0); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type parser struct {
	cfg decodeConfig
	c   *cursor
	doc *Document
}

type recordHeader struct {
	endOffset    uint64
	numProps     uint64
	propsLength  uint64
	nameLength   uint8
	recordOffset int
}

func (p *parser) readRecordHeader() (recordHeader, error) {
	h := recordHeader{recordOffset: p.c.off}
	var err error
	if p.doc.Version >= Version7500 {
		if h.endOffset, err = p.c.u64(); err != nil {
			return h, err
		}
		if h.numProps, err = p.c.u64(); err != nil {
			return h, err
		}
		if h.propsLength, err = p.c.u64(); err != nil {
			return h, err
		}
	} else {
		var v uint32
		if v, err = p.c.u32(); err != nil {
			return h, err
		}
		h.endOffset = uint64(v)
		if v, err = p.c.u32(); err != nil {
			return h, err
		}
		h.numProps = uint64(v)
		if v, err = p.c.u32(); err != nil {
			return h, err
		}
		h.propsLength = uint64(v)
	}
	h.nameLength, err = p.c.u8()
	return h, err
}

// parseNodes reads sibling records under parent until the null record.
func (p *parser) parseNodes(parent NodeID) error {
	for {
		h, err := p.readRecordHeader()
		if err != nil {
			return err
		}
		if h.endOffset == 0 {
			return nil
		}
		if h.endOffset > uint64(len(p.c.data)) {
			return &TruncatedInputError{
				Offset: int64(h.recordOffset),
				Need:   int64(h.endOffset) - int64(h.recordOffset),
				Have:   int64(len(p.c.data) - h.recordOffset),
			}
		}

		name, err := p.c.take(int(h.nameLength))
		if err != nil {
			return err
		}
		if h.endOffset < uint64(p.c.off) {
			return &FormatError{
				Offset: int64(h.recordOffset),
				Msg:    fmt.Sprintf("node %q ends at offset %d, before its header ends at %d", name, h.endOffset, p.c.off),
			}
		}

		id := NodeID(len(p.doc.Nodes))
		p.doc.Nodes = append(p.doc.Nodes, Node{
			Name:          string(name),
			Parent:        parent,
			Next:          None,
			FirstChild:    None,
			LastChild:     None,
			Level:         p.doc.Nodes[parent].Level + 1,
			FirstProperty: len(p.doc.Properties),
			Offset:        int64(h.recordOffset),
		})
		pn := &p.doc.Nodes[parent]
		if pn.FirstChild == None {
			pn.FirstChild = id
		} else {
			p.doc.Nodes[pn.LastChild].Next = id
		}
		pn.LastChild = id

		propsStart := p.c.off
		p.doc.Properties, err = parseProperties(p.c, h.numProps, p.doc.Properties)
		if err != nil {
			return p.annotate(err, id)
		}
		p.doc.Nodes[id].NumProperties = len(p.doc.Properties) - p.doc.Nodes[id].FirstProperty
		if used := uint64(p.c.off - propsStart); used != h.propsLength {
			if !p.cfg.lenient {
				return &FormatError{
					Offset: int64(propsStart),
					Path:   p.doc.Path(id),
					Msg:    fmt.Sprintf("property list is %d bytes, header declares %d", used, h.propsLength),
				}
			}
			p.cfg.logger.Warn("fbx: property list length mismatch",
				"node", p.doc.Path(id), "read", used, "declared", h.propsLength)
		}

		if uint64(p.c.off) < h.endOffset {
			if err := p.parseNodes(id); err != nil {
				return err
			}
		}

		if uint64(p.c.off) != h.endOffset {
			if !p.cfg.lenient {
				return &FormatError{
					Offset: int64(p.c.off),
					Path:   p.doc.Path(id),
					Msg:    fmt.Sprintf("node ends at offset %d, header declares %d", p.c.off, h.endOffset),
				}
			}
			p.cfg.logger.Warn("fbx: node size mismatch, seeking to declared end",
				"node", p.doc.Path(id), "offset", p.c.off, "end", h.endOffset)
			if err := p.c.seek(int64(h.endOffset)); err != nil {
				return err
			}
		}
	}
}

// annotate attaches the node path to a FormatError raised while reading it.
func (p *parser) annotate(err error, id NodeID) error {
	if fe, ok := err.(*FormatError); ok && fe.Path == "" {
		fe.Path = p.doc.Path(id)
	}
	return err
}
