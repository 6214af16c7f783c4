package fbx

import (
	"fmt"
	"io"
	"strings"
)

// maxDumpElements limits how many array elements Dump prints per property.
const maxDumpElements = 16

// Dump writes the node tree below the root in an indented text form.
// Compressed arrays are summarized rather than inflated.
func Dump(w io.Writer, d *Document) error {
	if _, err := fmt.Fprintf(w, "version %d\n", d.Version); err != nil {
		return err
	}
	return dumpChildren(w, d, d.Root(), 0)
}

func dumpChildren(w io.Writer, d *Document, id NodeID, depth int) error {
	indent := strings.Repeat("  ", depth)
	for c := range d.Children(id) {
		if _, err := fmt.Fprintf(w, "%sNODE %q\n", indent, d.Nodes[c].Name); err != nil {
			return err
		}
		for _, p := range d.Props(c) {
			if _, err := fmt.Fprintf(w, "%s- %s\n", indent, formatProperty(p)); err != nil {
				return err
			}
		}
		if err := dumpChildren(w, d, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func formatProperty(p Property) string {
	switch {
	case p.Type == String:
		return fmt.Sprintf("String: %q", p.Data)
	case p.Type == Raw:
		return fmt.Sprintf("Raw: [%d bytes]", p.Count)
	case !p.Array:
		v, _ := p.Number()
		return fmt.Sprintf("%s: %v", p.Type, v)
	case p.Encoding != 0:
		return fmt.Sprintf("%s[]: [%d compressed elements]", p.Type, p.Count)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[]: [", p.Type)
	n := min(int(p.Count), maxDumpElements)
	size := p.Type.Size()
	for i := 0; i < n && (i+1)*size <= len(p.Data); i++ {
		elem := Property{Type: p.Type, Count: 1, Data: p.Data[i*size : (i+1)*size]}
		v, _ := elem.Number()
		fmt.Fprintf(&sb, " %v", v)
	}
	if int(p.Count) > n {
		fmt.Fprintf(&sb, " ... (%d total)", p.Count)
	}
	sb.WriteString(" ]")
	return sb.String()
}
