package fbx

import (
	"iter"
	"slices"
	"strings"
)

// NodeID indexes Document.Nodes.
type NodeID int32

// None marks a missing parent, sibling or child.
const None NodeID = -1

// Node is one named record of the tree. Links are indices into the
// document's node array; properties are the half-open range
// [FirstProperty, FirstProperty+NumProperties) of Document.Properties.
type Node struct {
	Name string

	Parent     NodeID
	Next       NodeID
	FirstChild NodeID
	LastChild  NodeID
	Level      int

	FirstProperty int
	NumProperties int

	Offset int64
}

// Root returns the synthetic root node.
func (d *Document) Root() NodeID { return 0 }

// Node returns the node with the given id.
func (d *Document) Node(id NodeID) *Node { return &d.Nodes[id] }

// Children iterates over the direct children of id. Iterating None yields nothing.
func (d *Document) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if id == None {
			return
		}
		for c := d.Nodes[id].FirstChild; c != None; c = d.Nodes[c].Next {
			if !yield(c) {
				return
			}
		}
	}
}

// Child returns the first direct child of id called name, or None.
func (d *Document) Child(id NodeID, name string) NodeID {
	for c := range d.Children(id) {
		if d.Nodes[c].Name == name {
			return c
		}
	}
	return None
}

// Find follows a chain of names from the root, e.g. Find("Objects", "Geometry").
// Each name matches the first child of that name. It returns None when any
// link of the chain is missing.
func (d *Document) Find(names ...string) NodeID {
	id := d.Root()
	for _, name := range names {
		id = d.Child(id, name)
		if id == None {
			return None
		}
	}
	if id == d.Root() {
		return None
	}
	return id
}

// Props returns the properties of id. The slice aliases the document.
func (d *Document) Props(id NodeID) []Property {
	if id == None {
		return nil
	}
	n := &d.Nodes[id]
	return d.Properties[n.FirstProperty : n.FirstProperty+n.NumProperties]
}

// FirstProp returns the first property of id.
func (d *Document) FirstProp(id NodeID) (Property, bool) {
	props := d.Props(id)
	if len(props) == 0 {
		return Property{}, false
	}
	return props[0], true
}

// Path returns the slash-separated names from the root down to id.
func (d *Document) Path(id NodeID) string {
	var parts []string
	for ; id != None && id != d.Root(); id = d.Nodes[id].Parent {
		parts = append(parts, d.Nodes[id].Name)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}
