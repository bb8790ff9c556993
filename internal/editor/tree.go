package editor

import "encoding/json"

// Root is the top of a document tree.
type Root struct {
	Children []Node
}

// Paragraph holds inline content: text, entities, line breaks.
type Paragraph struct {
	Children []Node
}

// LineBreak is a soft line break inside a paragraph.
type LineBreak struct{}

// Unknown preserves a node of a type this package does not model. Its
// children are still traversed and Fields keeps every other property so
// the node survives a decode/encode cycle.
type Unknown struct {
	NodeType string
	Children []Node
	Fields   map[string]json.RawMessage
}

func (Root) Type() string      { return TypeRoot }
func (Paragraph) Type() string { return TypeParagraph }
func (LineBreak) Type() string { return TypeLineBreak }
func (u Unknown) Type() string { return u.NodeType }

func (Root) node()      {}
func (Paragraph) node() {}
func (LineBreak) node() {}
func (Unknown) node()   {}

// NewParagraph returns a paragraph holding the given inline nodes.
func NewParagraph(children ...Node) Paragraph {
	return Paragraph{Children: children}
}

// children returns the child list of container nodes.
func children(n Node) []Node {
	switch v := n.(type) {
	case Root:
		return v.Children
	case Paragraph:
		return v.Children
	case Unknown:
		return v.Children
	}
	return nil
}

// Walk visits n and its descendants depth-first in pre-order. Returning
// false from fn skips the node's children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range children(n) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree rooted at n.
func Count(n Node) int {
	count := 0
	Walk(n, func(Node) bool {
		count++
		return true
	})
	return count
}

type blockJSON struct {
	Type      string `json:"type"`
	Children  []Node `json:"children"`
	Direction string `json:"direction"`
	Format    string `json:"format"`
	Indent    int    `json:"indent"`
	Version   int    `json:"version"`
}

func marshalBlock(typ string, kids []Node) ([]byte, error) {
	if kids == nil {
		kids = []Node{}
	}
	return json.Marshal(blockJSON{
		Type:      typ,
		Children:  kids,
		Direction: "ltr",
		Version:   nodeVersion,
	})
}

// MarshalJSON writes the root in editor state shape.
func (r Root) MarshalJSON() ([]byte, error) {
	return marshalBlock(TypeRoot, r.Children)
}

// MarshalJSON writes the paragraph in editor state shape.
func (p Paragraph) MarshalJSON() ([]byte, error) {
	return marshalBlock(TypeParagraph, p.Children)
}

// MarshalJSON writes the line break in editor state shape.
func (LineBreak) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Version int    `json:"version"`
	}{TypeLineBreak, nodeVersion})
}

// MarshalJSON writes the preserved fields back with the current children.
func (u Unknown) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Fields)+2)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["type"] = u.NodeType
	if u.Children != nil {
		out["children"] = u.Children
	}
	return json.Marshal(out)
}
