package editor

import (
	"encoding/json"
	"fmt"

	"github.com/zjrosen/rawfmt/internal/log"
)

// DecodeState reads serialized editor state, either the bare root node or
// the {"root": ...} envelope the editor writes. Nodes of unmodelled types
// are kept as Unknown; invalid inline nodes are errors.
func DecodeState(data []byte) (Root, error) {
	var envelope struct {
		Root json.RawMessage `json:"root"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Root{}, fmt.Errorf("decoding editor state: %w", err)
	}
	raw := envelope.Root
	if raw == nil {
		raw = data
	}

	n, err := decodeNode(raw)
	if err != nil {
		return Root{}, err
	}
	root, ok := n.(Root)
	if !ok {
		return Root{}, fmt.Errorf("%w: top-level node is %q, want %q", ErrInvalidNode, n.Type(), TypeRoot)
	}
	return root, nil
}

// EncodeState writes the tree in the {"root": ...} envelope.
func EncodeState(root Root) ([]byte, error) {
	data, err := json.Marshal(struct {
		Root Root `json:"root"`
	}{root})
	if err != nil {
		return nil, fmt.Errorf("encoding editor state: %w", err)
	}
	return data, nil
}

func decodeNode(data []byte) (Node, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}
	var typ string
	if t, ok := fields["type"]; ok {
		if err := json.Unmarshal(t, &typ); err != nil {
			return nil, fmt.Errorf("decoding node type: %w", err)
		}
	}
	if typ == "" {
		return nil, fmt.Errorf("%w: node missing type", ErrInvalidNode)
	}

	if isInlineType(typ) {
		return ImportJSON(data)
	}

	kids, err := decodeChildren(fields["children"])
	if err != nil {
		return nil, fmt.Errorf("decoding %s children: %w", typ, err)
	}
	switch typ {
	case TypeRoot:
		return Root{Children: kids}, nil
	case TypeParagraph:
		return Paragraph{Children: kids}, nil
	case TypeLineBreak:
		return LineBreak{}, nil
	}

	log.Debug(log.CatEditor, "preserving unknown node", "type", typ, "children", len(kids))
	delete(fields, "type")
	delete(fields, "children")
	return Unknown{NodeType: typ, Children: kids, Fields: fields}, nil
}

func decodeChildren(data json.RawMessage) ([]Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	kids := make([]Node, 0, len(raws))
	for i, r := range raws {
		n, err := decodeNode(r)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		kids = append(kids, n)
	}
	return kids, nil
}
