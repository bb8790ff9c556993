// Package editor bridges the raw inline-markup format and the host editor's
// document tree. It defines the inline nodes the editor embeds for each
// entity kind, converts trees to and from raw text, and reads and writes
// the editor's JSON state and HTML clipboard representations.
package editor

import (
	"encoding/json"
	"errors"

	"golang.org/x/net/html"

	"github.com/zjrosen/rawfmt/internal/markup"
)

// Node type names, as written in editor state JSON.
const (
	TypeRoot      = "root"
	TypeParagraph = "paragraph"
	TypeLineBreak = "linebreak"
	TypeText      = "text"
	TypeHashtag   = "hashtag"
	TypeMention   = "mention"
	TypeURLPill   = "url-pill"
	TypeEmoji     = "emoji"
)

// nodeVersion is the serialized node schema version.
const nodeVersion = 1

var (
	// ErrUnknownNodeType is returned when importing an inline node whose
	// type is not one of the inline kinds.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrInvalidNode is returned when a serialized node is missing required
	// fields or carries values outside its domain.
	ErrInvalidNode = errors.New("invalid node")
)

// Node is any node of a document tree: Root, Paragraph, LineBreak, Unknown
// or one of the inline nodes.
type Node interface {
	Type() string
	node()
}

// InlineNode is the capability set every inline node implements so the
// host editor can copy, persist and export it.
type InlineNode interface {
	Node
	json.Marshaler

	// Clone returns an independent copy of the node.
	Clone() InlineNode

	// Entity returns the node's value in the token model.
	Entity() markup.Entity

	// CanonicalText returns the node's raw-format text.
	CanonicalText() string

	// DisplayText returns the text a reader sees.
	DisplayText() string

	// ExportMarkup returns the node as an HTML element (or text node).
	ExportMarkup() *html.Node

	// IsInline is true for every inline node.
	IsInline() bool

	// IsAtomic reports whether the node is edited as a single unit.
	// Only TextNode can be split.
	IsAtomic() bool
}

// EmojiResolver supplies unicode or image data for an emoji shortcode.
type EmojiResolver interface {
	ResolveEmoji(name string) (markup.Emoji, bool)
}
