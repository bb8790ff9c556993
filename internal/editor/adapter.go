package editor

import (
	"strings"

	"github.com/zjrosen/rawfmt/internal/markup"
)

// TreeToRaw flattens a document tree into raw text. Text nodes contribute
// their text, inline entities their canonical form, line breaks and the end
// of every paragraph a newline. Trailing newlines are trimmed.
func TreeToRaw(root Root) string {
	return flatten(root, InlineNode.CanonicalText)
}

// TreeToPlain flattens a document tree into the text a reader sees.
func TreeToPlain(root Root) string {
	return flatten(root, InlineNode.DisplayText)
}

func flatten(root Root, text func(InlineNode) string) string {
	var b strings.Builder
	writeNode(&b, root, text)
	return strings.TrimRight(b.String(), "\n")
}

func writeNode(b *strings.Builder, n Node, text func(InlineNode) string) {
	switch v := n.(type) {
	case Root:
		for _, c := range v.Children {
			writeNode(b, c, text)
		}
	case Paragraph:
		for _, c := range v.Children {
			writeNode(b, c, text)
		}
		b.WriteByte('\n')
	case LineBreak:
		b.WriteByte('\n')
	case InlineNode:
		b.WriteString(text(v))
	case Unknown:
		// Forward compatibility: contribute children only.
		for _, c := range v.Children {
			writeNode(b, c, text)
		}
	}
}

// RawToTree splits raw text into one paragraph per line, each holding a
// single text node. Entities are recognized later by Reparse.
func RawToTree(raw string) Root {
	lines := strings.Split(raw, "\n")
	root := Root{Children: make([]Node, 0, len(lines))}
	for _, line := range lines {
		root.Children = append(root.Children, NewParagraph(TextNode{Text: line}))
	}
	return root
}

// ParseRaw builds a tree from raw text with entities already recognized.
func ParseRaw(raw string, opts ...ReparseOption) Root {
	return Reparse(RawToTree(raw), opts...)
}

type reparseConfig struct {
	tokenizer *markup.Tokenizer
	resolver  EmojiResolver
}

// ReparseOption configures Reparse.
type ReparseOption func(*reparseConfig)

// WithTokenizer replaces the default tokenizer, e.g. to disable kinds.
func WithTokenizer(t *markup.Tokenizer) ReparseOption {
	return func(c *reparseConfig) {
		if t != nil {
			c.tokenizer = t
		}
	}
}

// WithEmojiResolver attaches unicode or image data to unresolved emoji.
func WithEmojiResolver(r EmojiResolver) ReparseOption {
	return func(c *reparseConfig) {
		c.resolver = r
	}
}

// Reparse returns a copy of root in which the text of every paragraph is
// re-tokenized into inline nodes. Adjacent text nodes are merged first so
// entities split across them are recognized. Existing entity nodes are kept.
func Reparse(root Root, opts ...ReparseOption) Root {
	cfg := reparseConfig{tokenizer: markup.NewTokenizer(markup.DefaultOptions())}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg.node(root).(Root)
}

func (c *reparseConfig) node(n Node) Node {
	switch v := n.(type) {
	case Root:
		out := Root{Children: make([]Node, 0, len(v.Children))}
		for _, child := range v.Children {
			out.Children = append(out.Children, c.node(child))
		}
		return out
	case Paragraph:
		return Paragraph{Children: c.inline(v.Children)}
	case Unknown:
		out := v
		out.Children = c.inline(v.Children)
		return out
	case EmojiNode:
		return c.resolve(v)
	default:
		return n
	}
}

// inline re-tokenizes runs of text nodes within a child list.
func (c *reparseConfig) inline(kids []Node) []Node {
	if kids == nil {
		return nil
	}
	out := make([]Node, 0, len(kids))
	var run strings.Builder
	flush := func() {
		if run.Len() == 0 {
			return
		}
		for _, tok := range c.tokenizer.Tokenize(run.String()) {
			out = append(out, c.node(NewInlineNode(tok.Value)))
		}
		run.Reset()
	}
	for _, child := range kids {
		if t, ok := child.(TextNode); ok {
			run.WriteString(t.Text)
			continue
		}
		flush()
		out = append(out, c.node(child))
	}
	flush()
	return out
}

func (c *reparseConfig) resolve(n EmojiNode) EmojiNode {
	if c.resolver == nil || n.Resolved() {
		return n
	}
	res, ok := c.resolver.ResolveEmoji(n.Name)
	if !ok {
		return n
	}
	if res.EmojiID != "" {
		n.EmojiID = res.EmojiID
	}
	n.Unicode = res.Unicode
	n.ImageURL = res.ImageURL
	return n
}
