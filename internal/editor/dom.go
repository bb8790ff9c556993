package editor

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/zjrosen/rawfmt/internal/markup"
)

const (
	attrKind       = "data-kind"
	attrHashtag    = "data-hashtag"
	attrUserID     = "data-user-id"
	attrFilterType = "data-filter-type"
	attrURL        = "data-url"
	attrBehavior   = "data-behavior"
	attrWidth      = "data-width"
	attrEmojiID    = "data-emoji-id"
)

func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func textChild(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}

func (n TextNode) ExportMarkup() *html.Node {
	return &html.Node{Type: html.TextNode, Data: n.Text}
}

func (n HashtagNode) ExportMarkup() *html.Node {
	el := element(atom.Span,
		"class", "content-pill content-pill--hashtag",
		attrKind, TypeHashtag,
		attrHashtag, n.Tag,
	)
	return textChild(el, "#"+n.Tag)
}

func (n MentionNode) ExportMarkup() *html.Node {
	el := element(atom.Span,
		"class", "content-pill content-pill--mention",
		attrKind, TypeMention,
		attrUserID, n.UserID,
		attrFilterType, string(n.FilterType),
	)
	return textChild(el, "@"+n.DisplayName)
}

func (n URLPillNode) ExportMarkup() *html.Node {
	el := element(atom.Span,
		"class", "url-pill url-pill--"+string(n.Behavior),
		attrKind, TypeURLPill,
		attrURL, n.URL,
		attrBehavior, string(n.Behavior),
		attrWidth, string(n.Width),
	)
	link := element(atom.A,
		"href", n.URL,
		"target", "_blank",
		"rel", "noopener noreferrer",
	)
	el.AppendChild(textChild(link, n.URL))
	return el
}

func (n EmojiNode) ExportMarkup() *html.Node {
	title := ":" + n.Name + ":"
	switch {
	case n.Unicode != "":
		el := element(atom.Span,
			"class", "emoji emoji--unicode",
			attrKind, TypeEmoji,
			attrEmojiID, n.EmojiID,
			"title", title,
		)
		return textChild(el, n.Unicode)
	case n.ImageURL != "":
		return element(atom.Img,
			"class", "emoji emoji--custom",
			attrKind, TypeEmoji,
			attrEmojiID, n.EmojiID,
			"src", n.ImageURL,
			"alt", title,
			"title", title,
			"loading", "lazy",
		)
	default:
		el := element(atom.Span,
			"class", "emoji emoji--fallback",
			attrKind, TypeEmoji,
			attrEmojiID, n.EmojiID,
			"title", title,
		)
		return textChild(el, title)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// nodeKind identifies which inline kind an element was exported as. The
// data-kind attribute wins; class names are the fallback for markup that
// passed through a sanitizer that strips data attributes.
func nodeKind(n *html.Node) string {
	if k := attr(n, attrKind); k != "" {
		return k
	}
	switch {
	case hasClass(n, "content-pill--hashtag"):
		return TypeHashtag
	case hasClass(n, "content-pill--mention"):
		return TypeMention
	case hasClass(n, "url-pill"):
		return TypeURLPill
	case hasClass(n, "emoji"):
		return TypeEmoji
	}
	return ""
}

func innerText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// ImportMarkup recognizes an element produced by ExportMarkup. It reports
// false for anything that is not a valid inline entity.
func ImportMarkup(n *html.Node) (InlineNode, bool) {
	if n == nil {
		return nil, false
	}
	if n.Type == html.TextNode {
		return TextNode{Text: n.Data}, true
	}
	if n.Type != html.ElementNode {
		return nil, false
	}

	var (
		node InlineNode
		err  error
	)
	switch nodeKind(n) {
	case TypeHashtag:
		tag := attr(n, attrHashtag)
		if tag == "" {
			tag = strings.TrimPrefix(innerText(n), "#")
		}
		node, err = NewHashtagNode(tag)
	case TypeMention:
		node, err = NewMentionNode(markup.Mention{
			DisplayName: strings.TrimPrefix(innerText(n), "@"),
			UserID:      attr(n, attrUserID),
			FilterType:  markup.FilterType(attr(n, attrFilterType)),
		})
	case TypeURLPill:
		url := attr(n, attrURL)
		if url == "" {
			url = innerText(n)
		}
		node, err = NewURLPillNode(markup.URLPill{
			URL:      url,
			Behavior: markup.Behavior(attr(n, attrBehavior)),
			Width:    markup.Width(attr(n, attrWidth)),
		})
	case TypeEmoji:
		node, err = importEmoji(n)
	default:
		return nil, false
	}
	if err != nil {
		return nil, false
	}
	return node, true
}

func importEmoji(n *html.Node) (InlineNode, error) {
	name := strings.Trim(attr(n, "title"), ":")
	if name == "" {
		name = strings.Trim(attr(n, "alt"), ":")
	}
	e := markup.Emoji{EmojiID: attr(n, attrEmojiID), Name: name}
	switch {
	case n.DataAtom == atom.Img:
		e.ImageURL = attr(n, "src")
	case hasClass(n, "emoji--unicode"):
		e.Unicode = innerText(n)
	}
	return NewEmojiNode(e)
}

// ExportHTML renders the tree as HTML: a <p> per paragraph and a <br> per
// line break. Unknown nodes are flattened into their children.
func ExportHTML(root Root) (string, error) {
	var buf bytes.Buffer
	for _, n := range exportBlocks(root.Children) {
		if err := html.Render(&buf, n); err != nil {
			return "", fmt.Errorf("rendering html: %w", err)
		}
	}
	return buf.String(), nil
}

func exportBlocks(kids []Node) []*html.Node {
	var out []*html.Node
	for _, c := range kids {
		switch v := c.(type) {
		case Paragraph:
			p := element(atom.P)
			for _, n := range exportInline(v.Children) {
				p.AppendChild(n)
			}
			out = append(out, p)
		case Unknown:
			out = append(out, exportBlocks(v.Children)...)
		default:
			out = append(out, exportInline([]Node{c})...)
		}
	}
	return out
}

func exportInline(kids []Node) []*html.Node {
	var out []*html.Node
	for _, c := range kids {
		switch v := c.(type) {
		case LineBreak:
			out = append(out, element(atom.Br))
		case InlineNode:
			out = append(out, v.ExportMarkup())
		case Paragraph:
			out = append(out, exportInline(v.Children)...)
		case Unknown:
			out = append(out, exportInline(v.Children)...)
		}
	}
	return out
}

// ImportHTML parses an HTML fragment into a document tree. Block elements
// become paragraphs, <br> becomes a line break and recognized entity
// elements become their inline nodes. Other elements contribute their
// content.
func ImportHTML(r io.Reader) (Root, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return Root{}, fmt.Errorf("parsing html: %w", err)
	}

	var (
		root    Root
		pending []Node
	)
	flush := func() {
		if len(pending) > 0 && !isBlank(pending) {
			root.Children = append(root.Children, Paragraph{Children: pending})
		}
		pending = nil
	}
	for _, n := range nodes {
		importBlock(n, &root, &pending, flush)
	}
	flush()
	return root, nil
}

func importBlock(n *html.Node, root *Root, pending *[]Node, flush func()) {
	if n.Type == html.ElementNode && isBlock(n.DataAtom) {
		if hasBlockChild(n) {
			flush()
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				importBlock(c, root, pending, flush)
			}
			flush()
			return
		}
		flush()
		root.Children = append(root.Children, Paragraph{Children: importInline(n, nil)})
		return
	}
	*pending = appendInline(*pending, n)
}

func importInline(n *html.Node, out []Node) []Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = appendInline(out, c)
	}
	return out
}

func appendInline(out []Node, n *html.Node) []Node {
	switch n.Type {
	case html.TextNode:
		return appendText(out, n.Data)
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			return append(out, LineBreak{})
		}
		if node, ok := ImportMarkup(n); ok {
			return append(out, node)
		}
		return importInline(n, out)
	}
	return out
}

// appendText merges s into a trailing text node.
func appendText(out []Node, s string) []Node {
	if s == "" {
		return out
	}
	if last := len(out) - 1; last >= 0 {
		if t, ok := out[last].(TextNode); ok {
			out[last] = TextNode{Text: t.Text + s}
			return out
		}
	}
	return append(out, TextNode{Text: s})
}

func isBlank(nodes []Node) bool {
	for _, n := range nodes {
		t, ok := n.(TextNode)
		if !ok || strings.TrimSpace(t.Text) != "" {
			return false
		}
	}
	return true
}

func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre, atom.Section, atom.Article:
		return true
	}
	return false
}

func hasBlockChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlock(c.DataAtom) {
			return true
		}
	}
	return false
}
