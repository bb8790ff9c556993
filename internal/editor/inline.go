package editor

import (
	"encoding/json"
	"fmt"

	"github.com/zjrosen/rawfmt/internal/markup"
)

// TextNode is a run of plain text.
type TextNode struct {
	Text string
}

// HashtagNode embeds a #tag.
type HashtagNode struct {
	markup.Hashtag
}

// MentionNode embeds a user mention.
type MentionNode struct {
	markup.Mention
}

// URLPillNode embeds a URL pill.
type URLPillNode struct {
	markup.URLPill
}

// EmojiNode embeds an emoji.
type EmojiNode struct {
	markup.Emoji
}

var (
	_ InlineNode = TextNode{}
	_ InlineNode = HashtagNode{}
	_ InlineNode = MentionNode{}
	_ InlineNode = URLPillNode{}
	_ InlineNode = EmojiNode{}
)

// NewInlineNode wraps a token value in its inline node. Values produced by
// the tokenizer are valid by construction; use ImportJSON or the New*Node
// constructors for untrusted input.
func NewInlineNode(e markup.Entity) InlineNode {
	switch v := e.(type) {
	case markup.Hashtag:
		return HashtagNode{v}
	case markup.Mention:
		return MentionNode{v}
	case markup.URLPill:
		return URLPillNode{v}
	case markup.Emoji:
		return EmojiNode{v}
	case markup.PlainText:
		return TextNode{Text: v.Text}
	default:
		return TextNode{}
	}
}

// NewHashtagNode validates tag and returns its node.
func NewHashtagNode(tag string) (HashtagNode, error) {
	h, ok := markup.DeserializeHashtag("#" + tag)
	if !ok {
		return HashtagNode{}, fmt.Errorf("%w: hashtag %q", ErrInvalidNode, tag)
	}
	return HashtagNode{h}, nil
}

// NewMentionNode validates m and returns its node. An empty filter type
// becomes author.
func NewMentionNode(m markup.Mention) (MentionNode, error) {
	if m.FilterType == "" {
		m.FilterType = markup.FilterAuthor
	}
	switch {
	case m.DisplayName == "":
		return MentionNode{}, fmt.Errorf("%w: mention missing displayName", ErrInvalidNode)
	case m.UserID == "":
		return MentionNode{}, fmt.Errorf("%w: mention missing userId", ErrInvalidNode)
	case !m.FilterType.Valid():
		return MentionNode{}, fmt.Errorf("%w: mention filterType %q", ErrInvalidNode, m.FilterType)
	}
	return MentionNode{m}, nil
}

// NewURLPillNode validates p and returns its node. Empty behavior becomes
// link and empty width becomes medium.
func NewURLPillNode(p markup.URLPill) (URLPillNode, error) {
	if p.Behavior == "" {
		p.Behavior = markup.BehaviorLink
	}
	if p.Width == "" {
		p.Width = markup.DefaultWidth
	}
	switch {
	case p.URL == "":
		return URLPillNode{}, fmt.Errorf("%w: url-pill missing url", ErrInvalidNode)
	case !p.Behavior.Valid():
		return URLPillNode{}, fmt.Errorf("%w: url-pill behavior %q", ErrInvalidNode, p.Behavior)
	case !p.Width.Valid():
		return URLPillNode{}, fmt.Errorf("%w: url-pill width %q", ErrInvalidNode, p.Width)
	}
	return URLPillNode{p}, nil
}

// NewEmojiNode validates e and returns its node. An empty id becomes the
// name.
func NewEmojiNode(e markup.Emoji) (EmojiNode, error) {
	if _, ok := markup.DeserializeEmoji(":" + e.Name + ":"); !ok {
		return EmojiNode{}, fmt.Errorf("%w: emoji name %q", ErrInvalidNode, e.Name)
	}
	if e.EmojiID == "" {
		e.EmojiID = e.Name
	}
	return EmojiNode{e}, nil
}

func (TextNode) Type() string    { return TypeText }
func (HashtagNode) Type() string { return TypeHashtag }
func (MentionNode) Type() string { return TypeMention }
func (URLPillNode) Type() string { return TypeURLPill }
func (EmojiNode) Type() string   { return TypeEmoji }

func (TextNode) node()    {}
func (HashtagNode) node() {}
func (MentionNode) node() {}
func (URLPillNode) node() {}
func (EmojiNode) node()   {}

func (n TextNode) Clone() InlineNode    { return n }
func (n HashtagNode) Clone() InlineNode { return n }
func (n MentionNode) Clone() InlineNode { return n }
func (n URLPillNode) Clone() InlineNode { return n }
func (n EmojiNode) Clone() InlineNode   { return n }

func (n TextNode) Entity() markup.Entity    { return markup.PlainText{Text: n.Text} }
func (n HashtagNode) Entity() markup.Entity { return n.Hashtag }
func (n MentionNode) Entity() markup.Entity { return n.Mention }
func (n URLPillNode) Entity() markup.Entity { return n.URLPill }
func (n EmojiNode) Entity() markup.Entity   { return n.Emoji }

func (n TextNode) CanonicalText() string    { return n.Text }
func (n HashtagNode) CanonicalText() string { return markup.SerializeHashtag(n.Hashtag) }
func (n MentionNode) CanonicalText() string { return markup.SerializeMention(n.Mention) }
func (n URLPillNode) CanonicalText() string { return markup.SerializeURLPill(n.URLPill) }
func (n EmojiNode) CanonicalText() string   { return markup.SerializeEmoji(n.Emoji) }

func (n TextNode) DisplayText() string    { return n.Text }
func (n HashtagNode) DisplayText() string { return markup.DisplayText(n.Hashtag) }
func (n MentionNode) DisplayText() string { return markup.DisplayText(n.Mention) }
func (n URLPillNode) DisplayText() string { return markup.DisplayText(n.URLPill) }
func (n EmojiNode) DisplayText() string   { return markup.DisplayText(n.Emoji) }

func (TextNode) IsInline() bool    { return true }
func (HashtagNode) IsInline() bool { return true }
func (MentionNode) IsInline() bool { return true }
func (URLPillNode) IsInline() bool { return true }
func (EmojiNode) IsInline() bool   { return true }

func (TextNode) IsAtomic() bool    { return false }
func (HashtagNode) IsAtomic() bool { return true }
func (MentionNode) IsAtomic() bool { return true }
func (URLPillNode) IsAtomic() bool { return true }
func (EmojiNode) IsAtomic() bool   { return true }

// MarshalJSON writes the node in the editor's text node shape.
func (n TextNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Text    string `json:"text"`
		Detail  int    `json:"detail"`
		Format  int    `json:"format"`
		Mode    string `json:"mode"`
		Style   string `json:"style"`
		Version int    `json:"version"`
	}{TypeText, n.Text, 0, 0, "normal", "", nodeVersion})
}

func (n HashtagNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		markup.Hashtag
		Version int `json:"version"`
	}{TypeHashtag, n.Hashtag, nodeVersion})
}

func (n MentionNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		markup.Mention
		Version int `json:"version"`
	}{TypeMention, n.Mention, nodeVersion})
}

func (n URLPillNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		markup.URLPill
		Version int `json:"version"`
	}{TypeURLPill, n.URLPill, nodeVersion})
}

func (n EmojiNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		markup.Emoji
		Version int `json:"version"`
	}{TypeEmoji, n.Emoji, nodeVersion})
}

// ImportJSON decodes a single serialized inline node. Corrupt JSON, an
// unknown type or missing required fields are errors.
func ImportJSON(data []byte) (InlineNode, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decoding node: %w", err)
	}

	var (
		node InlineNode
		err  error
	)
	switch head.Type {
	case TypeText:
		var v struct {
			Text string `json:"text"`
		}
		if err = json.Unmarshal(data, &v); err == nil {
			node = TextNode{Text: v.Text}
		}
	case TypeHashtag:
		var v markup.Hashtag
		if err = json.Unmarshal(data, &v); err == nil {
			node, err = NewHashtagNode(v.Tag)
		}
	case TypeMention:
		var v markup.Mention
		if err = json.Unmarshal(data, &v); err == nil {
			node, err = NewMentionNode(v)
		}
	case TypeURLPill:
		var v markup.URLPill
		if err = json.Unmarshal(data, &v); err == nil {
			node, err = NewURLPillNode(v)
		}
	case TypeEmoji:
		var v markup.Emoji
		if err = json.Unmarshal(data, &v); err == nil {
			node, err = NewEmojiNode(v)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, head.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s node: %w", head.Type, err)
	}
	return node, nil
}

// isInlineType reports whether t names an inline node kind.
func isInlineType(t string) bool {
	switch t {
	case TypeText, TypeHashtag, TypeMention, TypeURLPill, TypeEmoji:
		return true
	}
	return false
}
