package markup

import (
	"regexp"
	"strings"
)

// Anchored patterns for deserializing a single token substring.
var (
	hashtagExact       = regexp.MustCompile(`^#([A-Za-z0-9_-]+)$`)
	mentionExact       = regexp.MustCompile(`^@\[([^|]+)\|([^|]+)\|([^|\]]+)\]$`)
	mentionLegacyExact = regexp.MustCompile(`^@\[([^|]+)\|([^|]+)\]$`)
	urlPillExact       = regexp.MustCompile(`^!\[([^|\]]+)(?:\|([^\]]+))?\]\(([^)]+)\)$`)
	emojiExact         = regexp.MustCompile(`^:([A-Za-z][A-Za-z0-9_]{0,31}):$`)
)

// SerializeHashtag returns #tag.
func SerializeHashtag(h Hashtag) string {
	return "#" + h.Tag
}

// SerializeMention returns the three-field form @[displayName|userId|filterType].
// An empty filter type is written as author.
func SerializeMention(m Mention) string {
	filter := m.FilterType
	if filter == "" {
		filter = FilterAuthor
	}
	return "@[" + m.DisplayName + "|" + m.UserID + "|" + string(filter) + "]"
}

// SerializeURLPill returns ![behavior|width](url), or ![behavior](url) when
// the width is the default. Width is only written for embeds.
func SerializeURLPill(p URLPill) string {
	if p.Behavior == BehaviorEmbed && p.Width != "" && p.Width != DefaultWidth {
		return "![" + string(p.Behavior) + "|" + string(p.Width) + "](" + p.URL + ")"
	}
	return "![" + string(p.Behavior) + "](" + p.URL + ")"
}

// SerializeEmoji returns :name:. Resolution data is never persisted.
func SerializeEmoji(e Emoji) string {
	return ":" + e.Name + ":"
}

// SerializePlainText returns the text unchanged.
func SerializePlainText(p PlainText) string {
	return p.Text
}

// Serialize returns the canonical raw form of e.
func Serialize(e Entity) string {
	switch v := e.(type) {
	case PlainText:
		return SerializePlainText(v)
	case Hashtag:
		return SerializeHashtag(v)
	case Mention:
		return SerializeMention(v)
	case URLPill:
		return SerializeURLPill(v)
	case Emoji:
		return SerializeEmoji(v)
	default:
		return ""
	}
}

// Render concatenates the canonical form of every token.
func Render(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Value != nil {
			b.WriteString(Serialize(tok.Value))
		}
	}
	return b.String()
}

// DeserializeHashtag parses a complete #tag substring.
func DeserializeHashtag(raw string) (Hashtag, bool) {
	m := hashtagExact.FindStringSubmatch(raw)
	if m == nil {
		return Hashtag{}, false
	}
	return Hashtag{Tag: m[1]}, true
}

// DeserializeMention parses @[displayName|userId|filterType], falling back
// to the legacy @[displayName|userId] form with filter type author.
func DeserializeMention(raw string) (Mention, bool) {
	if m := mentionExact.FindStringSubmatch(raw); m != nil {
		filter := FilterType(m[3])
		if filter.Valid() {
			return Mention{DisplayName: m[1], UserID: m[2], FilterType: filter}, true
		}
	}
	if m := mentionLegacyExact.FindStringSubmatch(raw); m != nil {
		return Mention{DisplayName: m[1], UserID: m[2], FilterType: FilterAuthor}, true
	}
	return Mention{}, false
}

// DeserializeURLPill parses ![behavior|width](url) or ![behavior](url).
func DeserializeURLPill(raw string) (URLPill, bool) {
	m := urlPillExact.FindStringSubmatch(raw)
	if m == nil {
		return URLPill{}, false
	}
	p := URLPill{Behavior: Behavior(m[1]), Width: Width(m[2]), URL: m[3]}
	if p.Width == "" {
		p.Width = DefaultWidth
	}
	if !p.Behavior.Valid() || !p.Width.Valid() {
		return URLPill{}, false
	}
	return p, true
}

// DeserializeEmoji parses :name:. The emoji id defaults to the name.
func DeserializeEmoji(raw string) (Emoji, bool) {
	m := emojiExact.FindStringSubmatch(raw)
	if m == nil {
		return Emoji{}, false
	}
	return Emoji{EmojiID: m[1], Name: m[1]}, true
}

// Parse deserializes a single token substring, trying each kind in
// priority order. Anything unrecognized is PlainText.
func Parse(raw string) Entity {
	if p, ok := DeserializeURLPill(raw); ok {
		return p
	}
	if m, ok := DeserializeMention(raw); ok {
		return m
	}
	if h, ok := DeserializeHashtag(raw); ok {
		return h
	}
	if e, ok := DeserializeEmoji(raw); ok {
		return e
	}
	return PlainText{Text: raw}
}
