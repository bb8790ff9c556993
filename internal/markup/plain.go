package markup

import "strings"

// DisplayText returns how e reads to a person: mentions as @name, URL
// pills as their URL, resolved emoji as their unicode character.
func DisplayText(e Entity) string {
	switch v := e.(type) {
	case PlainText:
		return v.Text
	case Hashtag:
		return SerializeHashtag(v)
	case Mention:
		return "@" + v.DisplayName
	case URLPill:
		return v.URL
	case Emoji:
		if v.Unicode != "" {
			return v.Unicode
		}
		return SerializeEmoji(v)
	default:
		return ""
	}
}

// RenderPlain concatenates the display text of every token.
func RenderPlain(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Value != nil {
			b.WriteString(DisplayText(tok.Value))
		}
	}
	return b.String()
}

// Entities lists the distinct entities referenced by a token sequence, in
// order of first appearance.
type Entities struct {
	Hashtags []string  `json:"hashtags"`
	Mentions []Mention `json:"mentions"`
	URLs     []string  `json:"urls"`
	Emoji    []string  `json:"emoji"`
}

// Extract collects the entities in tokens. Mentions are deduplicated by
// user id and hashtags case-insensitively.
func Extract(tokens []Token) Entities {
	var (
		out      Entities
		tags     = map[string]bool{}
		users    = map[string]bool{}
		urls     = map[string]bool{}
		emojiSet = map[string]bool{}
	)
	for _, tok := range tokens {
		switch v := tok.Value.(type) {
		case Hashtag:
			key := strings.ToLower(v.Tag)
			if !tags[key] {
				tags[key] = true
				out.Hashtags = append(out.Hashtags, v.Tag)
			}
		case Mention:
			if !users[v.UserID] {
				users[v.UserID] = true
				out.Mentions = append(out.Mentions, v)
			}
		case URLPill:
			if !urls[v.URL] {
				urls[v.URL] = true
				out.URLs = append(out.URLs, v.URL)
			}
		case Emoji:
			if !emojiSet[v.Name] {
				emojiSet[v.Name] = true
				out.Emoji = append(out.Emoji, v.Name)
			}
		}
	}
	return out
}
