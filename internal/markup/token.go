// Package markup implements the raw inline-markup format used to persist
// rich text: hashtags, user mentions, URL pills and emoji embedded in plain
// text. It tokenizes raw text into typed entities and serializes entities
// back into their canonical raw form.
package markup

// Kind identifies the type of an inline entity.
type Kind int

const (
	KindText Kind = iota
	KindHashtag
	KindMention
	KindURLPill
	KindEmoji
)

// String returns the node type name used by the editor for this kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHashtag:
		return "hashtag"
	case KindMention:
		return "mention"
	case KindURLPill:
		return "url-pill"
	case KindEmoji:
		return "emoji"
	default:
		return "unknown"
	}
}

// FilterType selects which feed a mention links to.
type FilterType string

const (
	FilterAuthor   FilterType = "author"   // posts written by the user
	FilterMentions FilterType = "mentions" // posts mentioning the user
)

// Valid reports whether f is a known filter type.
func (f FilterType) Valid() bool {
	return f == FilterAuthor || f == FilterMentions
}

// Behavior controls how a URL pill opens its target.
type Behavior string

const (
	BehaviorEmbed Behavior = "embed"
	BehaviorLink  Behavior = "link"
	BehaviorModal Behavior = "modal"
)

// Valid reports whether b is a known behavior.
func (b Behavior) Valid() bool {
	switch b {
	case BehaviorEmbed, BehaviorLink, BehaviorModal:
		return true
	}
	return false
}

// Width is the rendered width of an embedded URL pill.
type Width string

const (
	WidthSmall  Width = "small"
	WidthMedium Width = "medium"
	WidthLarge  Width = "large"
	WidthFull   Width = "full"
)

// DefaultWidth is omitted from canonical serialization.
const DefaultWidth = WidthMedium

// Valid reports whether w is a known width.
func (w Width) Valid() bool {
	switch w {
	case WidthSmall, WidthMedium, WidthLarge, WidthFull:
		return true
	}
	return false
}

// Entity is the closed set of values a token can carry: PlainText,
// Hashtag, Mention, URLPill and Emoji.
type Entity interface {
	Kind() Kind
	entity()
}

// PlainText is literal text with no special meaning.
type PlainText struct {
	Text string `json:"text"`
}

// Hashtag is a #tag reference.
type Hashtag struct {
	Tag string `json:"tag"`
}

// Mention references a user by opaque id.
type Mention struct {
	DisplayName string     `json:"displayName"`
	UserID      string     `json:"userId"`
	FilterType  FilterType `json:"filterType"`
}

// URLPill is an embedded or linked URL.
type URLPill struct {
	URL      string   `json:"url"`
	Behavior Behavior `json:"behavior"`
	Width    Width    `json:"width"`
}

// Emoji is a :name: shortcode. Unicode and ImageURL are attached by an
// external resolver; both empty means unresolved.
type Emoji struct {
	EmojiID  string `json:"emojiId"`
	Name     string `json:"name"`
	Unicode  string `json:"unicode,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Resolved reports whether the emoji has a unicode or image representation.
func (e Emoji) Resolved() bool {
	return e.Unicode != "" || e.ImageURL != ""
}

func (PlainText) Kind() Kind { return KindText }
func (Hashtag) Kind() Kind   { return KindHashtag }
func (Mention) Kind() Kind   { return KindMention }
func (URLPill) Kind() Kind   { return KindURLPill }
func (Emoji) Kind() Kind     { return KindEmoji }

func (PlainText) entity() {}
func (Hashtag) entity()   {}
func (Mention) entity()   {}
func (URLPill) entity()   {}
func (Emoji) entity()     {}

// Token is a classified substring of raw text. Start and End are half-open
// byte offsets into the tokenized input.
type Token struct {
	Start int
	End   int
	Value Entity
}

// Kind returns the kind of the token's value.
func (t Token) Kind() Kind {
	if t.Value == nil {
		return KindText
	}
	return t.Value.Kind()
}

// Len returns the number of bytes the token covers.
func (t Token) Len() int {
	return t.End - t.Start
}
