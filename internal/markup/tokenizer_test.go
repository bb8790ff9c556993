package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Empty(t *testing.T) {
	require.Nil(t, Tokenize(""))
}

func TestTokenize_BasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "plain text only",
			input: "hello world",
			expected: []Token{
				{Start: 0, End: 11, Value: PlainText{Text: "hello world"}},
			},
		},
		{
			name:  "hashtag in text",
			input: "see #go-lang now",
			expected: []Token{
				{Start: 0, End: 4, Value: PlainText{Text: "see "}},
				{Start: 4, End: 12, Value: Hashtag{Tag: "go-lang"}},
				{Start: 12, End: 16, Value: PlainText{Text: " now"}},
			},
		},
		{
			name:  "canonical mention",
			input: "@[Bob|7|mentions]",
			expected: []Token{
				{Start: 0, End: 17, Value: Mention{DisplayName: "Bob", UserID: "7", FilterType: FilterMentions}},
			},
		},
		{
			name:  "legacy mention defaults to author",
			input: "hi @[Alice|42]",
			expected: []Token{
				{Start: 0, End: 3, Value: PlainText{Text: "hi "}},
				{Start: 3, End: 14, Value: Mention{DisplayName: "Alice", UserID: "42", FilterType: FilterAuthor}},
			},
		},
		{
			name:  "url pill without width",
			input: "![link](https://ex.com)",
			expected: []Token{
				{Start: 0, End: 23, Value: URLPill{URL: "https://ex.com", Behavior: BehaviorLink, Width: WidthMedium}},
			},
		},
		{
			name:  "url pill with width",
			input: "![embed|large](https://ex.com)",
			expected: []Token{
				{Start: 0, End: 30, Value: URLPill{URL: "https://ex.com", Behavior: BehaviorEmbed, Width: WidthLarge}},
			},
		},
		{
			name:  "emoji",
			input: "ok :thumbs_up:",
			expected: []Token{
				{Start: 0, End: 3, Value: PlainText{Text: "ok "}},
				{Start: 3, End: 14, Value: Emoji{EmojiID: "thumbs_up", Name: "thumbs_up"}},
			},
		},
		{
			name:  "adjacent hashtags",
			input: "#a#b",
			expected: []Token{
				{Start: 0, End: 2, Value: Hashtag{Tag: "a"}},
				{Start: 2, End: 4, Value: Hashtag{Tag: "b"}},
			},
		},
		{
			name:  "mention then hashtag at boundary",
			input: "@[a|1]#b",
			expected: []Token{
				{Start: 0, End: 6, Value: Mention{DisplayName: "a", UserID: "1", FilterType: FilterAuthor}},
				{Start: 6, End: 8, Value: Hashtag{Tag: "b"}},
			},
		},
		{
			name:  "consecutive emoji share no colon",
			input: ":a::b:",
			expected: []Token{
				{Start: 0, End: 3, Value: Emoji{EmojiID: "a", Name: "a"}},
				{Start: 3, End: 6, Value: Emoji{EmojiID: "b", Name: "b"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenize_ConcreteScenario(t *testing.T) {
	input := "Check #news from @[Bob|7|mentions] :wave: here ![link](https://ex.com)"

	tokens := Tokenize(input)

	kinds := make([]Kind, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.Kind()
	}
	require.Equal(t, []Kind{
		KindText, KindHashtag, KindText, KindMention, KindText,
		KindEmoji, KindText, KindURLPill,
	}, kinds)
	require.Equal(t, PlainText{Text: " here "}, tokens[6].Value)
	require.Equal(t, input, Render(tokens))
}

func TestTokenize_EntityAtEdges(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kinds []Kind
	}{
		{name: "hashtag at start", input: "#start of line", kinds: []Kind{KindHashtag, KindText}},
		{name: "hashtag at end", input: "end of #line", kinds: []Kind{KindText, KindHashtag}},
		{name: "entity is entire input", input: ":wave:", kinds: []Kind{KindEmoji}},
		{name: "pill at start mention at end", input: "![modal](https://x.io) @[Al|3]", kinds: []Kind{KindURLPill, KindText, KindMention}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, len(tt.kinds))
			for i, tok := range tokens {
				require.Equal(t, tt.kinds[i], tok.Kind(), "token %d", i)
			}
			require.Equal(t, 0, tokens[0].Start)
			require.Equal(t, len(tt.input), tokens[len(tokens)-1].End)
		})
	}
}

func TestTokenize_MalformedStaysPlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unknown filter type", input: "@[a|1|everyone]"},
		{name: "unknown behavior", input: "![popup](https://ex.com)"},
		{name: "unknown width", input: "![embed|huge](https://ex.com)"},
		{name: "mention without user id", input: "@[alice]"},
		{name: "empty hashtag", input: "# heading"},
		{name: "emoji starting with digit", input: ":1st:"},
		{name: "emoji name too long", input: ":" + "a234567890123456789012345678901234" + ":"},
		{name: "unclosed pill", input: "![link](https://ex.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Equal(t, []Token{{Start: 0, End: len(tt.input), Value: PlainText{Text: tt.input}}}, tokens)
		})
	}
}

func TestTokenize_EarlierStartWins(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Entity
	}{
		{
			name:     "hashtag inside mention name",
			input:    "@[team #ops|9|author]",
			expected: Mention{DisplayName: "team #ops", UserID: "9", FilterType: FilterAuthor},
		},
		{
			name:     "emoji inside pill url",
			input:    "![embed](https://ex.com/:wave:)",
			expected: URLPill{URL: "https://ex.com/:wave:", Behavior: BehaviorEmbed, Width: WidthMedium},
		},
		{
			name:     "hashtag inside pill url",
			input:    "![link](https://ex.com/#frag)",
			expected: URLPill{URL: "https://ex.com/#frag", Behavior: BehaviorLink, Width: WidthMedium},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Len(t, tokens, 1)
			require.Equal(t, tt.expected, tokens[0].Value)
		})
	}
}

func TestTokenize_MentionUserIDRunsToLastBracket(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Mention
	}{
		{
			name:     "bracket inside canonical user id",
			input:    "@[a|b]c|author]",
			expected: Mention{DisplayName: "a", UserID: "b]c", FilterType: FilterAuthor},
		},
		{
			name:     "legacy mention followed by brackets",
			input:    "@[Al|3] see [docs]",
			expected: Mention{DisplayName: "Al", UserID: "3] see [docs", FilterType: FilterAuthor},
		},
		{
			name:     "bracket inside display name",
			input:    "@[x]y|7|mentions]",
			expected: Mention{DisplayName: "x]y", UserID: "7", FilterType: FilterMentions},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.input)
			require.Equal(t, []Token{{Start: 0, End: len(tt.input), Value: tt.expected}}, tokens)

			m, ok := DeserializeMention(tt.input)
			require.True(t, ok)
			require.Equal(t, tt.expected, m)
		})
	}
}

func TestTokenize_UnknownFilterTypeStaysPlainText(t *testing.T) {
	tokens := Tokenize("@[a|1|foo]")
	require.Equal(t, []Token{{Start: 0, End: 10, Value: PlainText{Text: "@[a|1|foo]"}}}, tokens)

	_, ok := DeserializeMention("@[a|1|foo]")
	require.False(t, ok)
}

func TestScheduleByEarliestStart_PriorityBreaksTies(t *testing.T) {
	// Registry patterns each start with a distinct marker, so ties are
	// constructed directly.
	hashtag := candidate{start: 0, end: 4, priority: Priority(KindHashtag), value: Hashtag{Tag: "abc"}}
	mention := candidate{start: 0, end: 9, priority: Priority(KindMention), value: Mention{DisplayName: "a", UserID: "1", FilterType: FilterAuthor}}
	emoji := candidate{start: 0, end: 2, priority: Priority(KindEmoji), value: Emoji{Name: "x"}}
	pill := candidate{start: 0, end: 12, priority: Priority(KindURLPill), value: URLPill{URL: "u", Behavior: BehaviorLink, Width: WidthMedium}}

	kept := scheduleByEarliestStart([]candidate{emoji, hashtag, mention})
	require.Len(t, kept, 1)
	require.Equal(t, KindMention, kept[0].value.Kind(), "mention must beat hashtag and emoji at the same start")

	kept = scheduleByEarliestStart([]candidate{hashtag, mention, pill})
	require.Len(t, kept, 1)
	require.Equal(t, KindURLPill, kept[0].value.Kind(), "url pill must beat everything at the same start")

	kept = scheduleByEarliestStart([]candidate{emoji, hashtag})
	require.Len(t, kept, 1)
	require.Equal(t, KindHashtag, kept[0].value.Kind())
}

func TestScheduleByEarliestStart_NotShortestFirst(t *testing.T) {
	long := candidate{start: 0, end: 10, priority: 3, value: Emoji{Name: "long"}}
	short := candidate{start: 2, end: 4, priority: 0, value: URLPill{URL: "u", Behavior: BehaviorLink}}
	after := candidate{start: 10, end: 12, priority: 2, value: Hashtag{Tag: "x"}}

	kept := scheduleByEarliestStart([]candidate{after, short, long})
	require.Len(t, kept, 2)
	require.Equal(t, 0, kept[0].start)
	require.Equal(t, 10, kept[1].start, "a candidate starting exactly at the last end is kept")
}

func TestPriority_Order(t *testing.T) {
	require.Equal(t, 0, Priority(KindURLPill))
	require.Equal(t, 1, Priority(KindMention))
	require.Equal(t, 2, Priority(KindHashtag))
	require.Equal(t, 3, Priority(KindEmoji))
	require.Equal(t, -1, Priority(KindText))
}

func TestTokenizer_DisabledKindsStayPlain(t *testing.T) {
	input := "#tag @[a|1|author] :wave: ![link](https://ex.com)"

	opts := DefaultOptions()
	opts.Hashtags = false
	opts.Emoji = false
	tokens := NewTokenizer(opts).Tokenize(input)

	var kinds []Kind
	for _, tok := range tokens {
		if tok.Kind() != KindText {
			kinds = append(kinds, tok.Kind())
		}
	}
	require.Equal(t, []Kind{KindMention, KindURLPill}, kinds)
	require.Equal(t, input, Render(tokens))
}

func TestTokenizer_NothingEnabled(t *testing.T) {
	tokens := NewTokenizer(Options{}).Tokenize("#a @[b|1] :c:")
	require.Len(t, tokens, 1)
	require.Equal(t, KindText, tokens[0].Kind())
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "text", KindText.String())
	require.Equal(t, "hashtag", KindHashtag.String())
	require.Equal(t, "mention", KindMention.String())
	require.Equal(t, "url-pill", KindURLPill.String())
	require.Equal(t, "emoji", KindEmoji.String())
	require.Equal(t, "unknown", Kind(42).String())
}
