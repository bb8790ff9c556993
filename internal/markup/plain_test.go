package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisplayText(t *testing.T) {
	require.Equal(t, "#news", DisplayText(Hashtag{Tag: "news"}))
	require.Equal(t, "@Bob", DisplayText(Mention{DisplayName: "Bob", UserID: "7"}))
	require.Equal(t, "https://ex.com", DisplayText(URLPill{URL: "https://ex.com", Behavior: BehaviorEmbed}))
	require.Equal(t, "👋", DisplayText(Emoji{Name: "wave", Unicode: "👋"}))
	require.Equal(t, ":party:", DisplayText(Emoji{Name: "party", ImageURL: "https://cdn/p.png"}))
	require.Equal(t, ":wave:", DisplayText(Emoji{Name: "wave"}))
	require.Equal(t, "", DisplayText(nil))
}

func TestRenderPlain(t *testing.T) {
	tokens := Tokenize("Check #news from @[Bob|7|mentions] :wave: here ![link](https://ex.com)")
	require.Equal(t, "Check #news from @Bob :wave: here https://ex.com", RenderPlain(tokens))
}

func TestExtract(t *testing.T) {
	tokens := Tokenize("#Go @[a|1|author] #go :x: @[A|1|mentions] ![link](u) ![embed](u) :x: @[b|2] #rust")

	got := Extract(tokens)

	require.Equal(t, []string{"Go", "rust"}, got.Hashtags)
	require.Equal(t, []Mention{
		{DisplayName: "a", UserID: "1", FilterType: FilterAuthor},
		{DisplayName: "b", UserID: "2", FilterType: FilterAuthor},
	}, got.Mentions)
	require.Equal(t, []string{"u"}, got.URLs)
	require.Equal(t, []string{"x"}, got.Emoji)
}

func TestExtract_Empty(t *testing.T) {
	got := Extract(nil)
	require.Empty(t, got.Hashtags)
	require.Empty(t, got.Mentions)
	require.Empty(t, got.URLs)
	require.Empty(t, got.Emoji)
}
