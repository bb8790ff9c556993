package editor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawfmt/internal/markup"
)

func sampleNodes() []InlineNode {
	return []InlineNode{
		TextNode{Text: "hello "},
		HashtagNode{markup.Hashtag{Tag: "golang"}},
		MentionNode{markup.Mention{DisplayName: "Alice Smith", UserID: "u-42", FilterType: markup.FilterMentions}},
		URLPillNode{markup.URLPill{URL: "https://example.com/a", Behavior: markup.BehaviorEmbed, Width: markup.WidthLarge}},
		URLPillNode{markup.URLPill{URL: "https://example.com/b", Behavior: markup.BehaviorLink, Width: markup.WidthMedium}},
		EmojiNode{markup.Emoji{EmojiID: "smile", Name: "smile", Unicode: "😄"}},
		EmojiNode{markup.Emoji{EmojiID: "e-7", Name: "partyparrot", ImageURL: "https://cdn.example.com/pp.gif"}},
		EmojiNode{markup.Emoji{EmojiID: "wave", Name: "wave"}},
	}
}

func TestInlineNode_Capabilities(t *testing.T) {
	for _, n := range sampleNodes() {
		t.Run(n.Type(), func(t *testing.T) {
			require.True(t, n.IsInline())
			require.Equal(t, n.Type() != TypeText, n.IsAtomic())
			require.Equal(t, n, n.Clone())
			require.Equal(t, markup.Serialize(n.Entity()), n.CanonicalText())
			require.Equal(t, markup.DisplayText(n.Entity()), n.DisplayText())
		})
	}
}

func TestInlineNode_CanonicalText(t *testing.T) {
	tests := []struct {
		name string
		node InlineNode
		want string
	}{
		{"text", TextNode{Text: "plain"}, "plain"},
		{"hashtag", HashtagNode{markup.Hashtag{Tag: "go"}}, "#go"},
		{"mention", MentionNode{markup.Mention{DisplayName: "Bob", UserID: "7", FilterType: markup.FilterAuthor}}, "@[Bob|7|author]"},
		{"embed large", URLPillNode{markup.URLPill{URL: "https://x.io", Behavior: markup.BehaviorEmbed, Width: markup.WidthLarge}}, "![embed|large](https://x.io)"},
		{"embed medium", URLPillNode{markup.URLPill{URL: "https://x.io", Behavior: markup.BehaviorEmbed, Width: markup.WidthMedium}}, "![embed](https://x.io)"},
		{"modal ignores width", URLPillNode{markup.URLPill{URL: "https://x.io", Behavior: markup.BehaviorModal, Width: markup.WidthFull}}, "![modal](https://x.io)"},
		{"emoji", EmojiNode{markup.Emoji{EmojiID: "smile", Name: "smile", Unicode: "😄"}}, ":smile:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.node.CanonicalText())
		})
	}
}

func TestInlineNode_JSONRoundTrip(t *testing.T) {
	for _, n := range sampleNodes() {
		t.Run(n.Type(), func(t *testing.T) {
			data, err := json.Marshal(n)
			require.NoError(t, err)

			got, err := ImportJSON(data)
			require.NoError(t, err)
			require.Equal(t, n, got)
		})
	}
}

func TestInlineNode_JSONShape(t *testing.T) {
	tests := []struct {
		name string
		node InlineNode
		want string
	}{
		{
			name: "text",
			node: TextNode{Text: "hi"},
			want: `{"type":"text","text":"hi","detail":0,"format":0,"mode":"normal","style":"","version":1}`,
		},
		{
			name: "hashtag",
			node: HashtagNode{markup.Hashtag{Tag: "go"}},
			want: `{"type":"hashtag","tag":"go","version":1}`,
		},
		{
			name: "mention",
			node: MentionNode{markup.Mention{DisplayName: "Bob", UserID: "7", FilterType: markup.FilterAuthor}},
			want: `{"type":"mention","displayName":"Bob","userId":"7","filterType":"author","version":1}`,
		},
		{
			name: "url-pill",
			node: URLPillNode{markup.URLPill{URL: "https://x.io", Behavior: markup.BehaviorLink, Width: markup.WidthMedium}},
			want: `{"type":"url-pill","url":"https://x.io","behavior":"link","width":"medium","version":1}`,
		},
		{
			name: "unresolved emoji",
			node: EmojiNode{markup.Emoji{EmojiID: "wave", Name: "wave"}},
			want: `{"type":"emoji","emojiId":"wave","name":"wave","version":1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.node)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestImportJSON_Defaults(t *testing.T) {
	n, err := ImportJSON([]byte(`{"type":"mention","displayName":"Bob","userId":"7"}`))
	require.NoError(t, err)
	require.Equal(t, markup.FilterAuthor, n.(MentionNode).FilterType)

	n, err = ImportJSON([]byte(`{"type":"url-pill","url":"https://x.io"}`))
	require.NoError(t, err)
	pill := n.(URLPillNode)
	require.Equal(t, markup.BehaviorLink, pill.Behavior)
	require.Equal(t, markup.WidthMedium, pill.Width)

	n, err = ImportJSON([]byte(`{"type":"emoji","name":"wave"}`))
	require.NoError(t, err)
	require.Equal(t, "wave", n.(EmojiNode).EmojiID)
}

func TestImportJSON_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"corrupt", `{"type":`, nil},
		{"not an object", `[1,2]`, nil},
		{"unknown type", `{"type":"paragraph"}`, ErrUnknownNodeType},
		{"missing type", `{"tag":"go"}`, ErrUnknownNodeType},
		{"hashtag empty", `{"type":"hashtag","tag":""}`, ErrInvalidNode},
		{"hashtag bad chars", `{"type":"hashtag","tag":"a b"}`, ErrInvalidNode},
		{"mention no user", `{"type":"mention","displayName":"Bob"}`, ErrInvalidNode},
		{"mention no name", `{"type":"mention","userId":"7"}`, ErrInvalidNode},
		{"mention bad filter", `{"type":"mention","displayName":"Bob","userId":"7","filterType":"everyone"}`, ErrInvalidNode},
		{"pill no url", `{"type":"url-pill","behavior":"link"}`, ErrInvalidNode},
		{"pill bad behavior", `{"type":"url-pill","url":"https://x.io","behavior":"popup"}`, ErrInvalidNode},
		{"pill bad width", `{"type":"url-pill","url":"https://x.io","width":"huge"}`, ErrInvalidNode},
		{"emoji bad name", `{"type":"emoji","name":"1abc"}`, ErrInvalidNode},
		{"wrong field type", `{"type":"hashtag","tag":42}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ImportJSON([]byte(tt.data))
			require.Error(t, err)
			require.Nil(t, n)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewInlineNode(t *testing.T) {
	require.Equal(t, TextNode{Text: "x"}, NewInlineNode(markup.PlainText{Text: "x"}))
	require.Equal(t, HashtagNode{markup.Hashtag{Tag: "go"}}, NewInlineNode(markup.Hashtag{Tag: "go"}))
	require.Equal(t, TextNode{}, NewInlineNode(nil))
}
