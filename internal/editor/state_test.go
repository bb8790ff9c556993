package editor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/rawfmt/internal/markup"
)

const sampleState = `{
  "root": {
    "type": "root",
    "direction": "ltr",
    "format": "",
    "indent": 0,
    "version": 1,
    "children": [
      {"type":"heading","tag":"h1","version":1,"children":[
        {"type":"text","text":"Title","detail":0,"format":0,"mode":"normal","style":"","version":1}
      ]},
      {"type":"paragraph","direction":"ltr","format":"","indent":0,"version":1,"children":[
        {"type":"text","text":"hi ","detail":0,"format":0,"mode":"normal","style":"","version":1},
        {"type":"hashtag","tag":"go","version":1},
        {"type":"linebreak","version":1},
        {"type":"mention","displayName":"Bob","userId":"7","filterType":"mentions","version":1},
        {"type":"url-pill","url":"https://x.io","behavior":"embed","width":"full","version":1},
        {"type":"emoji","emojiId":"smile","name":"smile","unicode":"😄","version":1}
      ]}
    ]
  }
}`

func TestDecodeState(t *testing.T) {
	root, err := DecodeState([]byte(sampleState))
	require.NoError(t, err)
	require.Len(t, root.Children, 2)

	heading, ok := root.Children[0].(Unknown)
	require.True(t, ok)
	require.Equal(t, "heading", heading.Type())
	require.Equal(t, []Node{TextNode{Text: "Title"}}, heading.Children)
	require.JSONEq(t, `"h1"`, string(heading.Fields["tag"]))
	require.NotContains(t, heading.Fields, "type")
	require.NotContains(t, heading.Fields, "children")

	require.Equal(t, Paragraph{Children: []Node{
		TextNode{Text: "hi "},
		HashtagNode{markup.Hashtag{Tag: "go"}},
		LineBreak{},
		MentionNode{markup.Mention{DisplayName: "Bob", UserID: "7", FilterType: markup.FilterMentions}},
		URLPillNode{markup.URLPill{URL: "https://x.io", Behavior: markup.BehaviorEmbed, Width: markup.WidthFull}},
		EmojiNode{markup.Emoji{EmojiID: "smile", Name: "smile", Unicode: "😄"}},
	}}, root.Children[1])

	require.Equal(t, "Titlehi #go\n@[Bob|7|mentions]![embed|full](https://x.io):smile:", TreeToRaw(root))
}

func TestDecodeState_BareRoot(t *testing.T) {
	root, err := DecodeState([]byte(`{"type":"root","children":[{"type":"paragraph","children":[{"type":"text","text":"x"}]}]}`))
	require.NoError(t, err)
	require.Equal(t, "x", TreeToRaw(root))
}

func TestDecodeState_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"corrupt", `{"root":`, nil},
		{"null", `null`, ErrInvalidNode},
		{"top-level paragraph", `{"root":{"type":"paragraph","children":[]}}`, ErrInvalidNode},
		{"node missing type", `{"root":{"type":"root","children":[{"children":[]}]}}`, ErrInvalidNode},
		{"invalid inline node", `{"root":{"type":"root","children":[{"type":"paragraph","children":[{"type":"mention","displayName":"Bob"}]}]}}`, ErrInvalidNode},
		{"children not a list", `{"root":{"type":"root","children":{}}}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeState([]byte(tt.data))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestEncodeState_RoundTrip(t *testing.T) {
	root, err := DecodeState([]byte(sampleState))
	require.NoError(t, err)

	first, err := EncodeState(root)
	require.NoError(t, err)

	again, err := DecodeState(first)
	require.NoError(t, err)

	second, err := EncodeState(again)
	require.NoError(t, err)

	require.JSONEq(t, string(first), string(second))
	require.Equal(t, TreeToRaw(root), TreeToRaw(again))
	require.JSONEq(t, sampleState, string(first))
}

func TestEncodeState_Shape(t *testing.T) {
	data, err := EncodeState(Root{Children: []Node{NewParagraph(TextNode{Text: "x"})}})
	require.NoError(t, err)
	require.JSONEq(t, `{"root":{
		"type":"root","direction":"ltr","format":"","indent":0,"version":1,
		"children":[{"type":"paragraph","direction":"ltr","format":"","indent":0,"version":1,
			"children":[{"type":"text","text":"x","detail":0,"format":0,"mode":"normal","style":"","version":1}]}]
	}}`, string(data))
}
