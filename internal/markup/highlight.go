package markup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Highlight applies syntax highlighting to raw text.
// Returns the text with ANSI color codes around each recognized entity.
// Plain text is written unchanged, so stripping the escape codes yields
// the input.
func Highlight(text string) string {
	return HighlightTokens(text, Tokenize(text))
}

// HighlightTokens highlights text using an existing token sequence, e.g.
// one produced by a Tokenizer with some kinds disabled.
func HighlightTokens(text string, tokens []Token) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	lastPos := 0
	for _, tok := range tokens {
		if tok.Start < lastPos || tok.End > len(text) {
			continue
		}
		// Preserve anything the tokens do not cover
		if tok.Start > lastPos {
			result.WriteString(text[lastPos:tok.Start])
		}
		literal := text[tok.Start:tok.End]
		if tok.Kind() == KindText {
			result.WriteString(literal)
		} else {
			result.WriteString(renderLines(tokenStyle(tok.Kind()), literal))
		}
		lastPos = tok.End
	}

	// Append any trailing content
	if lastPos < len(text) {
		result.WriteString(text[lastPos:])
	}

	return result.String()
}

// renderLines styles each line separately; lipgloss pads multi-line blocks
// to a common width.
func renderLines(style lipgloss.Style, s string) string {
	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// tokenStyle returns the appropriate style for a token kind.
func tokenStyle(k Kind) lipgloss.Style {
	switch k {
	case KindHashtag:
		return HashtagStyle
	case KindMention:
		return MentionStyle
	case KindURLPill:
		return URLPillStyle
	case KindEmoji:
		return EmojiStyle
	default:
		return DefaultStyle
	}
}
