package markup

import "github.com/charmbracelet/lipgloss"

// Entity colors, catppuccin latte/mocha.
var (
	HashtagColor = lipgloss.AdaptiveColor{Light: "#179299", Dark: "#94E2D5"} // teal
	MentionColor = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // mauve
	URLPillColor = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // blue
	EmojiColor   = lipgloss.AdaptiveColor{Light: "#DF8E1D", Dark: "#F9E2AF"} // yellow
)

// Entity highlight styles. Tab conversion is disabled so highlighted output
// keeps every byte of the input.
var (
	// HashtagStyle for #tag
	HashtagStyle = lipgloss.NewStyle().
			Foreground(HashtagColor).
			TabWidth(lipgloss.NoTabConversion)

	// MentionStyle for @[name|id|filter]
	MentionStyle = lipgloss.NewStyle().
			Foreground(MentionColor).
			Bold(true).
			TabWidth(lipgloss.NoTabConversion)

	// URLPillStyle for ![behavior](url)
	URLPillStyle = lipgloss.NewStyle().
			Foreground(URLPillColor).
			Underline(true).
			TabWidth(lipgloss.NoTabConversion)

	// EmojiStyle for :name:
	EmojiStyle = lipgloss.NewStyle().
			Foreground(EmojiColor).
			TabWidth(lipgloss.NoTabConversion)

	// DefaultStyle for plain text
	DefaultStyle = lipgloss.NewStyle()
)
