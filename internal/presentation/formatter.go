package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zjrosen/rawfmt/internal/markup"
)

// Output formats understood by the formatter.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
	format string
}

// NewFormatter creates a new formatter. Any format other than json is
// treated as text.
func NewFormatter(writer io.Writer, format string) *Formatter {
	return &Formatter{
		writer: writer,
		format: format,
	}
}

// JSON reports whether the formatter writes JSON.
func (f *Formatter) JSON() bool {
	return f.format == FormatJSON
}

// FormatJSON writes v as indented JSON regardless of the configured format.
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(v)
}

// FormatTokens writes tokens as JSON or one line per token:
//
//	0-3     hashtag   "#go"  1:1-1:4
func (f *Formatter) FormatTokens(tokens []TokenDTO) error {
	if f.JSON() {
		return f.FormatJSON(tokens)
	}
	for _, t := range tokens {
		line := fmt.Sprintf("%d-%d\t%-8s\t%q", t.Start, t.End, t.Kind, t.Text)
		if t.From != nil && t.To != nil {
			line += fmt.Sprintf("\t%d:%d-%d:%d", t.From.Line, t.From.Column, t.To.Line, t.To.Column)
		}
		if _, err := fmt.Fprintln(f.writer, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatEntities writes the entities referenced by a document.
func (f *Formatter) FormatEntities(e markup.Entities) error {
	if f.JSON() {
		return f.FormatJSON(e)
	}
	var b strings.Builder
	section := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", name)
		for _, item := range items {
			fmt.Fprintf(&b, "  %s\n", item)
		}
	}
	mentions := make([]string, len(e.Mentions))
	for i, m := range e.Mentions {
		mentions[i] = fmt.Sprintf("%s (%s, %s)", m.DisplayName, m.UserID, m.FilterType)
	}
	section("hashtags", e.Hashtags)
	section("mentions", mentions)
	section("urls", e.URLs)
	section("emoji", e.Emoji)
	_, err := io.WriteString(f.writer, b.String())
	return err
}

// FormatCheck writes the result of a lossless check.
func (f *Formatter) FormatCheck(c CheckDTO) error {
	if f.JSON() {
		return f.FormatJSON(c)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d tokens, %d nodes\n", c.Input, c.Tokens, c.Nodes)
	for _, s := range c.Stages {
		status := "ok"
		if !s.Lossless {
			status = "MISMATCH"
		}
		fmt.Fprintf(&b, "  %-6s %s\n", s.Name, status)
		if s.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(s.Diff, "\n"), "\n") {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}
	_, err := io.WriteString(f.writer, b.String())
	return err
}
