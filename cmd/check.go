package cmd

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/editor"
	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/presentation"
	"github.com/zjrosen/rawfmt/internal/tracing"
)

var (
	diffDeleteStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D20F39", Dark: "#F38BA8"}).Strikethrough(true).TabWidth(lipgloss.NoTabConversion)
	diffInsertStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#40A02B", Dark: "#A6E3A1"}).TabWidth(lipgloss.NoTabConversion)
)

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Check that raw text survives conversion unchanged",
	Long: `Round-trip raw text through the document tree, editor state JSON and
HTML, and compare each result with the input. Trailing newlines are
ignored. Non-canonical input (a legacy mention without a filter type, an
explicit medium width) is reported as a mismatch because it is rewritten
in canonical form.

Exits with status 1 when any round trip differs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		raw, name, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}

		result, err := checkRaw(ctx, name, raw)
		if err != nil {
			return err
		}
		span.SetAttributes(
			attribute.Bool(tracing.AttrLossless, result.Lossless),
			attribute.Int(tracing.AttrTokenCount, result.Tokens),
			attribute.Int(tracing.AttrNodeCount, result.Nodes),
		)
		if err := newFormatter(cmd).FormatCheck(result); err != nil {
			return err
		}
		if !result.Lossless {
			log.Warn(log.CatCLI, "round trip mismatch", "input", name)
			return errMismatch
		}
		return nil
	}),
}

// checkRaw round-trips raw through each conversion and diffs the results
// against the input.
func checkRaw(ctx context.Context, name, raw string) (presentation.CheckDTO, error) {
	want := strings.TrimRight(raw, "\n")
	root := parse(ctx, raw, reparseOptions(nil)...)

	viaState, err := stateRoundTrip(root)
	if err != nil {
		return presentation.CheckDTO{}, err
	}
	viaHTML, err := htmlRoundTrip(root)
	if err != nil {
		return presentation.CheckDTO{}, err
	}

	result := presentation.CheckDTO{
		Input:    name,
		Tokens:   len(tokenize(ctx, raw)),
		Nodes:    editor.Count(root),
		Lossless: true,
	}
	for _, stage := range []struct {
		name string
		got  string
	}{
		{"tree", editor.TreeToRaw(root)},
		{"state", viaState},
		{"html", viaHTML},
	} {
		s := presentation.StageDTO{Name: stage.name, Lossless: stage.got == want}
		if !s.Lossless {
			s.Output = stage.got
			s.Diff = renderDiff(want, stage.got)
			result.Lossless = false
		}
		result.Stages = append(result.Stages, s)
	}
	return result, nil
}

func stateRoundTrip(root editor.Root) (string, error) {
	data, err := editor.EncodeState(root)
	if err != nil {
		return "", err
	}
	back, err := editor.DecodeState(data)
	if err != nil {
		return "", err
	}
	return editor.TreeToRaw(back), nil
}

func htmlRoundTrip(root editor.Root) (string, error) {
	out, err := editor.ExportHTML(root)
	if err != nil {
		return "", err
	}
	back, err := editor.ImportHTML(strings.NewReader(out))
	if err != nil {
		return "", err
	}
	return editor.TreeToRaw(back), nil
}

// renderDiff marks deletions as [-text-] and insertions as {+text+},
// colored when the color profile allows.
func renderDiff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(want, got, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString(styleLines(diffDeleteStyle, "[-"+d.Text+"-]"))
		case diffmatchpatch.DiffInsert:
			b.WriteString(styleLines(diffInsertStyle, "{+"+d.Text+"+}"))
		}
	}
	return b.String()
}

// styleLines renders each line on its own so lipgloss does not pad them
// to a common width.
func styleLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
