package cmd

import (
	"context"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/markup"
)

var highlightWrap int

var highlightCmd = &cobra.Command{
	Use:   "highlight [file|-]",
	Short: "Print raw text with entities colorized",
	Long: `Print raw text with hashtags, mentions, URL pills and emoji colorized.
Color follows --color; with color disabled the input is printed unchanged.`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		out := markup.HighlightTokens(text, tokenize(ctx, text))
		if highlightWrap > 0 {
			out = wordwrap.String(out, highlightWrap)
		}
		return writeText(cmd, out)
	}),
}

func init() {
	highlightCmd.Flags().IntVarP(&highlightWrap, "wrap", "w", 0, "wrap lines at this width (0 disables)")
	rootCmd.AddCommand(highlightCmd)
}
