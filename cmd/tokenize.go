package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/markup"
	"github.com/zjrosen/rawfmt/internal/presentation"
)

var tokenizePositions bool

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file|-]",
	Short: "Print the tokens of raw text",
	Long: `Split raw text into tokens and print one token per line with its byte
range, kind and literal text.

Examples:
  rawfmt tokenize note.txt
  echo 'hi #go' | rawfmt tokenize --positions
  rawfmt tokenize -f json note.txt | jq '.[] | select(.kind == "mention")'`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		tokens := tokenize(ctx, text)
		return newFormatter(cmd).FormatTokens(presentation.FromTokens(text, tokens, tokenizePositions))
	}),
}

var entitiesCmd = &cobra.Command{
	Use:   "entities [file|-]",
	Short: "List the hashtags, mentions, URLs and emoji referenced by raw text",
	Args:  cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		return newFormatter(cmd).FormatEntities(markup.Extract(tokenize(ctx, text)))
	}),
}

func init() {
	tokenizeCmd.Flags().BoolVarP(&tokenizePositions, "positions", "p", false, "include line:column positions")
	rootCmd.AddCommand(tokenizeCmd, entitiesCmd)
}
