package cmd

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/editor"
	"github.com/zjrosen/rawfmt/internal/tracing"
)

var (
	deserializeReparse bool
	exportFromState    bool
	importToState      bool
)

var deserializeCmd = &cobra.Command{
	Use:   "deserialize [file|-]",
	Short: "Convert raw text to editor state JSON",
	Long: `Convert raw text to editor state JSON with one paragraph per line.

Without --reparse each paragraph holds the line as a single text node, the
way an editor first loads a document. With --reparse entities become typed
nodes, and emoji are resolved against the catalog when one is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		raw, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}

		root := editor.RawToTree(raw)
		if deserializeReparse {
			cat, err := loadCatalog(ctx)
			if err != nil {
				return err
			}
			root = parse(ctx, raw, reparseOptions(cat)...)
		}
		span.SetAttributes(attribute.Int(tracing.AttrNodeCount, editor.Count(root)))

		data, err := editor.EncodeState(root)
		if err != nil {
			return err
		}
		return newFormatter(cmd).FormatJSON(json.RawMessage(data))
	}),
}

var serializeCmd = &cobra.Command{
	Use:   "serialize [file|-]",
	Short: "Convert editor state JSON to raw text",
	Args:  cobra.MaximumNArgs(1),
	RunE: traced(func(_ context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		in, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		root, err := editor.DecodeState([]byte(in))
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrNodeCount, editor.Count(root)))
		return writeText(cmd, editor.TreeToRaw(root))
	}),
}

var plainCmd = &cobra.Command{
	Use:   "plain [file|-]",
	Short: "Print raw text as people read it",
	Long: `Print raw text with mentions as @name, URL pills as their URL and
resolved emoji as their unicode character.`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		raw, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		cat, err := loadCatalog(ctx)
		if err != nil {
			return err
		}
		return writeText(cmd, editor.TreeToPlain(parse(ctx, raw, reparseOptions(cat)...)))
	}),
}

var exportHTMLCmd = &cobra.Command{
	Use:   "export-html [file|-]",
	Short: "Convert raw text to an HTML fragment",
	Args:  cobra.MaximumNArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		in, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}

		var root editor.Root
		if exportFromState {
			if root, err = editor.DecodeState([]byte(in)); err != nil {
				return err
			}
		} else {
			cat, err := loadCatalog(ctx)
			if err != nil {
				return err
			}
			root = parse(ctx, in, reparseOptions(cat)...)
		}

		out, err := editor.ExportHTML(root)
		if err != nil {
			return err
		}
		return writeText(cmd, out)
	}),
}

var importHTMLCmd = &cobra.Command{
	Use:   "import-html [file|-]",
	Short: "Convert an HTML fragment to raw text",
	Long: `Convert an HTML fragment to raw text. Pills exported by export-html
become entities again; other elements contribute their text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: traced(func(_ context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		in, _, err := readInput(cmd, span, args)
		if err != nil {
			return err
		}
		root, err := editor.ImportHTML(strings.NewReader(in))
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int(tracing.AttrNodeCount, editor.Count(root)))

		if importToState {
			data, err := editor.EncodeState(root)
			if err != nil {
				return err
			}
			return newFormatter(cmd).FormatJSON(json.RawMessage(data))
		}
		return writeText(cmd, editor.TreeToRaw(root))
	}),
}

func init() {
	deserializeCmd.Flags().BoolVarP(&deserializeReparse, "reparse", "r", false, "build entity nodes instead of plain text lines")
	for _, c := range []*cobra.Command{deserializeCmd, plainCmd, exportHTMLCmd} {
		c.Flags().String("catalog", "", "emoji catalog file used to resolve shortcodes (default from config)")
	}
	exportHTMLCmd.Flags().BoolVar(&exportFromState, "state", false, "read editor state JSON instead of raw text")
	importHTMLCmd.Flags().BoolVar(&importToState, "state", false, "print editor state JSON instead of raw text")

	rootCmd.AddCommand(deserializeCmd, serializeCmd, plainCmd, exportHTMLCmd, importHTMLCmd)
}
