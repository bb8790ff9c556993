package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/term"

	"github.com/zjrosen/rawfmt/internal/catalog"
	"github.com/zjrosen/rawfmt/internal/config"
	"github.com/zjrosen/rawfmt/internal/editor"
	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/markup"
	"github.com/zjrosen/rawfmt/internal/presentation"
	"github.com/zjrosen/rawfmt/internal/tracing"
)

const stdinName = "<stdin>"

// readInput reads the file named by args[0], or stdin when it is "-" or
// absent.
func readInput(cmd *cobra.Command, span trace.Span, args []string) (string, string, error) {
	var (
		data []byte
		name string
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		name = stdinName
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		name = args[0]
		data, err = os.ReadFile(name) //nolint:gosec // G304: path is a command argument
	}
	if err != nil {
		return "", name, fmt.Errorf("reading %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.String(tracing.AttrInputPath, name),
		attribute.Int(tracing.AttrInputBytes, len(data)),
	)
	span.AddEvent(tracing.EventInputRead)
	log.Debug(log.CatCLI, "read input", "name", name, "bytes", len(data))
	return string(data), name, nil
}

// writeText prints s followed by a single newline.
func writeText(cmd *cobra.Command, s string) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(s, "\n"))
	return err
}

func newFormatter(cmd *cobra.Command) *presentation.Formatter {
	return presentation.NewFormatter(cmd.OutOrStdout(), cfg.Output.Format)
}

// applyColor selects the lipgloss color profile for mode. Auto keeps
// colors only when out is a terminal.
func applyColor(mode string, out io.Writer) {
	switch mode {
	case config.ColorNever:
		lipgloss.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		lipgloss.SetColorProfile(termenv.ANSI256)
	default:
		if isTerminal(out) {
			lipgloss.SetColorProfile(termenv.EnvColorProfile())
		} else {
			lipgloss.SetColorProfile(termenv.Ascii)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}

// tokenize runs the configured tokenizer inside a span.
func tokenize(ctx context.Context, text string) []markup.Token {
	_, span := tracer.Start(ctx, tracing.SpanTokenize)
	defer span.End()

	tokens := markup.NewTokenizer(cfg.Markup).Tokenize(text)
	span.SetAttributes(
		attribute.Int(tracing.AttrInputBytes, len(text)),
		attribute.Int(tracing.AttrTokenCount, len(tokens)),
	)
	log.Debug(log.CatMarkup, "tokenized", "bytes", len(text), "tokens", len(tokens))
	return tokens
}

// loadCatalog loads the configured emoji catalog. It returns nil when no
// catalog is configured.
func loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return nil, nil
	}

	var cat *catalog.Catalog
	err := tracing.Run(ctx, tracer, tracing.SpanCatalogLoad, func(_ context.Context, span trace.Span) error {
		var err error
		cat, err = catalog.Load(cfg.Catalog.Path, cfg.Catalog.TTL)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.Int("catalog.entries", cat.Len()))
		return nil
	}, attribute.String(tracing.AttrInputPath, cfg.Catalog.Path))
	if err != nil {
		return nil, err
	}
	log.Info(log.CatCatalog, "loaded emoji catalog", "path", cfg.Catalog.Path, "entries", cat.Len())
	return cat, nil
}

// reparseOptions returns the tokenizer and resolver settings for building
// trees. cat may be nil.
func reparseOptions(cat *catalog.Catalog) []editor.ReparseOption {
	opts := []editor.ReparseOption{editor.WithTokenizer(markup.NewTokenizer(cfg.Markup))}
	if cat != nil {
		opts = append(opts, editor.WithEmojiResolver(cat))
	}
	return opts
}

// parse builds a document tree from raw text inside a span.
func parse(ctx context.Context, raw string, opts ...editor.ReparseOption) editor.Root {
	_, span := tracer.Start(ctx, tracing.SpanReparse)
	defer span.End()

	root := editor.ParseRaw(raw, opts...)
	span.SetAttributes(attribute.Int(tracing.AttrNodeCount, editor.Count(root)))
	return root
}
