package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/catalog"
	"github.com/zjrosen/rawfmt/internal/editor"
	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/markup"
	"github.com/zjrosen/rawfmt/internal/presentation"
	"github.com/zjrosen/rawfmt/internal/tracing"
	"github.com/zjrosen/rawfmt/internal/watcher"
)

// Watch output modes.
const (
	watchTokens    = "tokens"
	watchHighlight = "highlight"
	watchPlain     = "plain"
	watchCheck     = "check"
)

var watchMode string

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a file every time it changes",
	Long: `Watch a raw text file and print it again after every change settles.
When an emoji catalog is configured it is watched too and reloaded when
edited.

Modes:
  tokens     token list, as printed by tokenize (default)
  highlight  colorized text, as printed by highlight
  plain      display text, as printed by plain
  check      round trip report, as printed by check

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: traced(func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error {
		switch watchMode {
		case watchTokens, watchHighlight, watchPlain, watchCheck:
		default:
			return fmt.Errorf("unknown watch mode %q", watchMode)
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		target, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		cat, err := loadCatalog(ctx)
		if err != nil {
			return err
		}

		paths := []string{target}
		var catalogPath string
		if cat != nil {
			if catalogPath, err = filepath.Abs(cat.Path()); err != nil {
				return fmt.Errorf("resolving %s: %w", cat.Path(), err)
			}
			paths = append(paths, catalogPath)
		}

		w, err := watcher.New(watcher.Config{Paths: paths, Debounce: cfg.Watch.Debounce})
		if err != nil {
			return err
		}
		changes := w.Subscribe(ctx)
		if err := w.Start(); err != nil {
			_ = w.Stop()
			return err
		}
		defer func() { _ = w.Stop() }()

		if err := renderWatched(ctx, cmd, target, cat); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				log.Debug(log.CatWatcher, "watch stopped", "file", target)
				return nil
			case ev, ok := <-changes:
				if !ok {
					return nil
				}
				for _, p := range ev.Payload.Paths {
					span.AddEvent(tracing.EventFileChanged, trace.WithAttributes(attribute.String(tracing.AttrInputPath, p)))
					if p == catalogPath {
						span.AddEvent(tracing.EventCatalogReload)
						if err := cat.Reload(ctx); err != nil {
							log.ErrorErr(log.CatCatalog, "catalog reload failed", err, "path", p)
							fmt.Fprintf(cmd.ErrOrStderr(), "catalog reload failed: %v\n", err)
						}
					}
				}
				if err := renderWatched(ctx, cmd, target, cat); err != nil {
					// The file may be mid-save; keep watching.
					log.ErrorErr(log.CatWatcher, "render failed", err, "file", target)
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				}
			}
		}
	}),
}

// renderWatched prints path in the selected watch mode.
func renderWatched(ctx context.Context, cmd *cobra.Command, path string, cat *catalog.Catalog) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is a command argument
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(data)
	f := newFormatter(cmd)

	if !f.JSON() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", filepath.Base(path)); err != nil {
			return err
		}
	}

	switch watchMode {
	case watchHighlight:
		return writeText(cmd, markup.HighlightTokens(text, tokenize(ctx, text)))
	case watchPlain:
		return writeText(cmd, editor.TreeToPlain(parse(ctx, text, reparseOptions(cat)...)))
	case watchCheck:
		result, err := checkRaw(ctx, filepath.Base(path), text)
		if err != nil {
			return err
		}
		return f.FormatCheck(result)
	default:
		return f.FormatTokens(presentation.FromTokens(text, tokenize(ctx, text), false))
	}
}

func init() {
	watchCmd.Flags().StringVarP(&watchMode, "mode", "m", watchTokens, "output mode: tokens, highlight, plain or check")
	watchCmd.Flags().String("catalog", "", "emoji catalog file to resolve and watch (default from config)")
	rootCmd.AddCommand(watchCmd)
}
