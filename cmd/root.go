package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/rawfmt/internal/config"
	"github.com/zjrosen/rawfmt/internal/log"
	"github.com/zjrosen/rawfmt/internal/tracing"
)

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool

	// Populated by setup before any command runs.
	settings *viper.Viper
	cfg      config.Config
	cfgPath  string
	tracer   trace.Tracer

	teardown []func()
)

// errMismatch is returned by check when a round trip is not lossless.
var errMismatch = errors.New("round trip is not lossless")

var rootCmd = &cobra.Command{
	Use:   "rawfmt",
	Short: "Tokenize and convert inline-markup raw text",
	Long: `rawfmt converts the raw inline-markup format (hashtags, mentions,
URL pills and emoji embedded in plain text) to tokens, editor state JSON,
HTML and plain text, and checks that conversions are lossless.

Input is read from the named file, or from stdin when the file is "-" or
omitted.`,
	Version:            version,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: shutdown,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .rawfmt/config.yaml or ~/.config/rawfmt/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"enable debug logging (also RAWFMT_DEBUG=1)")
	rootCmd.PersistentFlags().StringP("format", "f", "",
		"output format: text or json (default from config)")
	rootCmd.PersistentFlags().String("color", "",
		"color output: auto, always or never (default from config)")
}

// setup loads configuration and starts logging and tracing.
func setup(cmd *cobra.Command, _ []string) error {
	settings = viper.New()
	_ = settings.BindPFlag("output.format", cmd.Root().PersistentFlags().Lookup("format"))
	_ = settings.BindPFlag("output.color", cmd.Root().PersistentFlags().Lookup("color"))
	if f := cmd.Flags().Lookup("catalog"); f != nil {
		_ = settings.BindPFlag("catalog.path", f)
	}

	var err error
	cfg, cfgPath, err = config.Load(settings, cfgFile, writesDefault(cmd))
	if err != nil {
		return err
	}

	// Logging is enabled via flag, env var or config
	if os.Getenv("RAWFMT_DEBUG") != "" || debugFlag || cfg.Log.Enabled {
		logPath := cfg.Log.Path
		cleanup, err := log.InitWithTeaLog(logPath, "rawfmt")
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		log.SetMinLevel(log.ParseLevel(cfg.Log.Level))
		teardown = append(teardown, cleanup)
		log.Info(log.CatConfig, "rawfmt starting", "command", cmd.Name(), "config", cfgPath, "logPath", logPath)
	}

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("initializing tracing: %w", err)
	}
	tracer = provider.Tracer()
	teardown = append(teardown, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatCLI, "tracing shutdown failed", err)
		}
	})

	applyColor(cfg.Output.Color, cmd.OutOrStdout())
	return nil
}

// shutdown runs teardown in reverse order.
func shutdown(*cobra.Command, []string) error {
	for i := len(teardown) - 1; i >= 0; i-- {
		teardown[i]()
	}
	teardown = nil
	return nil
}

// writesDefault reports whether a missing config file should be created.
// The config commands manage the file themselves.
func writesDefault(cmd *cobra.Command) bool {
	if cfgFile != "" {
		return false
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return false
		}
	}
	return true
}

// traced runs a command inside a span named after it. Failures are logged.
func traced(run func(ctx context.Context, span trace.Span, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := tracing.Run(cmd.Context(), tracer, tracing.SpanPrefixCommand+cmd.Name(),
			func(ctx context.Context, span trace.Span) error {
				return run(ctx, span, cmd, args)
			},
			attribute.String(tracing.AttrCommand, cmd.Name()),
			attribute.String(tracing.AttrOutputFormat, cfg.Output.Format),
		)
		if err != nil && !errors.Is(err, errMismatch) {
			log.ErrorErr(log.CatCLI, "command failed", err, "command", cmd.Name())
		}
		return err
	}
}

// Execute runs the root command. A failed command runs teardown so logs
// and spans are flushed.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_ = shutdown(rootCmd, nil)
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(ver string) {
	version = ver
	rootCmd.Version = ver
}
