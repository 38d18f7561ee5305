// cw-tail - Tail an AWS CloudWatch log group with a colored, simplified
// layout: per-stream colors, token highlighting, aligned columns.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/infinityplusone/cw-tail/internal/config"
	"github.com/infinityplusone/cw-tail/internal/cw"
	"github.com/infinityplusone/cw-tail/internal/format"
	"github.com/infinityplusone/cw-tail/internal/render"
	"github.com/infinityplusone/cw-tail/internal/tail"
)

var (
	version = "0.2.0"
	commit  = "dev"
)

// CLI flags
var (
	profileFlag        string
	logGroupFlag       string
	regionFlag         string
	endpointFlag       string
	filterTokensFlag   string
	highlightFlag      string
	excludeTokensFlag  string
	excludeStreamsFlag string
	sinceFlag          string
	colorizeFlag       bool
	formatterFlag      string
	formatOptionsFlag  string
	verbose            bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cw-tail",
	Short: "Tail AWS CloudWatch logs with a colored, simplified layout",
	Long: `cw-tail continuously polls a CloudWatch log group and renders new events
to the terminal with per-stream colors, token highlighting, and an aligned
two-column layout.

Examples:
  cw-tail --config prod                      # Use the prod profile
  cw-tail --config dev --since 30m           # Use dev profile, override lookback
  cw-tail --log-group my-logs --colorize     # Default profile with explicit group`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTail,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&profileFlag, "config", "", "Profile name from ~/.config/cw-tail/config.yml")
	flags.StringVar(&logGroupFlag, "log-group", "", "Name of the CloudWatch log group to tail")
	flags.StringVar(&regionFlag, "region", "", "AWS region (default: us-east-1)")
	flags.StringVar(&endpointFlag, "endpoint", "", "CloudWatch Logs endpoint override (for LocalStack etc.)")
	flags.StringVar(&filterTokensFlag, "filter-tokens", "", "Comma-separated tokens to filter on server-side (AWS filter pattern syntax)")
	flags.StringVar(&highlightFlag, "highlight-tokens", "", "Comma-separated tokens to highlight; accepts regexes")
	flags.StringVar(&excludeTokensFlag, "exclude-tokens", "", "Comma-separated tokens; matching events are dropped")
	flags.StringVar(&excludeStreamsFlag, "exclude-streams", "", "Comma-separated substrings; matching stream names are dropped")
	flags.StringVar(&sinceFlag, "since", "", "How far back to start (e.g. 10s, 15m, 2h; default 1h)")
	flags.BoolVar(&colorizeFlag, "colorize", false, "Enable colored output")
	flags.StringVar(&formatterFlag, "formatter", "", "Message formatter to apply before rendering")
	flags.StringVar(&formatOptionsFlag, "format-options", "", "Formatter options as key=value pairs joined by '&'")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug diagnostics on stderr")
}

func runTail(cmd *cobra.Command, args []string) error {
	logger := newLogger(verbose)

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.LogGroup == "" {
		return fmt.Errorf("log-group is required; provide via --log-group or a config profile")
	}

	// Unknown formatter names fail here, before the loop starts.
	formatter, err := format.Lookup(cfg.Formatter)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cw.NewClient(ctx, cw.Config{
		Region:   cfg.Region,
		Endpoint: cfg.Endpoint,
	})
	if err != nil {
		return err
	}

	window := tail.NewWindow(time.Now(), cfg.Since)
	renderCtx := render.NewContext(cfg.Colorize)
	pipeline := tail.NewPipeline(cfg, formatter, renderCtx, window, os.Stdout)
	registry := tail.NewStreamRegistry(client, cfg.LogGroup, cfg.ExcludeStreams, logger)
	loop := tail.NewLoop(cfg, client, registry, pipeline, window, os.Stdout, logger)

	return loop.Run(ctx)
}

// resolveConfig merges the profile file with CLI overrides. Only flags the
// user actually set override the profile.
func resolveConfig(cmd *cobra.Command) (config.TailConfig, error) {
	path, err := config.DefaultPath()
	if err != nil {
		return config.TailConfig{}, err
	}

	profile, err := config.LoadProfile(path, profileFlag)
	if err != nil {
		return config.TailConfig{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-group") {
		profile.LogGroup = logGroupFlag
	}
	if flags.Changed("region") {
		profile.Region = regionFlag
	}
	if flags.Changed("endpoint") {
		profile.Endpoint = endpointFlag
	}
	if flags.Changed("filter-tokens") {
		profile.FilterTokens = config.SplitList(filterTokensFlag)
	}
	if flags.Changed("highlight-tokens") {
		profile.HighlightTokens = config.SplitList(highlightFlag)
	}
	if flags.Changed("exclude-tokens") {
		profile.ExcludeTokens = config.SplitList(excludeTokensFlag)
	}
	if flags.Changed("exclude-streams") {
		profile.ExcludeStreams = config.SplitList(excludeStreamsFlag)
	}
	if flags.Changed("since") {
		profile.Since = sinceFlag
	}
	if flags.Changed("colorize") {
		profile.Colorize = &colorizeFlag
	}
	if flags.Changed("formatter") {
		profile.Formatter = formatterFlag
	}
	if flags.Changed("format-options") {
		profile.FormatOptions = config.ParseOptions(formatOptionsFlag)
	}

	cfg := profile.Resolve()

	// Styling is pointless when piped into a file or another tool.
	if cfg.Colorize && !isatty.IsTerminal(os.Stdout.Fd()) {
		cfg.Colorize = false
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
