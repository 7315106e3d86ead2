package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/wippyai/toto/bridge"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type app struct {
	log *zap.Logger
	cfg Config
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	a := &app{cfg: DefaultConfig(), log: zap.NewNop()}

	var (
		debug      bool
		configPath string
		color      string
		format     string
		workers    int
	)

	rootCmd := &cobra.Command{
		Use:   "toto",
		Short: "Pull tokens and diagnostics from TOML-like text",
		Long: `toto drives the tokenizer bridge one token at a time.

It prints token streams, checks files for lexical errors, resolves byte
offsets to positions and renders diagnostics the same way foreign callers
of the bridge see them.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			path, explicit := DefaultConfigFile, false
			if cmd.Flags().Changed("config") {
				path, explicit = configPath, true
			}
			cfg, err := loadConfig(path, explicit)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("color") {
				cfg.Color = color
			}
			if flags.Changed("format") {
				cfg.Format = format
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if debug {
				cfg.Level = zapcore.DebugLevel
			}
			if err := cfg.validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg.Level)
			if err != nil {
				return err
			}
			a.cfg, a.log = cfg, log
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = a.log.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.StringVar(&configPath, "config", "", "path to config file (default ./"+DefaultConfigFile+")")
	flags.StringVar(&color, "color", "auto", "colorize output: auto, always, never")
	flags.StringVar(&format, "format", "text", "token output format: text, json, yaml")
	flags.IntVar(&workers, "workers", 0, "concurrent files for check (default number of CPUs)")

	rootCmd.AddCommand(newTokensCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newPosCommand(a))
	rootCmd.AddCommand(newShowCommand(a))
	rootCmd.AddCommand(newBrowseCommand(a))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}

// renderer returns a lipgloss renderer for w honoring the color setting.
func (a *app) renderer(w io.Writer) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch a.cfg.Color {
	case "always":
		r.SetColorProfile(termenv.ANSI256)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

// bridge creates a bridge that renders diagnostics to w.
func (a *app) bridge(w io.Writer) *bridge.Bridge {
	return bridge.New(bridge.Options{
		Output:   w,
		Renderer: a.renderer(w),
		Logger:   a.log.Named("bridge"),
	})
}
