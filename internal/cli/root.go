// Package cli implements the recolor command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dshills/recolor/internal/config"
	"github.com/dshills/recolor/internal/logging"
	"github.com/dshills/recolor/internal/tracing"
)

// app carries the state shared by every command.
type app struct {
	version string
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *logging.Logger
	tracer  *tracing.Provider
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{version: version, v: config.NewViper(), logger: logging.Default()}

	root := &cobra.Command{
		Use:   "recolor",
		Short: "Incremental syntax highlighting engine",
		Long: `recolor keeps syntax highlighting correct while a document is edited,
re-lexing only the damaged region and the tokens after it until the lexer
state resynchronizes.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./.recolor.yaml or $XDG_CONFIG_HOME/recolor/config.yaml)")
	pf.StringP("language", "l", "", "tokenizer language (default: by file extension)")
	pf.String("mode", "", "processing mode: inline or worker")
	pf.Int("slice-tokens", 0, "tokens lexed per worker slice (0 = unbounded)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("theme", "", "built-in theme name or theme file")
	pf.String("script", "", "Lua tokenizer script")
	pf.Bool("verify", false, "check every incremental result against a full lex")
	pf.String("trace", "", "enable tracing with exporter: stdout or file")
	pf.String("trace-file", "", "trace output for the file exporter")

	bind := map[string]string{
		"language":          "language",
		"mode":              "mode",
		"slice_tokens":      "slice-tokens",
		"log_level":         "log-level",
		"theme":             "theme",
		"tokenizer_script":  "script",
		"verify":            "verify",
		"tracing.exporter":  "trace",
		"tracing.file_path": "trace-file",
	}
	for key, flag := range bind {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newHighlightCommand(a),
		newReplayCommand(a),
		newWatchCommand(a),
		newLanguagesCommand(a),
		newVersionCommand(a),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute(version string) error {
	return NewRootCommand(version).ExecuteContext(context.Background())
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("trace") {
		cfg.Tracing.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	a.cfg = cfg

	level, _ := logging.ParseLevel(cfg.LogLevel)
	a.logger = logging.New(logging.Config{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Prefix: "recolor",
	})
	logging.SetDefault(a.logger)

	tc := cfg.Tracing
	tc.Writer = cmd.ErrOrStderr()
	a.tracer, err = tracing.NewProvider(tc)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	a.logger.Debug("config loaded from %q", a.v.ConfigFileUsed())
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.tracer == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.tracer.Shutdown(ctx)
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "recolor %s\n", a.version)
			return err
		},
	}
}
