package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/dircomp/internal/compare"
	"github.com/harrison/dircomp/internal/config"
	"github.com/harrison/dircomp/internal/extract"
	"github.com/harrison/dircomp/internal/gitdiff"
	"github.com/harrison/dircomp/internal/logger"
	"github.com/harrison/dircomp/internal/nativediff"
	"github.com/harrison/dircomp/internal/report"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <dir1> <dir2>",
		Short: "Compare two directory trees",
		Long: `Compare two directory trees and classify every file across both as
Added, Removed, Renamed, Modified, RenamedAndModified or Unchanged.

The default engine shells out to git diff --no-index with rename detection,
routing office documents and PDFs through text extraction so their content
changes diff as text. The native engine performs the same comparison fully
in-process.

Configuration is loaded from .dircomp/config.yaml if present.
CLI flags override configuration file settings.

The exit code reflects process success or failure, never whether
differences were found.

Examples:
  dircomp compare old/ new/
  dircomp compare --json old/ new/ > changes.json
  dircomp compare --html old/ new/ > changes.html
  dircomp compare --engine native old/ new/
  dircomp compare --jobs 8 --hunk-timeout 10s old/ new/
  dircomp compare --no-unchanged old/ new/`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().Bool("json", false, "Emit the report as JSON")
	cmd.Flags().Bool("html", false, "Emit the report as HTML")
	cmd.Flags().String("config", "", "Path to config file (default: .dircomp/config.yaml)")
	cmd.Flags().String("engine", "", "Comparison engine: git or native")
	cmd.Flags().String("git-path", "", "Path to the git binary used by the git engine")
	cmd.Flags().Int("threshold", -1, "Rename similarity threshold, 0-100")
	cmd.Flags().Int("jobs", 0, "Concurrent hunk retrievals (1 = sequential)")
	cmd.Flags().String("hunk-timeout", "", "Per-file hunk retrieval timeout (e.g. 10s); expired hunks degrade")
	cmd.Flags().String("log-level", "", "Diagnostic verbosity: trace, debug, info, warn, error")
	cmd.Flags().Bool("no-unchanged", false, "Omit the Unchanged section from text and HTML output")

	cmd.MarkFlagsMutuallyExclusive("json", "html")

	return cmd
}

// runCompare implements the compare command logic.
func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadCompareConfig(cmd)
	if err != nil {
		return err
	}

	log := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	log.LogDebug(fmt.Sprintf("run %s: engine=%s jobs=%d threshold=%d", uuid.NewString()[:8], cfg.Engine, cfg.Jobs, cfg.RenameThreshold))

	registry := extract.NewRegistry(log, cfg.BinaryExtensions...)

	engine, closeEngine, err := buildEngine(cfg, registry, log)
	if err != nil {
		return err
	}
	defer closeEngine()

	reconciler := &compare.Reconciler{
		Engine:      engine,
		Log:         log,
		Jobs:        cfg.Jobs,
		HunkTimeout: cfg.HunkTimeout,
	}

	records, err := reconciler.Run(cmd.Context(), args[0], args[1])
	if err != nil {
		return err
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	htmlOut, _ := cmd.Flags().GetBool("html")
	out := cmd.OutOrStdout()
	opts := report.Options{
		ShowUnchanged: cfg.ShowUnchanged,
		Color:         stdoutIsTerminal(out),
	}

	switch {
	case jsonOut:
		return report.WriteJSON(out, records)
	case htmlOut:
		return report.WriteHTML(out, records, opts)
	default:
		return report.WriteText(out, records, opts)
	}
}

// loadCompareConfig loads the config file and merges changed flags over it,
// flags taking precedence.
func loadCompareConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("engine") {
		cfg.Engine, _ = cmd.Flags().GetString("engine")
	}
	if cmd.Flags().Changed("git-path") {
		cfg.GitPath, _ = cmd.Flags().GetString("git-path")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.RenameThreshold, _ = cmd.Flags().GetInt("threshold")
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if cmd.Flags().Changed("hunk-timeout") {
		raw, _ := cmd.Flags().GetString("hunk-timeout")
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid --hunk-timeout %q: %w", raw, err)
		}
		cfg.HunkTimeout = timeout
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if noUnchanged, _ := cmd.Flags().GetBool("no-unchanged"); noUnchanged {
		cfg.ShowUnchanged = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildEngine constructs the configured comparison engine. The returned
// close func releases engine resources and is always non-nil.
func buildEngine(cfg *config.Config, registry *extract.Registry, log logger.Logger) (compare.Engine, func(), error) {
	if cfg.Engine == config.EngineNative {
		return nativediff.NewEngine(registry, cfg.RenameThreshold, log), func() {}, nil
	}

	// The git engine re-invokes this very binary as its textconv hook.
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to locate own executable for textconv hook: %w", err)
	}

	engine, err := gitdiff.NewEngine(cfg.GitPath, fmt.Sprintf("%q textconv", exe), registry.Extensions(), cfg.RenameThreshold, log)
	if err != nil {
		return nil, nil, err
	}

	return engine, func() { engine.Close() }, nil
}

// stdoutIsTerminal reports whether the report destination supports colors.
func stdoutIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
