// Package gitdiff implements the comparison engine backed by an external git
// binary: git diff --no-index with rename detection, routing binary document
// formats through the dircomp textconv hook via a temporary attributes file.
package gitdiff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/harrison/dircomp/internal/compare"
	"github.com/harrison/dircomp/internal/logger"
)

// Engine shells out to git for both the status and hunk phases. It follows
// the reusable-client pattern: create once, use for every invocation of one
// run, then Close.
type Engine struct {
	// GitPath is the git binary. Defaults to "git" when empty.
	GitPath string

	// TextconvCmd is the shell command git runs to extract text from a file,
	// typically `"/path/to/dircomp" textconv`.
	TextconvCmd string

	// Extensions lists the file extensions routed through TextconvCmd.
	Extensions []string

	// RenameThreshold is the similarity percentage passed to -M.
	RenameThreshold int

	// Log receives diagnostics. Nil means silent.
	Log logger.Logger

	scratchDir string
}

// NewEngine creates a git engine with a private scratch directory for the
// per-invocation attribute files. Callers must Close it.
func NewEngine(gitPath, textconvCmd string, extensions []string, renameThreshold int, log logger.Logger) (*Engine, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	scratch, err := os.MkdirTemp("", "dircomp-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	return &Engine{
		GitPath:         gitPath,
		TextconvCmd:     textconvCmd,
		Extensions:      extensions,
		RenameThreshold: renameThreshold,
		Log:             log,
		scratchDir:      scratch,
	}, nil
}

// Close removes the engine's scratch directory.
func (e *Engine) Close() error {
	return os.RemoveAll(e.scratchDir)
}

// Name identifies the engine in diagnostics.
func (e *Engine) Name() string { return "git" }

// Status runs the single name-status invocation over the two tree roots and
// parses the report.
func (e *Engine) Status(ctx context.Context, dirA, dirB string) ([]compare.StatusEntry, error) {
	output, err := e.diff(ctx, "--name-status", dirA, dirB)
	if err != nil {
		return nil, err
	}

	return parseStatus(output, dirA, dirB)
}

// Hunk runs a single-pair diff invocation and returns its raw output. A pure
// rename pair (identical content) yields an empty hunk.
func (e *Engine) Hunk(ctx context.Context, oldPath, newPath string) (string, error) {
	return e.diff(ctx, oldPath, newPath)
}

// diff invokes git diff --no-index with the textconv routing configuration
// and the given trailing arguments. The attributes file is written fresh per
// call and removed on every exit path.
func (e *Engine) diff(ctx context.Context, trailing ...string) (string, error) {
	attrsPath, cleanup, err := writeAttrsFile(e.scratchDir, e.Extensions)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{
		"-c", fmt.Sprintf("diff.%s.textconv=%s", driverName, e.TextconvCmd),
		"-c", fmt.Sprintf("core.attributesfile=%s", attrsPath),
		"diff", "--no-index", "--textconv",
		fmt.Sprintf("-M%d%%", e.RenameThreshold),
	}
	args = append(args, trailing...)

	return e.run(ctx, args)
}

// run executes git and captures stdout. git diff exits 1 when differences
// exist; that is a meaningful result, not a process failure. Exit codes
// above 1, a missing binary, or a killed process are surfaced as errors.
func (e *Engine) run(ctx context.Context, args []string) (string, error) {
	gitPath := e.GitPath
	if gitPath == "" {
		gitPath = "git"
	}

	cmd := exec.CommandContext(ctx, gitPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git invocation interrupted: %w", ctx.Err())
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			// Differences found.
			return stdout.String(), nil
		}

		return "", fmt.Errorf("git invocation failed: %w (stderr: %s)", err, stderr.String())
	}

	return stdout.String(), nil
}
