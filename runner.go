package checkls

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// ToolInvocation is a fully resolved external tool command. WorkingDir is
// the enclosing directory of the target file so relative paths in the
// tool's output resolve correctly.
type ToolInvocation struct {
	Kind       ToolKind
	Command    string
	Args       []string
	WorkingDir string
}

// RawToolResult is the captured outcome of one tool run. A non-zero exit
// code with output to parse is a normal result; Err is set only when the
// tool could not be invoked at all, which must stay distinguishable from
// "ran and found nothing".
type RawToolResult struct {
	Kind     ToolKind
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

var (
	ErrToolNotFound = errors.New("tool not found")
	ErrToolTimeout  = errors.New("tool timed out")
)

// Runner executes tool invocations with a bounded execution budget.
type Runner struct {
	Timeout time.Duration
}

// Run launches the invocation and waits for it to finish or exceed the
// timeout. Stdout and stderr are captured separately because some tools
// report findings on stderr.
func (r *Runner) Run(ctx context.Context, inv ToolInvocation) RawToolResult {
	res := RawToolResult{Kind: inv.Kind}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, inv.Command, inv.Args...)
	cmd.Dir = inv.WorkingDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res.Stdout = stdout.String()
	res.Stderr = stderr.String()

	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		res.Err = fmt.Errorf("%s (%s): %w", inv.Command, inv.Kind, ErrToolTimeout)
	case errors.Is(err, exec.ErrNotFound):
		res.Err = fmt.Errorf("%s (%s): %w", inv.Command, inv.Kind, ErrToolNotFound)
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.Err = fmt.Errorf("%s (%s): %w", inv.Command, inv.Kind, err)
		}
	}

	slog.DebugContext(ctx, "tool finished", "tool", inv.Kind, "command", inv.Command, "exit", res.ExitCode, "error", res.Err)
	return res
}
