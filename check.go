package checkls

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/myleshyson/lsprotocol-go/protocol"
	slogctx "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"
)

// CheckRequest describes one save-triggered check of a single file. It is
// built from the configuration current at save time and discarded when the
// run completes.
type CheckRequest struct {
	TargetFile string
	RunBuild   bool
	RunVet     bool
	LintFlavor LintFlavor
}

// CheckResult carries the merged findings of one run. ToolErrors lists
// tools that failed to invoke while at least one other tool produced
// usable output; they are reported but do not fail the run.
type CheckResult struct {
	Findings   []Finding
	ToolErrors []error
}

type toolRunner interface {
	Run(ctx context.Context, inv ToolInvocation) RawToolResult
}

// Checker orchestrates the configured tools for save events and replaces
// the saved file's published diagnostics with each run's result.
type Checker struct {
	cfg    *Config
	runner toolRunner
	pub    *Publisher
}

func NewChecker(cfg *Config, pub *Publisher) *Checker {
	return &Checker{
		cfg:    cfg,
		runner: &Runner{Timeout: time.Duration(cfg.Check.Timeout)},
		pub:    pub,
	}
}

// CheckFile runs the configured checks for a saved document. run must come
// from Begin on the publisher, taken synchronously in save order, so a
// stale run can never overwrite a newer one's diagnostics.
func (c *Checker) CheckFile(ctx context.Context, uri protocol.DocumentUri, run uint64) {
	ctx = slogctx.Append(ctx, "uri", string(uri), "run", run, "id", uuid.NewString())

	path := uriToPath(uri)
	req := CheckRequest{
		TargetFile: path,
		RunBuild:   OrZeroValue(c.cfg.Check.BuildOnSave),
		RunVet:     OrZeroValue(c.cfg.Check.VetOnSave),
		LintFlavor: c.cfg.Check.LintOnSave,
	}

	res, err := c.Check(ctx, req)
	if err != nil {
		slog.WarnContext(ctx, "check failed", "error", err)
		c.pub.PublishFailure(ctx, uri, run, err)
		return
	}

	published := c.pub.Publish(ctx, uri, run, fileFindings(ctx, path, res.Findings))
	if published && len(res.ToolErrors) > 0 {
		c.pub.ShowMessage(ctx, protocol.MessageTypeWarning,
			fmt.Sprintf("checkls: some checks did not run: %v", errors.Join(res.ToolErrors...)))
	}
}

// Check runs every enabled tool concurrently and merges their findings in
// build, vet, lint order, stable within each tool's output. Exact
// duplicates collapse to one. The run fails only when all enabled tools
// failed to invoke; partial results are never discarded because one tool
// is missing.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	invs := c.invocations(req)
	if len(invs) == 0 {
		return &CheckResult{}, nil
	}

	results := make([]RawToolResult, len(invs))
	g, gctx := errgroup.WithContext(ctx)
	for i, inv := range invs {
		g.Go(func() error {
			results[i] = c.runner.Run(gctx, inv)
			return nil
		})
	}
	// Tool failures are carried inside the results, not as group errors.
	_ = g.Wait()

	var (
		findings  []Finding
		toolErrs  []error
		succeeded int
	)
	seen := map[Finding]struct{}{}
	for _, res := range results {
		if res.Err != nil {
			toolErrs = append(toolErrs, res.Err)
			continue
		}
		succeeded++
		for _, f := range res.Kind.ParseOutput(res.Stdout + "\n" + res.Stderr) {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			findings = append(findings, f)
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("all checks failed to run: %w", errors.Join(toolErrs...))
	}
	return &CheckResult{Findings: findings, ToolErrors: toolErrs}, nil
}

// invocations resolves the enabled tools for a request, in merge order.
func (c *Checker) invocations(req CheckRequest) []ToolInvocation {
	dir := filepath.Dir(req.TargetFile)

	var invs []ToolInvocation
	if req.RunBuild {
		invs = append(invs, ToolInvocation{
			Kind:       ToolBuild,
			Command:    "go",
			Args:       []string{"build", "-o", os.DevNull, "."},
			WorkingDir: dir,
		})
	}
	if req.RunVet {
		invs = append(invs, ToolInvocation{
			Kind:       ToolVet,
			Command:    "go",
			Args:       []string{"vet", "."},
			WorkingDir: dir,
		})
	}
	switch req.LintFlavor {
	case LintGolint:
		invs = append(invs, ToolInvocation{
			Kind:       ToolLint,
			Command:    "golint",
			Args:       []string{filepath.Base(req.TargetFile)},
			WorkingDir: dir,
		})
	case LintCustom:
		invs = append(invs, ToolInvocation{
			Kind:       ToolLint,
			Command:    c.cfg.Check.LintCommand,
			Args:       append(slices.Clone(c.cfg.Check.LintArgs), filepath.Base(req.TargetFile)),
			WorkingDir: dir,
		})
	}
	return invs
}

// fileFindings keeps only findings attributed to the saved file. Relative
// paths in tool output resolve against the file's directory. Diagnostics
// for other files are out of scope for a per-save replace.
func fileFindings(ctx context.Context, path string, findings []Finding) []Finding {
	target := filepath.Clean(path)
	dir := filepath.Dir(path)

	var out []Finding
	for _, f := range findings {
		p := f.File
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		if filepath.Clean(p) != target {
			slog.DebugContext(ctx, "dropping finding for other file", "file", f.File, "line", f.Line)
			continue
		}
		out = append(out, f)
	}
	return out
}
