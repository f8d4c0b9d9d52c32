// Package runner orchestrates the review pipeline: context fetch, diff
// build, prompt assembly, engine invocation, finding reconciliation, and
// the summary comment. The flow is strictly linear and single-pass.
package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/reviewpilot/reviewpilot/internal/domain"
	"github.com/reviewpilot/reviewpilot/internal/engine"
	"github.com/reviewpilot/reviewpilot/internal/findings"
	"github.com/reviewpilot/reviewpilot/internal/logging"
	"github.com/reviewpilot/reviewpilot/internal/prompt"
)

// ContextFetcher retrieves the PR context bundle. Implemented by gh.Client.
type ContextFetcher interface {
	FetchReviewContext(ctx context.Context, repoFullName string, prNumber int) (*domain.ReviewContext, error)
}

// EngineRunner invokes the reasoning engine. Implemented by engine.Runner.
type EngineRunner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// DiffBuilder computes the truncated diff bundle. Implemented by git.BuildDiff.
type DiffBuilder func(ctx context.Context, workDir, baseRef, headRef string, maxBytes int) (*domain.DiffBundle, error)

// Config holds the resolved settings for one pipeline run.
type Config struct {
	Repo               string // "owner/name"
	PRNumber           int
	WorkDir            string
	MaxDiffBytes       int
	PostSummary        bool
	CustomInstructions string
	Version            string
}

// Pipeline wires the pipeline stages together. All collaborators are
// interfaces or function values so the end-to-end flow is testable with
// fakes.
type Pipeline struct {
	cfg       Config
	fetcher   ContextFetcher
	buildDiff DiffBuilder
	engine    EngineRunner
	poster    CommentPoster
	logger    *slog.Logger
	stderr    io.Writer
}

// New constructs a Pipeline.
func New(cfg Config, fetcher ContextFetcher, buildDiff DiffBuilder, eng EngineRunner, poster CommentPoster, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		fetcher:   fetcher,
		buildDiff: buildDiff,
		engine:    eng,
		poster:    poster,
		logger:    logger,
		stderr:    os.Stderr,
	}
}

// Run executes the pipeline once. Fatal errors (context fetch, diff,
// engine) abort before any comment is posted, so a failed run never
// leaves the PR with a false "reviewed" status. Soft failures degrade to
// a notice comment and a clean exit.
func (p *Pipeline) Run(ctx context.Context) domain.ExitCode {
	rc, err := p.fetcher.FetchReviewContext(ctx, p.cfg.Repo, p.cfg.PRNumber)
	if err != nil {
		p.fatal("failed to fetch review context", err, "")
		return domain.ExitError
	}
	p.logger.Info("fetched review context",
		"pr", p.cfg.PRNumber,
		"comments", len(rc.ConversationComments),
		"threads", len(rc.ReviewThreads))

	bundle, err := p.buildDiff(ctx, p.cfg.WorkDir, rc.BaseRef, rc.HeadRef, p.cfg.MaxDiffBytes)
	if err != nil {
		p.fatal("failed to build diff", err, "")
		return domain.ExitError
	}
	if bundle.Truncated {
		p.logger.Warn("diff truncated to byte budget",
			"original", bundle.OriginalSize, "truncated", bundle.TruncatedSize)
	}

	artifactPath := findings.ArtifactPath(p.cfg.WorkDir)
	// A stale artifact from an earlier run must not masquerade as this
	// run's output.
	_ = os.Remove(artifactPath)

	doc := prompt.Assemble(rc, bundle, p.cfg.CustomInstructions, artifactPath)
	p.logger.Info("assembled prompt", "bytes", len(doc), "diff_bytes", bundle.TruncatedSize)

	engineLog, err := p.engine.Run(ctx, doc)
	if err != nil {
		var engErr *engine.Error
		if errors.As(err, &engErr) {
			p.fatal("review engine failed", err, engErr.Log)
		} else {
			p.fatal("review engine failed", err, engineLog)
		}
		return domain.ExitError
	}
	p.logger.Info("engine run complete")

	out, err := findings.Load(artifactPath)
	if findings.SoftFailure(err) {
		p.logger.Warn("no usable output artifact, posting notice", "error", err)
		if postErr := p.poster.PostIssueComment(ctx, p.cfg.Repo, p.cfg.PRNumber, RenderNoArtifactNotice(p.cfg.Version)); postErr != nil {
			p.logger.Warn("failed to post no-artifact notice", "error", postErr)
		}
		return domain.ExitSuccess
	}
	if err != nil {
		p.fatal("failed to read output artifact", err, "")
		return domain.ExitError
	}

	valid := findings.FilterValid(out.Findings, p.logger)
	p.logger.Info("validated findings", "total", len(out.Findings), "valid", len(valid), "verdict", out.Verdict)

	results := Reconcile(ctx, p.poster, p.logger, p.cfg.Repo, p.cfg.PRNumber, rc.HeadSHA, valid)
	outOfDiff := OutOfDiff(results)
	p.logger.Info("reconciled findings",
		"posted", len(results)-len(outOfDiff), "out_of_diff", len(outOfDiff))

	if p.cfg.PostSummary {
		body := RenderSummary(out.Verdict, out.Summary, outOfDiff, p.cfg.Version)
		if err := p.poster.PostIssueComment(ctx, p.cfg.Repo, p.cfg.PRNumber, body); err != nil {
			p.fatal("failed to post summary comment", err, "")
			return domain.ExitError
		}
		p.logger.Info("posted summary comment")
	}

	return domain.ExitSuccess
}

// fatal logs a fatal error inside a labeled (and, on Actions,
// collapsible) log group, including any captured subprocess log.
func (p *Pipeline) fatal(msg string, err error, capturedLog string) {
	logging.Group(p.stderr, "reviewpilot: "+msg)
	logging.ErrorAnnotation(p.stderr, msg+": "+err.Error())
	if capturedLog != "" {
		io.WriteString(p.stderr, capturedLog)
		if capturedLog[len(capturedLog)-1] != '\n' {
			io.WriteString(p.stderr, "\n")
		}
	}
	logging.EndGroup(p.stderr)
	p.logger.Error(msg, "error", err)
}
