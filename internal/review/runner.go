package review

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/joescharf/lgtm/internal/git"
	"github.com/joescharf/lgtm/internal/github"
	"github.com/joescharf/lgtm/internal/jira"
	"github.com/joescharf/lgtm/internal/models"
	"github.com/joescharf/lgtm/internal/store"
)

// RunOptions select what to review. LocalPath switches the diff source
// from GitHub to an on-disk repository.
type RunOptions struct {
	TicketKey string
	PRURL     string
	LocalPath string
	LocalRef  string
}

// RunOutcome bundles everything a caller needs to render a finished
// review. ReviewID is empty when persistence was skipped or failed.
type RunOutcome struct {
	Ticket   *models.Ticket       `json:"ticket"`
	Diff     *models.DiffSummary  `json:"diff"`
	Result   *models.ReviewResult `json:"result"`
	ReviewID string               `json:"review_id,omitempty"`
}

// RunnerDeps are the collaborators a Runner orchestrates. Store may be
// nil to skip persistence; Engine is only needed for full reviews, the
// heuristic-only path works without a model backend.
type RunnerDeps struct {
	Jira   jira.Client
	GitHub github.Client
	Git    git.Client
	Engine *Engine
	Store  store.Store
}

// Runner drives a full review: fetch the ticket, resolve the PR, fetch
// the diff, run the engine, persist the outcome. Shared by the CLI and
// the MCP server.
type Runner struct {
	deps    RunnerDeps
	scanner *Scanner
}

// NewRunner creates a runner with the given collaborators.
func NewRunner(deps RunnerDeps, cfg Config) *Runner {
	return &Runner{deps: deps, scanner: NewScanner(cfg.FailKeywords)}
}

// Run executes the full pipeline for one ticket.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (*RunOutcome, error) {
	// 1. Fetch the ticket and its acceptance criteria
	ticket, err := r.deps.Jira.GetTicket(ctx, opts.TicketKey)
	if err != nil {
		return nil, err
	}
	log.Debugf("Ticket %s: %d acceptance criteria, %d linked PRs", ticket.Key, len(ticket.AcceptanceCriteria), len(ticket.LinkedPRs))

	// 2. Resolve and fetch the diff
	diff, err := r.resolveDiff(ctx, ticket, opts)
	if err != nil {
		return nil, err
	}

	// 3. Run the engine
	result := r.deps.Engine.Review(ctx, ticket, diff)

	outcome := &RunOutcome{Ticket: ticket, Diff: diff, Result: result}

	// 4. Persist; a storage failure never discards a finished review
	if r.deps.Store != nil {
		rec := &models.ReviewRecord{
			TicketKey: ticket.Key,
			PRNumber:  diff.Number,
			PRTitle:   diff.Title,
			Status:    result.Status,
			Score:     result.Score,
			Summary:   result.Summary,
			Result:    result,
		}
		if err := r.deps.Store.SaveReview(ctx, rec); err != nil {
			log.Warnf("save review: %v", err)
		} else {
			outcome.ReviewID = rec.ID
		}
	}

	return outcome, nil
}

// AnalyzeTicket fetches and parses a ticket without reviewing anything.
func (r *Runner) AnalyzeTicket(ctx context.Context, keyOrURL string) (*models.Ticket, error) {
	return r.deps.Jira.GetTicket(ctx, keyOrURL)
}

// AnalyzePR runs only the deterministic checks against a PR: quality scan
// plus coverage assessment, no model backend involved.
func (r *Runner) AnalyzePR(ctx context.Context, prURL string) (*models.DiffSummary, []models.QualityFinding, models.CoverageAssessment, error) {
	ref, err := github.ParsePRURL(prURL)
	if err != nil {
		return nil, nil, models.CoverageAssessment{}, err
	}
	diff, err := r.deps.GitHub.GetDiff(ctx, ref)
	if err != nil {
		return nil, nil, models.CoverageAssessment{}, err
	}
	findings := r.scanner.Scan(diff)
	return diff, findings, AssessCoverage(diff), nil
}

// resolveDiff picks the diff source: local repository when requested,
// otherwise the explicit PR URL, otherwise the ticket's single linked PR.
func (r *Runner) resolveDiff(ctx context.Context, ticket *models.Ticket, opts RunOptions) (*models.DiffSummary, error) {
	if opts.LocalPath != "" {
		return r.deps.Git.Diff(opts.LocalPath, opts.LocalRef)
	}

	prURL := opts.PRURL
	if prURL == "" {
		switch len(ticket.LinkedPRs) {
		case 0:
			return nil, fmt.Errorf("no pull request linked to ticket %s, pass one with --pr", ticket.Key)
		case 1:
			prURL = ticket.LinkedPRs[0]
		default:
			return nil, fmt.Errorf("ticket %s links %d pull requests, pass one with --pr: %s",
				ticket.Key, len(ticket.LinkedPRs), strings.Join(ticket.LinkedPRs, ", "))
		}
	}

	ref, err := github.ParsePRURL(prURL)
	if err != nil {
		return nil, err
	}
	return r.deps.GitHub.GetDiff(ctx, ref)
}
