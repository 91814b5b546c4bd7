// Package review implements the decision engine that turns a ticket and a
// pull request diff into a deterministic review verdict. Heuristic checks
// (keyword scan, coverage) are pure; criterion and holistic analyses go
// through a model backend, with per-unit degradation when a call fails.
package review

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/joescharf/lgtm/internal/llm"
	"github.com/joescharf/lgtm/internal/models"
)

// Config controls the deterministic half of a review.
type Config struct {
	// FailKeywords override DefaultFailKeywords when non-empty.
	FailKeywords []string

	// Guidelines is extra review guidance injected into the holistic
	// review prompt, typically loaded from a project file.
	Guidelines string
}

// Engine runs the full review pipeline for one (ticket, diff) pair.
type Engine struct {
	client  llm.Client
	scanner *Scanner
	cfg     Config
}

// NewEngine creates an engine bound to a model backend client.
func NewEngine(client llm.Client, cfg Config) *Engine {
	return &Engine{
		client:  client,
		scanner: NewScanner(cfg.FailKeywords),
		cfg:     cfg,
	}
}

// Review produces a fully formed result even when every model call fails:
// backend errors degrade individual analyses instead of aborting. The
// caller owns the returned result exclusively.
func (e *Engine) Review(ctx context.Context, ticket *models.Ticket, diff *models.DiffSummary) *models.ReviewResult {
	log.Infof("Starting review for PR #%d against ticket %s", diff.Number, ticket.Key)

	findings := e.scanner.Scan(diff)
	coverage := AssessCoverage(diff)

	criteria := e.analyzeCriteria(ctx, ticket, diff)
	general := e.assessGeneral(ctx, ticket, diff)

	scorecard := NewScorecard(criteria, findings, coverage, general)
	status := DetermineStatus(scorecard.Overall, criteria, findings)
	log.Debugf("Score %.3f (criteria=%.3f quality=%.3f coverage=%.3f general=%.3f) status=%s",
		scorecard.Overall, scorecard.Criteria, scorecard.Quality, scorecard.Coverage, scorecard.General, status)

	result := &models.ReviewResult{
		Status:           status,
		Score:            scorecard.Overall,
		CriteriaAnalysis: criteria,
		Findings:         findings,
		Coverage:         coverage,
		Suggestions:      buildSuggestions(criteria, findings, general),
		RequiredChanges:  buildRequiredChanges(criteria, findings),
		RecommendedTests: buildRecommendedTests(ticket, diff, coverage),
	}
	if status == models.ReviewStatusPass {
		result.Comment = verdictComment(scorecard.Overall)
	}
	result.Summary = buildSummary(result)
	return result
}

// analyzeCriteria evaluates every criterion in order. A backend failure
// for one criterion never blocks the others.
func (e *Engine) analyzeCriteria(ctx context.Context, ticket *models.Ticket, diff *models.DiffSummary) []models.CriterionAnalysis {
	analyses := make([]models.CriterionAnalysis, 0, len(ticket.AcceptanceCriteria))
	for _, criterion := range ticket.AcceptanceCriteria {
		analyses = append(analyses, e.analyzeCriterion(ctx, criterion, diff))
	}
	return analyses
}

func (e *Engine) analyzeCriterion(ctx context.Context, criterion string, diff *models.DiffSummary) models.CriterionAnalysis {
	system, user := buildCriterionPrompt(criterion, diff)
	raw, err := e.client.Complete(ctx, system, user)
	if err != nil {
		log.Errorf("AI analysis failed for criterion: %v", err)
		return failedCriterionAnalysis(criterion, err)
	}
	return parseCriterionAnalysis(criterion, raw)
}

func (e *Engine) assessGeneral(ctx context.Context, ticket *models.Ticket, diff *models.DiffSummary) models.GeneralAssessment {
	system, user := buildGeneralPrompt(ticket, diff, e.cfg.Guidelines)
	raw, err := e.client.Complete(ctx, system, user)
	if err != nil {
		log.Errorf("AI code review failed: %v", err)
		return failedGeneralAssessment()
	}
	return parseGeneralAssessment(raw)
}
