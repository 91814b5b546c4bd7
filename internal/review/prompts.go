package review

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/joescharf/lgtm/internal/models"
)

// Prompt context budgets. These bound token usage, not correctness.
const (
	maxPromptFiles    = 10
	patchBudget       = 1000
	descriptionBudget = 500
	problemBudget     = 300
)

var (
	criterionSchema = responseSchema(criterionResponse{})
	generalSchema   = responseSchema(generalResponse{})
)

// responseSchema renders the JSON schema for a response record so prompts
// can show the model the exact shape expected back.
func responseSchema(v any) string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	data, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// buildCriterionPrompt builds the system and user prompts for evaluating
// one acceptance criterion against the diff.
func buildCriterionPrompt(criterion string, diff *models.DiffSummary) (system, user string) {
	system = "You are a senior code reviewer analyzing a pull request against specific acceptance criteria."

	var b strings.Builder
	b.WriteString("**Acceptance Criterion to Evaluate:**\n")
	b.WriteString(criterion)
	b.WriteString("\n\n")

	b.WriteString("**Pull Request Information:**\n")
	fmt.Fprintf(&b, "- Title: %s\n", diff.Title)
	fmt.Fprintf(&b, "- Description: %s...\n", truncate(diff.Description, descriptionBudget))
	fmt.Fprintf(&b, "- Files Changed: %d\n", len(diff.Files))
	fmt.Fprintf(&b, "- Additions: +%d, Deletions: -%d\n\n", diff.TotalAdditions(), diff.TotalDeletions())

	b.WriteString("**Code Changes (relevant excerpts):**\n")
	b.WriteString(changesExcerpt(diff))
	b.WriteString("\n\n")

	b.WriteString("**Instructions:**\n")
	b.WriteString("Analyze whether this pull request fulfills the specific acceptance criterion above.\n\n")
	b.WriteString("Respond with a single JSON object matching this schema:\n")
	b.WriteString(criterionSchema)
	b.WriteString("\n\nBe specific and reference actual code changes where possible.\n")

	return system, b.String()
}

// buildGeneralPrompt builds the system and user prompts for the holistic
// code review. Extra guidelines, when present, are appended verbatim.
func buildGeneralPrompt(ticket *models.Ticket, diff *models.DiffSummary, guidelines string) (system, user string) {
	system = "You are a senior software engineer performing a comprehensive code review."

	var b strings.Builder
	b.WriteString("**Context:**\n")
	fmt.Fprintf(&b, "- Ticket: %s - %s\n", ticket.Key, ticket.Summary)
	fmt.Fprintf(&b, "- Problem: %s\n", truncate(ticket.Description, problemBudget))
	fmt.Fprintf(&b, "- PR: #%d - %s\n\n", diff.Number, diff.Title)

	b.WriteString("**Key Areas to Review:**\n")
	b.WriteString("1. Security vulnerabilities\n")
	b.WriteString("2. Performance implications\n")
	b.WriteString("3. Code maintainability and readability\n")
	b.WriteString("4. Error handling\n")
	b.WriteString("5. Edge cases\n")
	b.WriteString("6. Architecture decisions\n\n")

	fmt.Fprintf(&b, "**Files Changed:** %s\n\n", strings.Join(fileNames(diff, maxPromptFiles), ", "))

	if guidelines != "" {
		b.WriteString("**Project Review Guidelines:**\n")
		b.WriteString(guidelines)
		b.WriteString("\n\n")
	}

	b.WriteString("Provide a structured analysis as a single JSON object matching this schema:\n")
	b.WriteString(generalSchema)
	b.WriteString("\n\nFocus on actionable feedback and specific improvements.\n")

	return system, b.String()
}

// changesExcerpt renders up to maxPromptFiles patches, each truncated to
// patchBudget bytes. Files without patch text are skipped.
func changesExcerpt(diff *models.DiffSummary) string {
	files := diff.Files
	if len(files) > maxPromptFiles {
		files = files[:maxPromptFiles]
	}
	var excerpts []string
	for _, fc := range files {
		if fc.Patch == "" {
			continue
		}
		excerpts = append(excerpts, fmt.Sprintf("File: %s\n%s", fc.Path, truncate(fc.Patch, patchBudget)))
	}
	return strings.Join(excerpts, "\n\n")
}

func fileNames(diff *models.DiffSummary, limit int) []string {
	files := diff.Files
	if len(files) > limit {
		files = files[:limit]
	}
	names := make([]string, 0, len(files))
	for _, fc := range files {
		names = append(names, fc.Path)
	}
	return names
}
