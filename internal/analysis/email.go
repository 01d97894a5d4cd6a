package analysis

import (
	"context"
	"fmt"
	"strings"

	_ "embed"

	"github.com/farewelly/farewelly/internal/ai"
)

//go:embed email_roast_prompt.md
var roastPromptTemplate string

//go:embed email_constructive_prompt.md
var constructivePromptTemplate string

// RejectionEmail generates the feedback email body. Roast mode swaps the
// constructive template for the comedy-roast variant. Unlike recommendations
// the email is the primary result, so generator failures propagate.
func RejectionEmail(ctx context.Context, gen ai.Generator, candidateName, jobTitle string, gaps, strengths []SkillItem, language string, roastMode bool) (string, error) {
	template := constructivePromptTemplate
	if roastMode {
		template = roastPromptTemplate
	}

	if strings.TrimSpace(candidateName) == "" {
		candidateName = "Candidate"
	}

	prompt := strings.ReplaceAll(template, "{{CANDIDATE_NAME}}", candidateName)
	prompt = strings.ReplaceAll(prompt, "{{JOB_TITLE}}", jobTitle)
	prompt = strings.ReplaceAll(prompt, "{{LANGUAGE}}", language)
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", skillList(strengths))
	prompt = strings.ReplaceAll(prompt, "{{SKILL_GAPS}}", skillList(gaps))

	email, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generating rejection email: %w", err)
	}

	return email, nil
}

// skillList renders skills as prompt bullet points with levels.
func skillList(items []SkillItem) string {
	if len(items) == 0 {
		return "None identified"
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("- %s (candidate level %d, required level %d)",
			item.Name, item.CandidateLevel, item.RequiredLevel))
	}

	return strings.Join(lines, "\n")
}
