package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/farewelly/farewelly/internal/ai"
	"github.com/farewelly/farewelly/internal/utils"
	"go.uber.org/zap"
)

//go:embed recommend_prompt.md
var recommendPromptTemplate string

const (
	RecommendationHardSkill = "hardskill"
	RecommendationSoftSkill = "softskill"
	RecommendationGeneral   = "general"

	promptPreviewLength = 200
)

// Recommendation is a single learning suggestion with optional course links.
type Recommendation struct {
	Type        string       `json:"type"`
	Skill       string       `json:"skill,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Courses     []CourseItem `json:"courses"`
}

type CourseItem struct {
	Name     string `json:"name"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Recommendations asks the generator for learning recommendations addressing
// the given gaps. Recommendations are enrichment: a generator or parse
// failure degrades to a single generic fallback instead of propagating.
func Recommendations(ctx context.Context, gen ai.Generator, logger *zap.Logger, gaps, strengths []SkillItem, jobTitle string) []Recommendation {
	if len(gaps) == 0 {
		return []Recommendation{{
			Type:        RecommendationGeneral,
			Title:       "Continue Building Your Portfolio",
			Description: "Keep developing projects relevant to this role to strengthen your application.",
			Courses:     []CourseItem{},
		}}
	}

	prompt := buildRecommendPrompt(gaps, strengths, jobTitle)

	logger.Debug("recommendation request",
		zap.String("job_title", jobTitle),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, promptPreviewLength)),
	)

	raw, err := gen.GenerateContent(ctx, prompt)
	if err != nil {
		logger.Warn("generating recommendations failed, falling back", zap.Error(err))
		return fallbackRecommendations(gaps)
	}

	recommendations, err := parseRecommendations(raw)
	if err != nil {
		logger.Warn("parsing recommendations failed, falling back",
			zap.String("response_preview", utils.TruncateForLog(raw, promptPreviewLength)),
			zap.Error(err),
		)
		return fallbackRecommendations(gaps)
	}

	return recommendations
}

func buildRecommendPrompt(gaps, strengths []SkillItem, jobTitle string) string {
	strengthsText := skillNames(strengths, 3)
	if strengthsText == "" {
		strengthsText = "None identified"
	}

	prompt := strings.ReplaceAll(recommendPromptTemplate, "{{JOB_TITLE}}", jobTitle)
	prompt = strings.ReplaceAll(prompt, "{{SKILL_GAPS}}", skillNames(gaps, maxSkillItems))
	prompt = strings.ReplaceAll(prompt, "{{STRENGTHS}}", strengthsText)

	return prompt
}

func parseRecommendations(raw string) ([]Recommendation, error) {
	cleaned := extractJSON(raw)

	var recommendations []Recommendation
	if err := json.Unmarshal([]byte(cleaned), &recommendations); err != nil {
		return nil, fmt.Errorf("parse recommendations response: %w", err)
	}

	if len(recommendations) == 0 {
		return nil, fmt.Errorf("recommendations response is empty")
	}

	for i := range recommendations {
		if recommendations[i].Type == "" {
			recommendations[i].Type = RecommendationHardSkill
		}
		if recommendations[i].Courses == nil {
			recommendations[i].Courses = []CourseItem{}
		}
	}

	return recommendations, nil
}

func fallbackRecommendations(gaps []SkillItem) []Recommendation {
	skill := "technical skills"
	if len(gaps) > 0 {
		skill = gaps[0].Name
	}

	return []Recommendation{{
		Type:        RecommendationHardSkill,
		Skill:       skill,
		Title:       fmt.Sprintf("Build foundational knowledge in %s", skill),
		Description: "Focus on developing core competencies required for this role.",
		Courses:     []CourseItem{},
	}}
}

// extractJSON strips markdown code fences a model may wrap around its output.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
