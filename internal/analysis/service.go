package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/farewelly/farewelly/internal/ai"
	"github.com/farewelly/farewelly/internal/hrflow"
	"go.uber.org/zap"
)

// MatchThreshold is the score above which a candidate counts as matched.
const MatchThreshold = 0.8

// ErrNotFound marks a profile or job key unknown to the data provider.
var ErrNotFound = errors.New("not found")

// Provider supplies stored candidate and job data.
type Provider interface {
	GetProfile(key string) (*hrflow.Profile, error)
	GetJob(key string) (*hrflow.Job, error)
	ScoreProfile(profileKey, jobKey string) float64
}

// Service composes the analyze workflow: fetch both entities, score, compare
// skills, generate recommendations and the feedback email.
type Service struct {
	provider  Provider
	generator ai.Generator
	logger    *zap.Logger
}

func NewService(provider Provider, generator ai.Generator, logger *zap.Logger) *Service {
	return &Service{
		provider:  provider,
		generator: generator,
		logger:    logger,
	}
}

// CandidateInfo identifies the analyzed candidate in the result.
type CandidateInfo struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ChatContext bundles everything a follow-up chat needs about the analysis.
type ChatContext struct {
	CandidateName   string           `json:"candidateName"`
	JobTitle        string           `json:"jobTitle"`
	SkillGaps       []SkillItem      `json:"skillGaps"`
	Strengths       []SkillItem      `json:"strengths"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Result is the immutable outcome of one analyze call.
type Result struct {
	Score            float64          `json:"score"`
	Threshold        float64          `json:"threshold"`
	Matched          bool             `json:"matched"`
	DetectedLanguage string           `json:"detectedLanguage"`
	Candidate        CandidateInfo    `json:"candidate"`
	SkillGaps        []SkillItem      `json:"skillGaps"`
	Strengths        []SkillItem      `json:"strengths"`
	Recommendations  []Recommendation `json:"recommendations"`
	Email            string           `json:"email"`
	VideoURL         *string          `json:"videoUrl"`
	ChatContext      ChatContext      `json:"chatContext"`
}

// Analyze runs the full workflow for one candidate and one job. There is no
// partial result: any hard failure surfaces to the caller.
func (s *Service) Analyze(ctx context.Context, profileKey, jobKey string, roastMode bool) (*Result, error) {
	profile, err := s.provider.GetProfile(profileKey)
	if err != nil {
		return nil, providerErr("profile", profileKey, err)
	}

	job, err := s.provider.GetJob(jobKey)
	if err != nil {
		return nil, providerErr("job", jobKey, err)
	}

	score := s.provider.ScoreProfile(profileKey, jobKey)

	gaps, strengths := AnalyzeSkills(toSkills(profile.Skills), toSkills(job.Skills))

	s.logger.Debug("skill analysis completed",
		zap.String("profile_key", profileKey),
		zap.String("job_key", jobKey),
		zap.Float64("score", score),
		zap.Int("gaps", len(gaps)),
		zap.Int("strengths", len(strengths)),
	)

	recommendations := Recommendations(ctx, s.generator, s.logger, gaps, strengths, job.Title())

	candidateName := profile.FullName()
	language := profile.Language()

	email, err := RejectionEmail(ctx, s.generator, candidateName, job.Title(), gaps, strengths, language, roastMode)
	if err != nil {
		return nil, err
	}

	return &Result{
		Score:            score,
		Threshold:        MatchThreshold,
		Matched:          score >= MatchThreshold,
		DetectedLanguage: language,
		Candidate: CandidateInfo{
			Name:  candidateName,
			Email: strings.TrimSpace(profile.Info.Email),
		},
		SkillGaps:       gaps,
		Strengths:       strengths,
		Recommendations: recommendations,
		Email:           email,
		ChatContext: ChatContext{
			CandidateName:   firstNameOr(profile, candidateName),
			JobTitle:        job.Title(),
			SkillGaps:       gaps,
			Strengths:       strengths,
			Recommendations: recommendations,
		},
	}, nil
}

// providerErr classifies a fetch failure. Unknown keys are reported through
// the provider's response envelope and map to ErrNotFound; transport and
// decoding failures stay plain upstream errors.
func providerErr(kind, key string, err error) error {
	var upstream *hrflow.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Errorf("%w: %s %q: %v", ErrNotFound, kind, key, err)
	}
	return fmt.Errorf("fetching %s %q: %w", kind, key, err)
}

func toSkills(skills []hrflow.Skill) []Skill {
	converted := make([]Skill, 0, len(skills))
	for _, skill := range skills {
		converted = append(converted, Skill{Name: skill.Name})
	}
	return converted
}

func firstNameOr(profile *hrflow.Profile, fallback string) string {
	if name := strings.TrimSpace(profile.Info.FirstName); name != "" {
		return name
	}
	if fallback != "" {
		return fallback
	}
	return "Candidate"
}
