package analysis

import (
	"sort"
	"strings"
)

const (
	// RequiredLevel is the fixed proficiency a job demands for its skills.
	RequiredLevel = 70
	// defaultCandidateLevel stands in when the provider supplies no numeric
	// proficiency for a skill the candidate has.
	defaultCandidateLevel = 65
	// bonusCandidateLevel is assigned to skills the candidate brings beyond
	// the job requirements.
	bonusCandidateLevel = 75

	maxSkillItems = 5
)

// Skill is an analyzer input: a named skill with an optional proficiency.
// A non-positive Level means the proficiency is unknown.
type Skill struct {
	Name  string
	Level int
}

// SkillItem is a classified skill in the analysis output.
type SkillItem struct {
	Name           string `json:"name"`
	CandidateLevel int    `json:"candidateLevel"`
	RequiredLevel  int    `json:"requiredLevel"`
}

// AnalyzeSkills compares candidate skills against job requirements.
//
// Every required skill is classified as exactly one of gap or strength; skills
// the candidate has beyond the requirements become bonus strengths. Gaps are
// sorted by descending deficit, strengths by descending candidate level, and
// both lists are capped at five entries. Matching is case-insensitive.
func AnalyzeSkills(candidate, required []Skill) (gaps, strengths []SkillItem) {
	have := make(map[string]Skill, len(candidate))
	for _, skill := range candidate {
		key := strings.ToLower(skill.Name)
		if _, ok := have[key]; !ok {
			have[key] = skill
		}
	}

	requiredKeys := make(map[string]bool, len(required))
	for _, req := range required {
		key := strings.ToLower(req.Name)
		if req.Name == "" || requiredKeys[key] {
			continue
		}
		requiredKeys[key] = true

		owned, ok := have[key]
		if !ok {
			gaps = append(gaps, SkillItem{Name: req.Name, CandidateLevel: 0, RequiredLevel: RequiredLevel})
			continue
		}

		level := owned.Level
		if level <= 0 {
			level = defaultCandidateLevel
		}

		item := SkillItem{Name: req.Name, CandidateLevel: level, RequiredLevel: RequiredLevel}
		if level >= RequiredLevel {
			strengths = append(strengths, item)
		} else {
			gaps = append(gaps, item)
		}
	}

	for _, skill := range candidate {
		key := strings.ToLower(skill.Name)
		if skill.Name == "" || requiredKeys[key] {
			continue
		}
		// A duplicate candidate skill should appear once.
		requiredKeys[key] = true

		level := skill.Level
		if level <= 0 {
			level = bonusCandidateLevel
		}
		strengths = append(strengths, SkillItem{Name: skill.Name, CandidateLevel: level, RequiredLevel: 0})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].RequiredLevel-gaps[i].CandidateLevel > gaps[j].RequiredLevel-gaps[j].CandidateLevel
	})
	sort.SliceStable(strengths, func(i, j int) bool {
		return strengths[i].CandidateLevel > strengths[j].CandidateLevel
	})

	if len(gaps) > maxSkillItems {
		gaps = gaps[:maxSkillItems]
	}
	if len(strengths) > maxSkillItems {
		strengths = strengths[:maxSkillItems]
	}

	return gaps, strengths
}

// skillNames renders a comma separated list of skill names for prompts.
func skillNames(items []SkillItem, limit int) string {
	if limit > len(items) {
		limit = len(items)
	}

	names := make([]string, 0, limit)
	for _, item := range items[:limit] {
		names = append(names, item.Name)
	}

	return strings.Join(names, ", ")
}
