package hrflow

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	storingProfilesPath = "/profiles/storing"
	storingProfilePath  = "/profile/indexing"

	// Listing falls back to the summary when a profile carries no name.
	summaryNameLimit = 50
)

// ProfileSummary is the reshaped listing entry returned to API consumers.
type ProfileSummary struct {
	Key   string `json:"key"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Profile is a stored candidate profile as the provider returns it.
type Profile struct {
	Key          string      `json:"key"`
	Info         ProfileInfo `json:"info"`
	Skills       []Skill     `json:"skills"`
	TextLanguage string      `json:"text_language"`
}

type ProfileInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Summary   string `json:"summary"`
}

// FullName builds a display name from first and last name, falling back to
// the beginning of the summary and finally to "Candidate".
func (p *Profile) FullName() string {
	name := strings.TrimSpace(p.Info.FirstName + " " + p.Info.LastName)
	if name != "" {
		return name
	}

	summary := strings.TrimSpace(p.Info.Summary)
	if summary != "" {
		runes := []rune(summary)
		if len(runes) > summaryNameLimit {
			return string(runes[:summaryNameLimit])
		}
		return summary
	}

	return "Candidate"
}

// Language returns the detected profile language, defaulting to english.
func (p *Profile) Language() string {
	if p.TextLanguage == "" {
		return "en"
	}
	return p.TextLanguage
}

// ListProfiles fetches candidate profiles from the configured source and
// reshapes them for listing.
func (c *Client) ListProfiles() ([]ProfileSummary, error) {
	q := url.Values{}
	q.Set("source_keys", keysParam(c.sourceKey))
	q.Set("limit", listLimit)
	q.Set("return_profile", "true")

	data, err := c.getData(storingProfilesPath, q)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles: %w", err)
	}

	var profiles []*Profile
	cfg := &mapstructure.DecoderConfig{
		Result:  &profiles,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding profiles: %w", err)
	}

	summaries := make([]ProfileSummary, 0, len(profiles))
	for _, profile := range profiles {
		summaries = append(summaries, ProfileSummary{
			Key:   profile.Key,
			Name:  profile.FullName(),
			Email: profile.Info.Email,
		})
	}

	return summaries, nil
}

// GetProfile fetches a single profile by key from the configured source.
func (c *Client) GetProfile(key string) (*Profile, error) {
	q := url.Values{}
	q.Set("source_key", c.sourceKey)
	q.Set("key", key)

	data, err := c.getData(storingProfilePath, q)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", key, err)
	}

	var profile *Profile
	cfg := &mapstructure.DecoderConfig{
		Result:  &profile,
		TagName: "json",
	}
	decoder, _ := mapstructure.NewDecoder(cfg)
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", key, err)
	}

	return profile, nil
}
