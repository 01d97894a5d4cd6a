package heygen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Avatar is a renderable character offered by the provider.
type Avatar struct {
	AvatarID   string `json:"avatar_id"`
	AvatarName string `json:"avatar_name"`
	Gender     string `json:"gender"`
	PreviewURL string `json:"preview_image_url"`
}

// Voice is a speech voice offered by the provider.
type Voice struct {
	VoiceID  string `json:"voice_id"`
	Language string `json:"language"`
	Name     string `json:"name"`
}

var languageNames = map[string]string{
	"en": "english",
	"fr": "french",
	"es": "spanish",
	"de": "german",
}

// ListAvatars fetches the available avatars. An unconfigured client returns
// an empty list rather than an error; avatars are a browsing convenience.
func (c *Client) ListAvatars(ctx context.Context) ([]Avatar, error) {
	if !c.Configured() {
		return []Avatar{}, nil
	}

	var response struct {
		Data struct {
			Avatars []Avatar `json:"avatars"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, avatarsPath, &response); err != nil {
		return nil, fmt.Errorf("fetching avatars: %w", err)
	}

	return response.Data.Avatars, nil
}

// ListVoices fetches the available voices.
func (c *Client) ListVoices(ctx context.Context) ([]Voice, error) {
	if !c.Configured() {
		return []Voice{}, nil
	}

	var response struct {
		Data struct {
			Voices []Voice `json:"voices"`
		} `json:"data"`
	}
	if err := c.getJSON(ctx, voicesPath, &response); err != nil {
		return nil, fmt.Errorf("fetching voices: %w", err)
	}

	return response.Data.Voices, nil
}

// VoiceForLanguage picks the first voice matching the requested language,
// falling back to the first available voice.
func VoiceForLanguage(voices []Voice, language string) (string, bool) {
	if len(voices) == 0 {
		return "", false
	}

	target := languageNames[strings.ToLower(strings.TrimSpace(language))]
	if target == "" {
		target = "english"
	}

	for _, voice := range voices {
		if strings.Contains(strings.ToLower(voice.Language), target) {
			return voice.VoiceID, true
		}
	}

	return voices[0].VoiceID, true
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return json.Unmarshal(data, target)
}
