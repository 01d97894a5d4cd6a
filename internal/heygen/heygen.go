package heygen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/farewelly/farewelly/internal/utils"
	"go.uber.org/zap"
)

const (
	apiURL = "https://api.heygen.com"

	generatePath = "/v2/video/generate"
	statusPath   = "/v1/video_status.get"
	avatarsPath  = "/v2/avatars"
	voicesPath   = "/v2/voices"

	// Hard limit of the rendering API for a spoken script.
	maxScriptLength = 1500

	defaultAvatarID = "Abigail_expressive_2024112501"
	defaultVoiceID  = "513b14b431b64a578c467c480dd0a9c3"

	defaultPollInterval = 5 * time.Second
	defaultPollAttempts = 60
)

var (
	// ErrNotConfigured is returned before any network call when no API key is set.
	ErrNotConfigured = errors.New("heygen api key is not configured")
	// ErrMissingVideoID is returned when a success response lacks the video identifier.
	ErrMissingVideoID = errors.New("no video_id in heygen response")
	// ErrTimeout is returned when the polling window is exhausted without a terminal status.
	ErrTimeout = errors.New("video generation timed out after the polling window")
)

// UpstreamError is a non-success HTTP response from the video API.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("heygen api error: %d - %s", e.StatusCode, e.Body)
}

// RenderFailedError carries the provider-supplied reason for a failed render.
type RenderFailedError struct {
	Reason string
}

func (e *RenderFailedError) Error() string {
	return fmt.Sprintf("heygen generation failed: %s", e.Reason)
}

// Client submits avatar-video renders and polls them to completion.
type Client struct {
	apiKey     string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string

	AvatarID string
	// VoiceID pins a voice for every render. When empty, a voice matching
	// the script language is resolved from the provider catalog.
	VoiceID string

	// Polling knobs are fixed in production and overridable in tests.
	PollInterval time.Duration
	PollAttempts int
}

func New(logger *zap.Logger, apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		logger: logger,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		AvatarID:     defaultAvatarID,
		PollInterval: defaultPollInterval,
		PollAttempts: defaultPollAttempts,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

// Submit starts a render of the given script and returns the provider-issued
// video identifier. Scripts longer than the provider limit are truncated.
// Submission is never retried; a failure is reported to the caller as is.
func (c *Client) Submit(ctx context.Context, script, language string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	script = TruncateScript(script)

	voiceID := c.VoiceID
	if voiceID == "" {
		voiceID = c.resolveVoice(ctx, language)
	}

	payload := map[string]any{
		"video_inputs": []map[string]any{{
			"character": map[string]any{
				"type":         "avatar",
				"avatar_id":    c.AvatarID,
				"avatar_style": "normal",
			},
			"voice": map[string]any{
				"type":       "text",
				"input_text": script,
				"voice_id":   voiceID,
				"speed":      1.0,
			},
			"background": map[string]any{
				"type":  "color",
				"value": "#1e293b",
			},
		}},
		"dimension": map[string]any{
			"width":  1280,
			"height": 720,
		},
		"aspect_ratio": "16:9",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting video render: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var response struct {
		Data struct {
			VideoID string `json:"video_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return "", fmt.Errorf("decoding heygen response: %w", err)
	}

	if response.Data.VideoID == "" {
		return "", ErrMissingVideoID
	}

	c.logger.Info("video render started",
		zap.String("video_id", response.Data.VideoID),
		zap.String("language", language),
		zap.Int("script_length", len(script)),
	)

	return response.Data.VideoID, nil
}

// Poll checks the render status at a fixed interval until it reaches a
// terminal state or the attempt ceiling is hit. Transport errors and
// unrecognized statuses are transient: the loop waits and tries again.
func (c *Client) Poll(ctx context.Context, videoID string) (string, error) {
	for attempt := 1; attempt <= c.PollAttempts; attempt++ {
		status, videoURL, reason, err := c.videoStatus(ctx, videoID)
		if err != nil {
			c.logger.Warn("video status check failed",
				zap.String("video_id", videoID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if err := utils.WaitFor(ctx, c.PollInterval); err != nil {
				return "", err
			}
			continue
		}

		switch status {
		case "completed":
			c.logger.Info("video render ready",
				zap.String("video_id", videoID),
				zap.String("video_url", videoURL),
			)
			return videoURL, nil
		case "failed":
			if reason == "" {
				reason = "unknown heygen error"
			}
			return "", &RenderFailedError{Reason: reason}
		case "processing", "pending":
			c.logger.Debug("video render in progress",
				zap.String("video_id", videoID),
				zap.String("status", status),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.PollAttempts),
			)
		default:
			c.logger.Warn("unrecognized video status, treating as transient",
				zap.String("video_id", videoID),
				zap.String("status", status),
			)
		}

		if err := utils.WaitFor(ctx, c.PollInterval); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w (%d attempts every %s)", ErrTimeout, c.PollAttempts, c.PollInterval)
}

// Generate is the submit-then-poll convenience used by the background task.
func (c *Client) Generate(ctx context.Context, script, language string) (string, error) {
	videoID, err := c.Submit(ctx, script, language)
	if err != nil {
		return "", err
	}

	return c.Poll(ctx, videoID)
}

// resolveVoice picks a catalog voice matching the script language. A catalog
// failure or an empty catalog falls back to the stock voice.
func (c *Client) resolveVoice(ctx context.Context, language string) string {
	voices, err := c.ListVoices(ctx)
	if err != nil {
		c.logger.Warn("listing voices failed, using the stock voice",
			zap.String("language", language),
			zap.Error(err),
		)
		return defaultVoiceID
	}

	if voiceID, ok := VoiceForLanguage(voices, language); ok {
		return voiceID
	}
	return defaultVoiceID
}

func (c *Client) videoStatus(ctx context.Context, videoID string) (status, videoURL, reason string, err error) {
	q := url.Values{}
	q.Set("video_id", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+statusPath, nil)
	if err != nil {
		return "", "", "", err
	}
	c.setHeaders(req)
	req.URL.RawQuery = q.Encode()

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var response struct {
		Data struct {
			Status   string `json:"status"`
			VideoURL string `json:"video_url"`
			Error    string `json:"error"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return "", "", "", fmt.Errorf("decoding status response: %w", err)
	}

	return response.Data.Status, response.Data.VideoURL, response.Data.Error, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}

// TruncateScript enforces the provider's script length limit.
func TruncateScript(script string) string {
	runes := []rune(script)
	if len(runes) <= maxScriptLength {
		return script
	}
	return string(runes[:maxScriptLength])
}
