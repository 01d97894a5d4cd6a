package hrflow

import (
	"math"
	"net/url"

	"go.uber.org/zap"
)

const (
	scoringPath = "/profiles/scoring"

	// DefaultScore is returned whenever the scoring provider cannot supply a
	// prediction for the requested pair.
	DefaultScore = 0.5
)

// ScoreProfile asks the scoring API how well a profile matches a job and
// returns the match probability rounded to two decimals.
//
// Scoring is enrichment: any failure, transport or provider side, degrades to
// DefaultScore with a logged warning instead of failing the caller.
func (c *Client) ScoreProfile(profileKey, jobKey string) float64 {
	q := url.Values{}
	q.Set("source_keys", keysParam(c.sourceKey))
	q.Set("board_key", c.boardKey)
	q.Set("job_key", jobKey)
	q.Set("limit", "100")

	data, err := c.getData(scoringPath, q)
	if err != nil {
		c.logger.Warn("scoring request failed, using default score",
			zap.String("profile_key", profileKey),
			zap.String("job_key", jobKey),
			zap.Float64("default_score", DefaultScore),
			zap.Error(err),
		)
		return DefaultScore
	}

	score, ok := extractScore(data, profileKey)
	if !ok {
		c.logger.Warn("no prediction for profile, using default score",
			zap.String("profile_key", profileKey),
			zap.String("job_key", jobKey),
			zap.Float64("default_score", DefaultScore),
		)
		return DefaultScore
	}

	return math.Round(score*100) / 100
}

// extractScore digs the prediction pair for the given profile out of the
// loosely typed scoring payload. Predictions are positional: the i-th
// prediction belongs to the i-th profile.
func extractScore(data any, profileKey string) (float64, bool) {
	payload, ok := data.(map[string]any)
	if !ok {
		return 0, false
	}

	predictions, _ := payload["predictions"].([]any)
	profiles, _ := payload["profiles"].([]any)

	for i, entry := range profiles {
		profile, ok := entry.(map[string]any)
		if !ok || profile["key"] != profileKey {
			continue
		}
		if i >= len(predictions) {
			return 0, false
		}

		pair, ok := predictions[i].([]any)
		if !ok || len(pair) < 2 {
			return 0, false
		}

		score, ok := pair[1].(float64)
		return score, ok
	}

	return 0, false
}
