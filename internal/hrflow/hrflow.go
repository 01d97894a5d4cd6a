package hrflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	apiURL    = "https://api.hrflow.ai/v1"
	userAgent = "farewelly/backend"
	// Max entities requested from storing endpoints.
	listLimit = "20"
)

// Client talks to the HrFlow storing and scoring APIs. Profiles and jobs are
// assumed to already exist on the provider side; no parsing is done here.
type Client struct {
	// ctx used only for http requests right now
	ctx        context.Context
	apiKey     string
	userEmail  string
	sourceKey  string
	boardKey   string
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// Keys identifies the provider-side source (profiles) and board (jobs).
type Keys struct {
	SourceKey string
	BoardKey  string
}

func New(ctx context.Context, logger *zap.Logger, apiKey, userEmail string, keys Keys) *Client {
	return &Client{
		ctx:       ctx,
		apiKey:    apiKey,
		userEmail: userEmail,
		sourceKey: keys.SourceKey,
		boardKey:  keys.BoardKey,
		APIURL:    apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// UpstreamError is a non-success response reported by the provider.
type UpstreamError struct {
	Code    int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("hrflow responded with code %d: %s", e.Code, e.Message)
}

// envelope is the common HrFlow response wrapper.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// getData makes a GET request and returns the payload of the response
// envelope. A provider code other than 200 is returned as *UpstreamError.
func (c *Client) getData(path string, q url.Values) (any, error) {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, c.APIURL+path, nil)
	if err != nil {
		return nil, err
	}

	c.setHeaders(req)
	if q != nil {
		req.URL.RawQuery = q.Encode()
	}

	c.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var response envelope
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("decoding hrflow response: %w", err)
	}

	if response.Code != http.StatusOK {
		return nil, &UpstreamError{Code: response.Code, Message: response.Message}
	}

	return response.Data, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("X-USER-EMAIL", c.userEmail)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Content-Type", "application/json")
}

// keysParam renders a key list the way HrFlow expects it: a JSON array in a
// single query parameter.
func keysParam(keys ...string) string {
	encoded, _ := json.Marshal(keys)
	return string(encoded)
}
