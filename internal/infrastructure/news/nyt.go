// Package news fetches top-story metadata from the news provider.
package news

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/orris-inc/newsdigest/internal/domain/digest"
	apperrors "github.com/orris-inc/newsdigest/internal/shared/errors"
	"github.com/orris-inc/newsdigest/internal/shared/logger"
	"github.com/orris-inc/newsdigest/internal/shared/utils/logutil"
)

const (
	ProviderNYT    = "nyt"
	DefaultBaseURL = "https://api.nytimes.com/svc/topstories/v2"

	defaultRequestTimeout = 30 * time.Second
	// Top stories payloads for a busy section run a few hundred KB.
	maxResponseSize = 4 << 20
	maxErrorBodyLog = 200
)

type NYTConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// topStoriesResponse is the subset of the Top Stories API payload we use.
type topStoriesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Section  string `json:"section"`
		Title    string `json:"title"`
		Abstract string `json:"abstract"`
		URL      string `json:"url"`
		Byline   string `json:"byline"`
	} `json:"results"`
}

// StatusError is a non-success HTTP answer other than 429.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// NYTClient reads the New York Times Top Stories API.
type NYTClient struct {
	config     NYTConfig
	httpClient *http.Client
	retrier    *Retrier
	policy     *bluemonday.Policy
	logger     logger.Interface
}

func NewNYTClient(config NYTConfig, retrier *Retrier, logger logger.Interface) *NYTClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultRequestTimeout
	}
	return &NYTClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retrier: retrier,
		policy:  bluemonday.StrictPolicy(),
		logger:  logger,
	}
}

// WithHTTPClient swaps the transport, mainly for tests.
func (c *NYTClient) WithHTTPClient(client *http.Client) *NYTClient {
	c.httpClient = client
	return c
}

// TopStories returns at most limit stories for one section in provider order,
// retrying 429 answers through the retrier.
func (c *NYTClient) TopStories(ctx context.Context, section string, limit int) ([]digest.Story, error) {
	if limit <= 0 {
		return []digest.Story{}, nil
	}

	var stories []digest.Story
	err := c.retrier.Do(ctx, "top stories "+section, func(ctx context.Context) error {
		var err error
		stories, err = c.fetchOnce(ctx, section, limit)
		return err
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.NewFetchError("failed to fetch top stories", err, section)
	}
	return stories, nil
}

func (c *NYTClient) sectionURL(section string) (string, error) {
	endpoint, err := url.JoinPath(c.config.BaseURL, section+".json")
	if err != nil {
		return "", fmt.Errorf("failed to build url: %w", err)
	}
	return endpoint + "?" + url.Values{"api-key": {c.config.APIKey}}.Encode(), nil
}

func (c *NYTClient) fetchOnce(ctx context.Context, section string, limit int) ([]digest.Story, error) {
	endpoint, err := c.sectionURL(section)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch section: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyLog*4))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       logutil.TruncateForLog(string(body), maxErrorBodyLog),
		}
	}

	var data topStoriesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if data.Status != "OK" || len(data.Results) == 0 {
		c.logger.Warnw("provider returned no stories",
			"section", section,
			"status", data.Status,
		)
		return []digest.Story{}, nil
	}

	stories := make([]digest.Story, 0, min(limit, len(data.Results)))
	for _, r := range data.Results {
		if len(stories) >= limit {
			break
		}
		story, err := digest.NewStory(section, c.clean(r.Title), c.clean(r.Abstract), r.URL, c.clean(r.Byline))
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return stories, nil
}

// clean strips any markup the provider left in a text field.
func (c *NYTClient) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(s)))
}
