package hound

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// DefaultTimeout is the per-request network timeout.
const DefaultTimeout = 10 * time.Second

// Client performs HTTP calls against a Hound server's JSON API.
type Client struct {
	httpc     *http.Client
	searchURL string
	reposURL  string
	logger    *slog.Logger
}

// Options configures a Client. The zero value gives sensible defaults.
type Options struct {
	Timeout time.Duration // per-request timeout (default DefaultTimeout)
	Logger  *slog.Logger
}

// NewClient creates a client for the given server base URL,
// e.g. "http://hound.example.com:6080".
func NewClient(endpoint string, opts Options) *Client {
	endpoint = strings.TrimRight(endpoint, "/")
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpc:     &http.Client{Timeout: timeout},
		searchURL: endpoint + "/api/v1/search",
		reposURL:  endpoint + "/api/v1/repos",
		logger:    logger,
	}
}

// Search fetches one window of results. The "search exceeds limit"
// rejection comes back as Outcome.TooMany, not as an error; every other
// server-reported error is fatal.
func (c *Client) Search(ctx context.Context, q Query, w Window) (Outcome, error) {
	params := url.Values{}
	params.Set("repos", q.Repos)
	params.Set("rng", w.String())
	params.Set("files", q.PathPattern)
	if q.IgnoreCase {
		params.Set("i", "true")
	} else {
		params.Set("i", "")
	}
	params.Set("q", q.Pattern)

	body, err := c.get(ctx, c.searchURL, params)
	if err != nil {
		return Outcome{}, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Outcome{}, &ProtocolError{Body: string(body)}
	}
	if strings.Contains(resp.Error, tooManyMarker) {
		c.logger.Debug("window rejected as too large", "rng", w.String())
		return Outcome{TooMany: true}, nil
	}
	if resp.Error != "" {
		return Outcome{}, &ServerError{Message: resp.Error}
	}
	return Outcome{Results: resp.Results}, nil
}

// ListRepos returns the sorted ids of all repositories the server
// indexes. Only the keys of the listing are consumed.
func (c *Client) ListRepos(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.reposURL, nil)
	if err != nil {
		return nil, err
	}

	var listing map[string]json.RawMessage
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, &ProtocolError{Body: string(body)}
	}
	if raw, ok := listing["Error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return nil, &ServerError{Message: msg}
		}
	}

	repos := make([]string, 0, len(listing))
	for name := range listing {
		repos = append(repos, name)
	}
	sort.Strings(repos)
	return repos, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	u := endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: endpoint, Err: err}
	}
	c.logger.Debug("api call", "url", endpoint, "params", params.Encode(), "elapsed", time.Since(start))
	return body, nil
}
