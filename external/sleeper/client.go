package sleeper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/itbasis/go-clock"
	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/resilience"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://api.sleeper.app"
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

var errSleeperTransient = crerr.New("sleeper transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Clock          clock.Clock
}

// Client reads league metadata and weekly matchups from the public Sleeper
// API. It never retries and never caches.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
}

var _ league.Provider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger.Named("sleeper"),
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker, cfg.Clock),
	}
}

func (c *Client) GetLeague(ctx context.Context, leagueID string) (league.Summary, error) {
	path := "/v1/league/" + url.PathEscape(leagueID)

	var payload *leaguePayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return league.Summary{}, err
	}
	if payload == nil {
		return league.Summary{}, fmt.Errorf("%w: sleeper returned no league for id %q", usecase.ErrNotFound, leagueID)
	}

	return payload.toSummary(), nil
}

func (c *Client) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error) {
	path := "/v1/league/" + url.PathEscape(leagueID) + "/matchups/" + strconv.Itoa(week)

	var payload []matchupPayload
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}

	out := make([]league.Matchup, 0, len(payload))
	for _, item := range payload {
		out = append(out, item.toMatchup())
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	err := c.breaker.Execute(func() error {
		return c.doJSON(ctx, path, target)
	}, isCircuitFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "sleeper circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return fmt.Errorf("%w: sleeper is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return err
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return crerr.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.WarnContext(ctx, "sleeper request failed", "path", path, "error", err)
		return crerr.Mark(crerr.Wrap(err, "send request"), errSleeperTransient)
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, maxBodyBytes)); err != nil {
		return crerr.Mark(crerr.Wrap(err, "read response body"), errSleeperTransient)
	}

	c.logger.DebugContext(ctx, "sleeper response",
		"path", path,
		"status", resp.StatusCode,
		"bytes", buf.Len(),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.WarnContext(ctx, "sleeper non-2xx response", "path", path, "status", resp.StatusCode)
		statusErr := fmt.Errorf("%w: sleeper status=%d body=%s", usecase.ErrNotFound, resp.StatusCode, abbreviateBody(buf.B))
		if isRetryableStatus(resp.StatusCode) {
			return crerr.Mark(statusErr, errSleeperTransient)
		}
		return statusErr
	}

	// ConfigStd copies strings, so decoded values never alias the pooled buffer.
	if err := sonic.ConfigStd.Unmarshal(buf.B, target); err != nil {
		return crerr.Wrap(err, "decode sleeper payload")
	}

	return nil
}

func isCircuitFailure(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return crerr.Is(err, errSleeperTransient)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	body := strings.TrimSpace(string(raw))
	if len(body) <= limit {
		return body
	}
	return body[:limit] + "..."
}
