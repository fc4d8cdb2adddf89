package holidays

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"midnightfront/pkg/backoff"
	"midnightfront/pkg/countdown"
)

const DefaultURL = "https://date.nager.at/api/v3/NextPublicHolidaysWorldwide"

// ErrUnavailable wraps every failure to produce a holiday list.
var ErrUnavailable = errors.New("holidays unavailable")

// Holiday is one upcoming public holiday as served by Nager.Date.
type Holiday struct {
	Date        string `json:"date"`
	LocalName   string `json:"localName"`
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
	Global      bool   `json:"global"`
}

func (h Holiday) Flag() string {
	return countdown.FlagEmoji(h.CountryCode)
}

type Client struct {
	url     string
	client  *http.Client
	timeout time.Duration
	limit   int
	retries int
	backoff backoff.Policy
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.client = c }
}

// WithTimeout bounds each individual request.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.timeout = d }
}

// WithLimit keeps only the first n holidays. n <= 0 keeps all of them.
func WithLimit(n int) Option {
	return func(cl *Client) { cl.limit = n }
}

// WithRetries sets how many times a failed fetch is retried.
func WithRetries(n int) Option {
	return func(cl *Client) { cl.retries = n }
}

func WithBackoff(p backoff.Policy) Option {
	return func(cl *Client) { cl.backoff = p }
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:     url,
		client:  &http.Client{},
		timeout: 10 * time.Second,
		limit:   10,
		retries: 2,
		backoff: backoff.Policy{Initial: 500 * time.Millisecond, Max: 5 * time.Second, Multiplier: 2},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Upcoming fetches the next public holidays worldwide. On success the list is
// never nil, even when the upstream has nothing to announce.
func (c *Client) Upcoming(ctx context.Context) ([]Holiday, error) {
	var err error
	for attempt := 0; ; attempt++ {
		var list []Holiday
		list, err = c.fetch(ctx)
		if err == nil {
			if list == nil {
				list = []Holiday{}
			}
			if c.limit > 0 && len(list) > c.limit {
				list = list[:c.limit]
			}
			return list, nil
		}
		if attempt >= c.retries || ctx.Err() != nil {
			break
		}
		slog.Warn("holidays fetch failed, retrying", "attempt", attempt+1, "delay", c.backoff.Delay(attempt), "err", err)
		if werr := c.backoff.Wait(ctx, attempt); werr != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func (c *Client) fetch(ctx context.Context) ([]Holiday, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var list []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}
	return list, nil
}
