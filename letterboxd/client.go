package letterboxd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// browserHeaders is the fixed header set sent with every request so the site
// treats the client as an ordinary browser.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
	"Cache-Control":   "no-cache",
	"Pragma":          "no-cache",
}

// retryableStatus is the set of response codes treated as transient. Other
// 4xx responses are application errors and are never retried.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client wraps HTTP access to Letterboxd with retry, pacing and extraction.
// The underlying connection pool is safe to share across concurrent
// watchlist retrievals.
type Client struct {
	baseURL   string
	http      *resty.Client
	pageDelay time.Duration
	logger    zerolog.Logger
}

// NewClient creates a new Letterboxd client.
func NewClient(baseURL string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("letterboxd base URL is required")
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := resty.New().
		SetTimeout(options.timeout).
		SetRetryCount(options.maxRetries - 1). // resty counts retries after the initial attempt
		SetRetryWaitTime(options.retryWait).
		SetRetryMaxWaitTime(options.retryWait * 8).
		SetHeaders(browserHeaders).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				// Connection-level failure or timeout.
				return true
			}
			return retryableStatus[r.StatusCode()]
		})

	if options.cloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	return &Client{
		baseURL:   baseURL,
		http:      httpClient,
		pageDelay: options.pageDelay,
		logger:    logger,
	}, nil
}

// Ping checks that the Letterboxd base URL is reachable.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get(c.baseURL + "/")
	if err != nil {
		return &FetchError{URL: c.baseURL + "/", Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return &FetchError{URL: c.baseURL + "/", StatusCode: resp.StatusCode()}
	}
	return nil
}

// ProfileExists verifies that the username resolves to an existing public
// profile. It runs once before pagination so a nonexistent profile does not
// burn the full retry budget on every page.
func (c *Client) ProfileExists(ctx context.Context, username string) error {
	profileURL := fmt.Sprintf("%s/%s/", c.baseURL, username)

	resp, err := c.http.R().SetContext(ctx).Get(profileURL)
	if err != nil {
		return &FetchError{URL: profileURL, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Debug().Str("username", username).Int("status", resp.StatusCode()).
			Msg("Profile check failed")
		return ErrProfileNotFound
	}
	return nil
}

// fetchDocument retrieves a single page and parses it into a goquery
// document. Retry policy lives entirely in the resty client; a non-200 here
// means the budget is already exhausted.
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode()}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}
