package dataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	// DefaultClientID is the clientId sent when none is configured
	DefaultClientID = "php-client"

	defaultTimeout = 120 * time.Second

	authorizationHeader = "X-MT-Authorization"
	formContentType     = "application/x-www-form-urlencoded"
)

// Client represents a Movable Type Data API client
type Client struct {
	cfg     clientConfig
	http    *resty.Client
	logger  zerolog.Logger
	session Session
}

// New creates a new Data API client. Options are applied over the defaults
// (120s timeout, clientId "php-client"). Nothing is validated and no request
// is made until a method is called.
func New(username, password, baseURL string, opts ...Option) *Client {
	cfg := clientConfig{
		username: username,
		password: password,
		baseURL:  baseURL,
		clientID: DefaultClientID,
		timeout:  defaultTimeout,
		logger:   zerolog.Nop(),
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	var rc *resty.Client
	if cfg.httpClient != nil {
		rc = resty.NewWithClient(cfg.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(cfg.baseURL).
		SetTimeout(cfg.timeout).
		SetLogger(restyLogger{logger: cfg.logger}).
		SetDebug(cfg.debug)
	if cfg.proxy != "" {
		rc.SetProxy(cfg.proxy)
	}
	if cfg.userAgent != "" {
		rc.SetHeader("User-Agent", cfg.userAgent)
	}

	return &Client{
		cfg:    cfg,
		http:   rc,
		logger: cfg.logger,
	}
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.cfg.baseURL
}

// Session returns a copy of the current session state
func (c *Client) Session() Session {
	return c.session
}

// SetSession replaces the session state, e.g. with one restored from storage
func (c *Client) SetSession(s Session) {
	c.session = s
}

// withAccessToken attaches the access token header
func (c *Client) withAccessToken(r *resty.Request) *resty.Request {
	return r.SetHeader(authorizationHeader, "MTAuth accessToken="+c.session.AccessToken)
}

// authorized attaches the access token and the form content type, the
// header pair every authenticated call carries
func (c *Client) authorized(r *resty.Request) *resty.Request {
	return c.withAccessToken(r).SetHeader("Content-Type", formContentType)
}

// execute sends the request. Only transport failures are returned as errors;
// the caller decides what an HTTP status means.
func (c *Client) execute(ctx context.Context, req *resty.Request, method, path string) (*resty.Response, error) {
	resp, err := req.SetContext(ctx).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("elapsed", resp.Time()).
		Msg("Data API request")

	return resp, nil
}

// do executes req and normalizes the response: 4xx becomes an error Result,
// 5xx a StatusError, anything else is decoded.
func (c *Client) do(ctx context.Context, req *resty.Request, method, path string) (Result, error) {
	resp, err := c.execute(ctx, req, method, path)
	if err != nil {
		return nil, err
	}

	code := resp.StatusCode()
	switch {
	case code >= 400 && code < 500:
		c.logger.Debug().Int("status", code).Str("path", path).Msg("Data API client error")
		return errorResult(dumpResponse(resp)), nil
	case code >= 500:
		return nil, newStatusError(resp)
	}

	return decodeResult(resp.Body())
}

// decodeResult parses a JSON object body. An empty body yields an empty Result.
func decodeResult(body []byte) (Result, error) {
	result := Result{}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}
