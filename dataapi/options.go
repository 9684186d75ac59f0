package dataapi

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Option configures a Client.
type Option func(*clientConfig)

// clientConfig holds the immutable configuration of a Client.
type clientConfig struct {
	username   string
	password   string
	baseURL    string
	clientID   string
	timeout    time.Duration
	proxy      string
	userAgent  string
	debug      bool
	httpClient *http.Client
	logger     zerolog.Logger
	fs         afero.Fs
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientConfig) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithProxy routes requests through the given proxy URL.
func WithProxy(proxyURL string) Option {
	return func(o *clientConfig) {
		o.proxy = proxyURL
	}
}

// WithHTTPClient sets the underlying HTTP client. A non-zero Timeout on the
// client replaces the current timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientConfig) {
		o.httpClient = client
		if client != nil && client.Timeout > 0 {
			o.timeout = client.Timeout
		}
	}
}

// WithDebug enables request/response tracing through the client logger.
func WithDebug(debug bool) Option {
	return func(o *clientConfig) {
		o.debug = debug
	}
}

// WithLogger sets the logger used for diagnostics and debug tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientConfig) {
		o.logger = logger
	}
}

// WithClientID overrides the clientId sent to the authentication and token
// endpoints.
func WithClientID(clientID string) Option {
	return func(o *clientConfig) {
		if clientID != "" {
			o.clientID = clientID
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientConfig) {
		o.userAgent = userAgent
	}
}

// WithFs sets the filesystem UploadFile reads local files from.
func WithFs(fs afero.Fs) Option {
	return func(o *clientConfig) {
		if fs != nil {
			o.fs = fs
		}
	}
}
