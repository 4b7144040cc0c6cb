// Package metrics describes the Librato metrics API client: where it
// reports, with which credentials and under which source and prefix.
package metrics

import "strings"

// DefaultAPIEndpoint is the Librato metrics API used when no endpoint is configured.
const DefaultAPIEndpoint = "https://metrics-api.librato.com"

// Credentials identify the Librato account metrics are reported to.
type Credentials struct {
	User  string
	Token string
}

// Complete reports whether both user and token are present.
func (c Credentials) Complete() bool {
	return c.User != "" && c.Token != ""
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides DefaultAPIEndpoint. Blank values are ignored.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint = strings.TrimSpace(endpoint); endpoint != "" {
			c.endpoint = strings.TrimRight(endpoint, "/")
		}
	}
}

// WithCredentials sets the account credentials.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// WithSource sets the source metrics are attributed to.
func WithSource(source string) Option {
	return func(c *Client) {
		c.source = source
	}
}

// Client holds the reporting target for metric submissions.
type Client struct {
	endpoint string
	creds    Credentials
	source   string
	prefix   string
}

// NewClient returns a Client pointed at DefaultAPIEndpoint unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{endpoint: DefaultAPIEndpoint}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIEndpoint returns the base URL of the metrics API.
func (c *Client) APIEndpoint() string {
	return c.endpoint
}

// MetricsURL returns the gauge submission URL.
func (c *Client) MetricsURL() string {
	return c.endpoint + "/v1/metrics"
}

// Credentials returns the configured account credentials.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Source returns the configured source, empty when unset.
func (c *Client) Source() string {
	return c.source
}

// Prefix returns the current metric name prefix.
func (c *Client) Prefix() string {
	return c.prefix
}

// SetPrefix replaces the metric name prefix.
func (c *Client) SetPrefix(prefix string) {
	c.prefix = prefix
}
