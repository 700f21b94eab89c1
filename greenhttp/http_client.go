// Package greenhttp provides the HTTP client used for script downloads.
// One Client owns an ordered chain of protocol clients; a request is tried on
// each of them in turn, once, with no delay in between.
package greenhttp

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
	"golang.org/x/net/http2"

	"scriptfetch/internal/download/types"
	"scriptfetch/internal/utils"
)

// ErrUnknownProtocol is returned by NewClient for an unrecognized protocol name.
var ErrUnknownProtocol = errors.New("unknown protocol")

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %s for %s", e.Status, e.URL)
}

// AttemptError is the failure of a single attempt in the chain.
type AttemptError struct {
	Attempt  int // 1-based
	Protocol string
	Err      error
}

func (e *AttemptError) Error() string {
	return fmt.Sprintf("attempt %d (%s): %v", e.Attempt, e.Protocol, e.Err)
}

func (e *AttemptError) Unwrap() error {
	return e.Err
}

// Options configures a Client.
type Options struct {
	// Protocols is the attempt order. The first entry is the primary client;
	// every following entry is tried at most once after the previous failed.
	Protocols     []string
	MinTLSVersion uint16
	UserAgent     string
	ProxyURL      string
	Timeout       time.Duration // 0 = no overall timeout
}

// OptionsFromRuntime converts engine runtime settings.
func OptionsFromRuntime(rc *types.RuntimeConfig) Options {
	opts := Options{
		Protocols:     rc.GetProtocols(),
		MinTLSVersion: rc.GetMinTLSVersion(),
	}
	if rc != nil {
		opts.UserAgent = rc.UserAgent
		opts.ProxyURL = rc.ProxyURL
		opts.Timeout = rc.Timeout
	}
	return opts
}

type protocolClient struct {
	name   string
	client *http.Client
}

// Client is an HTTP client with a fixed attempt chain.
type Client struct {
	clients        []protocolClient
	userAgent      string
	http3Transport *http3.Transport
}

// Outcome describes how a Get went, successful or not.
type Outcome struct {
	Attempt  int    // attempt that succeeded, 0 if none did
	Protocol string // protocol of the successful attempt
	Failures []*AttemptError
}

// NewClient builds one protocol client per entry in opts.Protocols.
func NewClient(opts Options) (*Client, error) {
	protocols := opts.Protocols
	if len(protocols) == 0 {
		protocols = []string{types.ProtocolAuto, types.ProtocolHTTP1}
	}
	if opts.MinTLSVersion == 0 {
		opts.MinTLSVersion = types.DefaultMinTLSVersion
	}

	// Keep proxy handling explicit to avoid surprising env interactions.
	proxyFunc := http.ProxyFromEnvironment
	if opts.ProxyURL != "" {
		parsedURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", opts.ProxyURL, err)
		}
		proxyFunc = http.ProxyURL(parsedURL)
	}

	c := &Client{userAgent: opts.UserAgent}
	for _, name := range protocols {
		if name == types.ProtocolHTTP3 && opts.ProxyURL != "" {
			utils.Debug("HTTP/3 disabled because proxy is configured, using %s", types.ProtocolHTTP1)
			name = types.ProtocolHTTP1
		}

		var transport http.RoundTripper
		switch name {
		case types.ProtocolAuto, types.ProtocolHTTP2:
			t, err := buildHTTPTransport(opts.MinTLSVersion, proxyFunc, true)
			if err != nil {
				return nil, err
			}
			transport = t
		case types.ProtocolHTTP1:
			t, err := buildHTTPTransport(opts.MinTLSVersion, proxyFunc, false)
			if err != nil {
				return nil, err
			}
			transport = t
		case types.ProtocolHTTP3:
			if c.http3Transport == nil {
				c.http3Transport = buildHTTP3Transport(opts.MinTLSVersion)
			}
			transport = c.http3Transport
		default:
			c.Close()
			return nil, fmt.Errorf("%w %q", ErrUnknownProtocol, name)
		}

		c.clients = append(c.clients, protocolClient{
			name:   name,
			client: newHTTPClient(transport, opts.Timeout),
		})
	}

	for i := 1; i < len(c.clients); i++ {
		if c.clients[i].name == c.clients[i-1].name {
			utils.Debug("Warning: attempt %d repeats protocol %s, the fallback will not use a different client", i+1, c.clients[i].name)
		}
	}
	utils.Debug("Transport chain: %s (min TLS %s)", strings.Join(c.Protocols(), " -> "), tls.VersionName(opts.MinTLSVersion))
	return c, nil
}

// buildHTTPTransport returns a TCP transport. With http2 the transport
// negotiates h2 through ALPN; without it the transport is HTTP/1.1 only and
// never reuses connections, so a fallback always starts from a fresh dial.
func buildHTTPTransport(minTLS uint16, proxyFunc func(*http.Request) (*url.URL, error), enableHTTP2 bool) (*http.Transport, error) {
	transport := &http.Transport{
		MaxIdleConns: types.DefaultMaxIdleConns,
		Proxy:        proxyFunc,
		TLSClientConfig: &tls.Config{
			MinVersion: minTLS,
		},

		// Timeouts to prevent hung connections
		IdleConnTimeout:       types.DefaultIdleConnTimeout,
		TLSHandshakeTimeout:   types.DefaultTLSHandshakeTimeout,
		ExpectContinueTimeout: types.DefaultExpectContinueTimeout,

		DialContext: (&net.Dialer{
			Timeout:   types.DialTimeout,
			KeepAlive: types.KeepAliveDuration,
		}).DialContext,
	}

	if enableHTTP2 {
		if _, err := http2.ConfigureTransports(transport); err != nil {
			return nil, fmt.Errorf("configure http2: %w", err)
		}
		return transport, nil
	}

	transport.DisableKeepAlives = true
	transport.TLSNextProto = make(map[string]func(authority string, c *tls.Conn) http.RoundTripper)
	return transport, nil
}

func buildHTTP3Transport(minTLS uint16) *http3.Transport {
	// QUIC mandates TLS 1.3 regardless of the configured floor.
	if minTLS < tls.VersionTLS13 {
		minTLS = tls.VersionTLS13
	}
	return &http3.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: minTLS,
			NextProtos: []string{http3.NextProtoH3},
		},
		QUICConfig: &quic.Config{
			HandshakeIdleTimeout: types.DefaultTLSHandshakeTimeout,
			MaxIdleTimeout:       types.DefaultIdleConnTimeout,
			KeepAlivePeriod:      types.KeepAliveDuration,
		},
	}
}

func newHTTPClient(transport http.RoundTripper, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= types.DefaultMaxRedirects {
				return fmt.Errorf("stopped after %d redirects", types.DefaultMaxRedirects)
			}
			return nil
		},
	}
}

// Protocols returns the attempt chain in order.
func (c *Client) Protocols() []string {
	names := make([]string, 0, len(c.clients))
	for _, pc := range c.clients {
		names = append(names, pc.name)
	}
	return names
}

// Attempts returns the maximum number of attempts a Get makes.
func (c *Client) Attempts() int {
	return len(c.clients)
}

// Get issues GET url on each protocol client in order until one succeeds.
// sink consumes a 2xx response; an error from sink fails that attempt. The
// sink may run more than once, so it must start from scratch every call.
// notify, if set, is called after each failed attempt that will be followed
// by another one.
func (c *Client) Get(ctx context.Context, rawURL string, sink func(*http.Response) error, notify func(*AttemptError)) (*Outcome, error) {
	out := &Outcome{}
	if len(c.clients) == 0 {
		return out, errors.New("no protocol clients configured")
	}

	next := 0
	operation := func() error {
		pc := c.clients[next]
		next++

		err := c.do(ctx, pc, rawURL, sink)
		if err == nil {
			out.Attempt = next
			out.Protocol = pc.name
			return nil
		}

		attemptErr := &AttemptError{Attempt: next, Protocol: pc.name, Err: err}
		out.Failures = append(out.Failures, attemptErr)
		utils.Debug("GET %s failed on %s: %v", rawURL, pc.name, err)
		if ctx.Err() != nil {
			return backoff.Permanent(attemptErr)
		}
		return attemptErr
	}

	// One attempt per protocol client, no delay between them.
	policy := backoff.WithMaxRetries(&backoff.ZeroBackOff{}, uint64(len(c.clients)-1))
	err := backoff.RetryNotify(operation, policy, func(error, time.Duration) {
		if notify != nil && len(out.Failures) > 0 {
			notify(out.Failures[len(out.Failures)-1])
		}
	})
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		return out, err
	}
	return out, nil
}

// NewRequest builds a request carrying the client's User-Agent and any extra headers.
func (c *Client) NewRequest(ctx context.Context, method, rawURL string, headers map[string]string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for key, val := range headers {
		req.Header.Set(key, val)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, pc protocolClient, rawURL string, sink func(*http.Response) error) error {
	req, err := c.NewRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := pc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused by h2.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if sink == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return sink(resp)
}

// Close releases the HTTP/3 transport and idle TCP connections.
func (c *Client) Close() {
	if c == nil {
		return
	}
	for _, pc := range c.clients {
		pc.client.CloseIdleConnections()
	}
	if c.http3Transport != nil {
		if err := c.http3Transport.Close(); err != nil {
			utils.Debug("Error closing HTTP/3 transport: %v", err)
		}
	}
}
