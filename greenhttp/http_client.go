// Package greenhttp wraps net/http with the transport settings the fetcher
// needs: per-phase timeouts instead of a whole-transfer deadline, default
// headers, and an optional HTTP/3 transport.
package greenhttp

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/http3"
)

// Options configures the HTTP client.
type Options struct {
	// Timeout bounds dialing, the TLS handshake and waiting for response
	// headers. It does not limit how long a body may take to arrive.
	Timeout time.Duration

	// UserAgent is sent unless a request sets its own.
	UserAgent string

	// HTTP3 routes requests over QUIC instead of TCP.
	HTTP3 bool
}

type HTTPClient struct {
	client    *http.Client
	userAgent string
	h3        *http3.Transport
}

func NewHTTPClient(opts Options) *HTTPClient {
	c := &HTTPClient{userAgent: opts.UserAgent}

	if opts.HTTP3 {
		c.h3 = &http3.Transport{
			QUICConfig: &quic.Config{
				HandshakeIdleTimeout: opts.Timeout,
				MaxIdleTimeout:       opts.Timeout,
			},
		}
		c.client = &http.Client{Transport: c.h3}
		return c
	}

	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 30 * time.Second,
	}
	c.client = &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   opts.Timeout,
			ResponseHeaderTimeout: opts.Timeout,
			IdleConnTimeout:       90 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}
	return c
}

// Close releases the QUIC transport, if any, and idle TCP connections.
func (c *HTTPClient) Close() error {
	c.client.CloseIdleConnections()
	if c.h3 != nil {
		return c.h3.Close()
	}
	return nil
}

func (c *HTTPClient) DoRequest(req *http.Request) (*http.Response, error) {
	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (c *HTTPClient) NewRequest(ctx context.Context, method, url string, headers map[string]string, body []byte) (*http.Request, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, rd)
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

func (c *HTTPClient) Do(ctx context.Context, method, url string, headers map[string]string) (*http.Response, error) {
	req, err := c.NewRequest(ctx, method, url, headers, nil)

	if err != nil {
		return nil, err
	}

	resp, err := c.DoRequest(req)

	if err != nil {
		return nil, err
	}

	return resp, nil
}
