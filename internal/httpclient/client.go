// Package httpclient builds the outbound HTTP clients used to talk to social platforms.
package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Options controls timeout and rate limiting for provider calls.
type Options struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	Transport         http.RoundTripper
}

// New returns an http.Client whose requests wait on a shared token bucket before being sent.
func New(opts Options) *http.Client {
	base := opts.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	var transport http.RoundTripper = base
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		transport = &RateLimitedTransport{
			base:    base,
			limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst),
		}
	}

	return &http.Client{Timeout: opts.Timeout, Transport: transport}
}

// RateLimitedTransport delays requests so provider quotas are not exhausted.
type RateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
