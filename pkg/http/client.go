package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"
)

// TransportFunc wraps a RoundTripper, outermost last.
type TransportFunc func(http.RoundTripper) http.RoundTripper

// Timeouts groups the deadlines applied by the client. A zero Request or
// ResponseHeader leaves requests without a deadline, so a slow answer is
// waited for indefinitely.
type Timeouts struct {
	Dial           time.Duration
	KeepAlive      time.Duration
	TLSHandshake   time.Duration
	ResponseHeader time.Duration
	IdleConn       time.Duration
	Request        time.Duration
}

func defaultTimeouts() Timeouts {
	return Timeouts{
		Dial:         30 * time.Second,
		KeepAlive:    90 * time.Second,
		TLSHandshake: 10 * time.Second,
		IdleConn:     90 * time.Second,
	}
}

type clientConfig struct {
	timeouts            Timeouts
	maxIdleConnsPerHost int
	insecureSkipVerify  bool
	wrappers            []TransportFunc
}

func newClient(opts ...HttpOpts) *http.Client {
	cfg := &clientConfig{
		timeouts:            defaultTimeouts(),
		maxIdleConnsPerHost: 4,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	dialer := &net.Dialer{
		Timeout:   cfg.timeouts.Dial,
		KeepAlive: cfg.timeouts.KeepAlive,
	}

	// Cloned so proxy settings from the environment still apply.
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = dialer.DialContext
	base.MaxIdleConnsPerHost = cfg.maxIdleConnsPerHost
	base.TLSHandshakeTimeout = cfg.timeouts.TLSHandshake
	base.ResponseHeaderTimeout = cfg.timeouts.ResponseHeader
	base.IdleConnTimeout = cfg.timeouts.IdleConn
	if cfg.insecureSkipVerify {
		base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	var transport http.RoundTripper = base
	for _, wrap := range cfg.wrappers {
		transport = wrap(transport)
	}

	return &http.Client{
		Timeout:   cfg.timeouts.Request,
		Transport: transport,
	}
}
