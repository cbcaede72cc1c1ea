package http

// HttpOpts tunes the *http.Client built for a Connector.
type HttpOpts func(*clientConfig)

// WithTimeouts replaces the default deadlines. Zero fields keep their
// zero meaning, they are not filled from the defaults.
func WithTimeouts(t Timeouts) HttpOpts {
	return func(c *clientConfig) {
		c.timeouts = t
	}
}

func WithMaxIdleConnsPerHost(n int) HttpOpts {
	return func(c *clientConfig) {
		if n > 0 {
			c.maxIdleConnsPerHost = n
		}
	}
}

func WithInsecureSkipVerify(skip bool) HttpOpts {
	return func(c *clientConfig) {
		c.insecureSkipVerify = skip
	}
}

// WithTransport adds a RoundTripper wrapper. Later wrappers see the request first.
func WithTransport(transport TransportFunc) HttpOpts {
	return func(c *clientConfig) {
		c.wrappers = append(c.wrappers, transport)
	}
}
