package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"
)

const contentTypeJSON = "application/json"

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

// BaseURL returns the URL every endpoint is resolved against.
func (c *Connector) BaseURL() string {
	return c.baseURL
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers map[string]string
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// payload produces a request body together with its content type.
// An empty content type means the JSON default applies.
type payload interface {
	encode() (body io.Reader, contentType string, raw []byte, err error)
	multipart() bool
}

type jsonPayload struct {
	value any
}

func (p jsonPayload) encode() (io.Reader, string, []byte, error) {
	data, err := json.Marshal(p.value)
	if err != nil {
		return nil, "", nil, fmt.Errorf("marshal request body: %w", err)
	}
	return bytes.NewReader(data), "", data, nil
}

func (p jsonPayload) multipart() bool { return false }

type multipartPayload struct {
	prepare func(*multipart.Writer) error
}

func (p multipartPayload) encode() (io.Reader, string, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := p.prepare(writer); err != nil {
		return nil, "", nil, fmt.Errorf("prepare multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", nil, fmt.Errorf("close multipart writer: %w", err)
	}

	return body, writer.FormDataContentType(), nil, nil
}

func (p multipartPayload) multipart() bool { return true }

// DoRequest sends reqBody as JSON and decodes a JSON response into respBody.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var body payload
	if reqBody != nil {
		body = jsonPayload{value: reqBody}
	}
	return c.request(ctx, method, endpoint, body, respBody, opts...)
}

// DoMultipartRequest sends a multipart/form-data body built by prepareBody.
func (c *Connector) DoMultipartRequest(ctx context.Context, method, endpoint string, prepareBody func(*multipart.Writer) error, respBody any, opts ...RequestOpt) error {
	return c.request(ctx, method, endpoint, multipartPayload{prepare: prepareBody}, respBody, opts...)
}

// request is the single primitive behind every call. Failures after the
// request has been built are always returned as *APIError and are never
// wrapped again.
func (c *Connector) request(ctx context.Context, method, endpoint string, body payload, respBody any, opts ...RequestOpt) error {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	url := c.baseURL + endpoint

	var bodyReader io.Reader
	var contentType string
	if body != nil {
		reader, ct, raw, err := body.encode()
		if err != nil {
			return err
		}
		bodyReader = reader
		contentType = ct
		if len(raw) > 0 {
			// Attach payload to context for logging transport
			ctx = context.WithValue(ctx, payloadContextKey{}, raw)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", contentTypeJSON)
	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	// Multipart bodies always keep the writer's boundary.
	switch {
	case body != nil && body.multipart():
		req.Header.Set("Content-Type", contentType)
	case req.Header.Get("Content-Type") == "":
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewNetworkError(err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewNetworkError(fmt.Errorf("read response body: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeErrorResponse(resp.StatusCode, bodyBytes)
	}

	if respBody != nil {
		if err := json.Unmarshal(bodyBytes, respBody); err != nil {
			return NewNetworkError(fmt.Errorf("decode response: %w", err))
		}
	}

	return nil
}
