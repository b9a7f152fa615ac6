// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vpnsync/apiclient/auth"
	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// Client holds configuration data associated with the HTTP(s) session. It
// keeps no per-call state, so a single Client may be shared across
// goroutines.
type Client struct {
	HTTPClient    http.Client
	BaseURL       string
	Authenticator auth.IAuthenticator
	Logger        *zap.Logger
}

// NewClient instantiates a new Client
func NewClient(baseURL string, authenticator auth.IAuthenticator) *Client {
	return &Client{
		HTTPClient: http.Client{
			Timeout: DefaultTimeout,
		},
		BaseURL:       strings.TrimRight(baseURL, "/"),
		Authenticator: authenticator,
		Logger:        zap.NewNop(),
	}
}

// DoResource issues one request and returns the raw response body. No retry
// is attempted: network failures come back as *TransportError and statuses
// >= 400 as *HTTPError.
func (c Client) DoResource(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	query url.Values,
	authenticated bool,
) ([]byte, error) {
	m, err := NormalizeMethod(method)
	if err != nil {
		return nil, err
	}

	path, query, err = SplitPath(path, query)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, m, path, body, query, authenticated)
	if err != nil {
		return nil, err
	}

	log := c.logger().With(
		zap.String("callID", uuid.NewString()),
		zap.String("method", m),
		zap.String("path", path),
		zap.Bool("authenticated", authenticated),
	)

	start := time.Now()

	hc := &c.HTTPClient

	res, err := hc.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, &TransportError{Method: m, Path: path, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		log.Debug("reading response failed", zap.Int("status", res.StatusCode), zap.Error(err))
		return nil, &TransportError{Method: m, Path: path, Err: fmt.Errorf("reading response body: %w", err)}
	}

	log.Debug("request completed",
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if res.StatusCode >= http.StatusBadRequest {
		return nil, newHTTPError(m, path, res, data)
	}

	return data, nil
}

func (c Client) newRequest(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	query url.Values,
	authenticated bool,
) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, &ConfigurationError{Field: "base_url", Reason: "missing"}
	}

	uri := c.BaseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %q, encoding request body: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, uri, payload)
	if err != nil {
		return nil, fmt.Errorf("%s %q, request creation failed: %w", method, path, err)
	}

	var authenticator auth.IAuthenticator = &auth.NullAuthenticator{}
	if authenticated {
		if c.Authenticator == nil {
			return nil, errors.New("no authenticator configured")
		}
		authenticator = c.Authenticator
	}

	headers, err := authenticator.EncodeHeaders(method, path)
	if err != nil {
		return nil, fmt.Errorf("signing %s %q: %w", method, path, err)
	}

	for k, vs := range headers {
		req.Header[k] = vs
	}
	req.Header.Set("Accept", auth.ContentTypeJSON)

	return req, nil
}

func (c Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
