// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/vpnsync/apiclient/auth"
	"github.com/vpnsync/apiclient/common"
	"github.com/vpnsync/apiclient/config"
	"go.uber.org/zap"
)

// Client is the signed-request client for the appliance management API.
type Client struct {
	transport *common.Client
}

type clientOptions struct {
	logger     *zap.Logger
	httpClient *http.Client
	method     auth.Method
}

// Option customizes a Client at construction time.
type Option func(*clientOptions)

// WithLogger sets the logger used for per-call debug logs.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) {
		o.logger = l
	}
}

// WithHTTPClient replaces the underlying http.Client entirely, including its
// transport and timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithAuthMethod selects how authenticated calls are signed. The default is
// auth.MethodHMAC; auth.MethodNone sends every call anonymously.
func WithAuthMethod(m auth.Method) Option {
	return func(o *clientOptions) {
		o.method = m
	}
}

// NewClient validates cfg and returns a ready Client. Missing credentials are
// reported here as a *common.ConfigurationError, before any network access.
func NewClient(cfg config.ClientConfig, opts ...Option) (*Client, error) {
	co := clientOptions{method: auth.MethodHMAC}
	for _, opt := range opts {
		opt(&co)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	authenticator, err := auth.NewAuthenticator(co.method)
	if err != nil {
		return nil, &common.ConfigurationError{Field: "auth", Reason: err.Error()}
	}

	err = authenticator.Configure(map[string]interface{}{
		"api_token":  cfg.APIToken,
		"api_secret": cfg.APISecret,
	})
	if err != nil {
		return nil, &common.ConfigurationError{Field: "credentials", Reason: err.Error()}
	}

	transport, err := auth.NewTLSTransport(cfg.CACerts, !cfg.VerifyTLS)
	if err != nil {
		return nil, &common.ConfigurationError{Field: "ca_certs", Reason: err.Error()}
	}

	c := common.NewClient(cfg.BaseURL, authenticator)
	c.HTTPClient = http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout(),
	}

	if co.httpClient != nil {
		c.HTTPClient = *co.httpClient
	}

	if co.logger != nil {
		c.Logger = co.logger
	}

	return &Client{transport: c}, nil
}

// NewClientFromTransport wraps an already configured transport. It is meant
// for tests and for callers that build their own common.Client.
func NewClientFromTransport(c *common.Client) (*Client, error) {
	if c == nil {
		return nil, errors.New("no client supplied")
	}
	return &Client{transport: c}, nil
}

type callOptions struct {
	authenticated bool
}

// CallOption customizes a single call.
type CallOption func(*callOptions)

// Unauthenticated sends the request without signing headers, for the
// endpoints the appliance serves anonymously (/ping, /check, /auth/session).
func Unauthenticated() CallOption {
	return func(o *callOptions) {
		o.authenticated = false
	}
}

// Authenticated sets the signing behaviour explicitly.
func Authenticated(enabled bool) CallOption {
	return func(o *callOptions) {
		o.authenticated = enabled
	}
}

func resolve(opts []CallOption) callOptions {
	o := callOptions{authenticated: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Get issues a GET and returns the decoded JSON body.
func (o *Client) Get(ctx context.Context, path string, query url.Values, opts ...CallOption) (interface{}, error) {
	return o.do(ctx, http.MethodGet, path, nil, query, opts)
}

// Post issues a POST with body encoded as JSON (omitted when nil).
func (o *Client) Post(ctx context.Context, path string, body interface{}, opts ...CallOption) (interface{}, error) {
	return o.do(ctx, http.MethodPost, path, body, nil, opts)
}

// Put issues a PUT with body encoded as JSON (omitted when nil).
func (o *Client) Put(ctx context.Context, path string, body interface{}, opts ...CallOption) (interface{}, error) {
	return o.do(ctx, http.MethodPut, path, body, nil, opts)
}

func (o *Client) Delete(ctx context.Context, path string, opts ...CallOption) (interface{}, error) {
	return o.do(ctx, http.MethodDelete, path, nil, nil, opts)
}

// RawGet returns the undecoded response body, for binary downloads such as
// user key archives.
func (o *Client) RawGet(ctx context.Context, path string, opts ...CallOption) ([]byte, error) {
	co := resolve(opts)

	return o.transport.DoResource(ctx, http.MethodGet, path, nil, nil, co.authenticated)
}

func (o *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	query url.Values,
	opts []CallOption,
) (interface{}, error) {
	co := resolve(opts)

	data, err := o.transport.DoResource(ctx, method, path, body, query, co.authenticated)
	if err != nil {
		return nil, err
	}

	v, err := common.DecodeJSONBody(data)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	return v, nil
}
