// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"

	"github.com/vpnsync/apiclient/auth"
	"go.uber.org/zap"
)

// Credentials used by clients returned from NewTestingHTTPClient. Handlers
// can check incoming requests with auth.Verify.
const (
	TestingAPIToken  = "test-token"
	TestingAPISecret = "test-secret"
)

// NewTestingHTTPClient creates an HTTP test server (with a configurable request
// handler), an API Client and connects them together.  The API client and the
// server's shutdown switch are returned.
func NewTestingHTTPClient(handler http.Handler) (cli *Client, closerFn func()) {
	srv := httptest.NewServer(handler)

	cli = &Client{
		HTTPClient: http.Client{
			Transport: &http.Transport{
				DialContext: func(_ context.Context, network, _ string) (net.Conn, error) {
					return net.Dial(network, srv.Listener.Addr().String())
				},
			},
		},
		BaseURL: srv.URL,
		Authenticator: &auth.HMACAuthenticator{
			Token:  TestingAPIToken,
			Secret: TestingAPISecret,
		},
		Logger: zap.NewNop(),
	}

	closerFn = srv.Close

	return
}
