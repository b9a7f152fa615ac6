// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vpnsync/apiclient/auth"
	"github.com/vpnsync/apiclient/common"
	"github.com/vpnsync/apiclient/config"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, func()) {
	transport, teardown := common.NewTestingHTTPClient(h)

	client, err := NewClientFromTransport(transport)
	require.NoError(t, err)

	return client, teardown
}

func verified(t *testing.T, r *http.Request) {
	assert.NoError(t, auth.Verify(r.Header, common.TestingAPIToken, common.TestingAPISecret, r.Method, r.URL.Path))
}

func TestNewClient_FailFast(t *testing.T) {
	tests := []struct {
		name  string
		cfg   config.ClientConfig
		field string
	}{
		{"empty token", config.ClientConfig{BaseURL: "https://vpn.example", APISecret: "s", TimeoutSeconds: 30}, "api_token"},
		{"empty secret", config.ClientConfig{BaseURL: "https://vpn.example", APIToken: "t", TimeoutSeconds: 30}, "api_secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ })
			transport, teardown := common.NewTestingHTTPClient(h)
			defer teardown()

			tt.cfg.BaseURL = transport.BaseURL

			_, err := NewClient(tt.cfg)

			var cfgErr *common.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Zero(t, calls)
		})
	}
}

func TestNewClient(t *testing.T) {
	cfg, err := config.Load(map[string]interface{}{
		"base_url":   "https://vpn.example:8447",
		"api_token":  "tok",
		"api_secret": "secret",
		"verify_tls": false,
		"timeout":    7,
	})
	require.NoError(t, err)

	client, err := NewClient(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	hc := client.transport.HTTPClient
	assert.Equal(t, 7*time.Second, hc.Timeout)
	assert.True(t, hc.Transport.(*http.Transport).TLSClientConfig.InsecureSkipVerify)
	assert.Equal(t, "https://vpn.example:8447", client.transport.BaseURL)
}

func TestNewClient_WithHTTPClient(t *testing.T) {
	cfg, err := config.Load(map[string]interface{}{
		"base_url":   "https://vpn.example",
		"api_token":  "tok",
		"api_secret": "secret",
	})
	require.NoError(t, err)

	client, err := NewClient(cfg, WithHTTPClient(&http.Client{Timeout: time.Second}))
	require.NoError(t, err)
	assert.Equal(t, time.Second, client.transport.HTTPClient.Timeout)
}

func TestNewClientFromTransport_Nil(t *testing.T) {
	_, err := NewClientFromTransport(nil)
	assert.EqualError(t, err, "no client supplied")
}

func TestClient_Get(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/server", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("all"))
		verified(t, r)

		_, err := w.Write([]byte(`[{"id":"s1","name":"primary","status":"online"}]`))
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	res, err := client.Get(context.Background(), "server", url.Values{"all": {"true"}})
	require.NoError(t, err)

	var servers []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, Decode(res, &servers))
	require.Len(t, servers, 1)
	assert.Equal(t, "s1", servers[0].ID)
	assert.Equal(t, "online", servers[0].Status)
}

func TestClient_Post(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		verified(t, r)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"Engineering"}`, string(body))

		_, err = w.Write([]byte(`{"id":"o1","name":"Engineering"}`))
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	res, err := client.Post(context.Background(), "/organization", Fields{}.Set("name", "Engineering"))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"id": "o1", "name": "Engineering"}, res)
}

func TestClient_Put_EmptyBody(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/server/s1/operation/start", r.URL.Path)
		verified(t, r)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Empty(t, body)

		w.WriteHeader(http.StatusOK)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	res, err := client.Put(context.Background(), "/server/s1/operation/start", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{}, res)
}

func TestClient_Delete_NotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		verified(t, r)

		w.WriteHeader(http.StatusNotFound)
		_, err := w.Write([]byte(`{"error":"not_found"}`))
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	_, err := client.Delete(context.Background(), "/organization/o9")

	var httpErr *common.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, `{"error":"not_found"}`, string(httpErr.Body))
}

func TestClient_Unauthenticated(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(auth.HeaderSignature))
		assert.Equal(t, auth.ContentTypeJSON, r.Header.Get("Content-Type"))

		_, err := w.Write([]byte(`{"authenticated":true}`))
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	res, err := client.Post(context.Background(), "/auth/session",
		map[string]string{"username": "admin", "password": "pw"}, Unauthenticated())
	require.NoError(t, err)
	assert.Equal(t, true, res.(map[string]interface{})["authenticated"])

	_, err = client.Get(context.Background(), "/ping", nil, Authenticated(false))
	require.NoError(t, err)
}

func TestClient_RawGet(t *testing.T) {
	archive := []byte{0x1f, 0x8b, 0x08, 0x00, 0xff}

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/key/o1/u1.tar", r.URL.Path)
		verified(t, r)

		w.Header().Set("Content-Type", "application/octet-stream")
		_, err := w.Write(archive)
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	data, err := client.RawGet(context.Background(), "/key/o1/u1.tar")
	require.NoError(t, err)
	assert.Equal(t, archive, data)
}

func TestClient_Get_MalformedJSON(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(`<html>`))
		assert.NoError(t, err)
	})

	client, teardown := newTestClient(t, h)
	defer teardown()

	_, err := client.Get(context.Background(), "/status", nil)
	assert.ErrorContains(t, err, "GET /status: decoding response body")
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-time.After(2 * time.Second):
		}
	})

	transport, teardown := common.NewTestingHTTPClient(h)
	defer teardown()
	defer close(release)

	transport.HTTPClient.Timeout = 50 * time.Millisecond

	client, err := NewClientFromTransport(transport)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/status", nil)

	var transportErr *common.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.True(t, transportErr.Timeout())
}

func TestNewClient_AuthMethod(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(auth.HeaderToken))
		assert.Empty(t, r.Header.Get(auth.HeaderSignature))
		assert.Equal(t, auth.ContentTypeJSON, r.Header.Get("Content-Type"))
	})

	transport, teardown := common.NewTestingHTTPClient(h)
	defer teardown()

	cfg, err := config.Load(map[string]interface{}{
		"base_url":   transport.BaseURL,
		"api_token":  "tok",
		"api_secret": "secret",
	})
	require.NoError(t, err)

	client, err := NewClient(cfg, WithAuthMethod(auth.MethodNone))
	require.NoError(t, err)
	assert.IsType(t, &auth.NullAuthenticator{}, client.transport.Authenticator)

	_, err = client.Get(context.Background(), "/check", nil)
	require.NoError(t, err)

	client, err = NewClient(cfg)
	require.NoError(t, err)
	assert.IsType(t, &auth.HMACAuthenticator{}, client.transport.Authenticator)

	_, err = NewClient(cfg, WithAuthMethod(auth.Method("oauth2")))

	var cfgErr *common.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "auth", cfgErr.Field)
}
