// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/moogar0880/problems"
)

// maxErrorBody bounds how much of a response body is quoted in Error().
const maxErrorBody = 256

// ConfigurationError reports missing or invalid client configuration. It is
// returned at construction time, before any network access.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (o *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", o.Field, o.Reason)
}

// TransportError wraps a network-level failure: DNS, connection refused, TLS
// handshake, timeout, or a truncated response body.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (o *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport failure: %v", o.Method, o.Path, o.Err)
}

func (o *TransportError) Unwrap() error {
	return o.Err
}

// Timeout reports whether the failure was caused by the client timeout or a
// context deadline.
func (o *TransportError) Timeout() bool {
	var te interface{ Timeout() bool }
	if errors.As(o.Err, &te) && te.Timeout() {
		return true
	}

	return errors.Is(o.Err, context.DeadlineExceeded)
}

// HTTPError is returned when the appliance answers with a status >= 400.
// Problem is populated when the body is an RFC 7807 problem document.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Body       []byte
	Problem    *problems.DefaultProblem
}

func (o *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: unexpected HTTP response code %d", o.Method, o.Path, o.StatusCode)

	if o.Problem != nil {
		return fmt.Sprintf("%s: %s: %s", msg, o.Problem.ProblemTitle(), o.Problem.Detail)
	}

	body := strings.TrimSpace(string(o.Body))
	if body == "" {
		return msg
	}

	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}

	return fmt.Sprintf("%s: %s", msg, body)
}

// IsAuth reports an authentication or authorization rejection.
func (o *HTTPError) IsAuth() bool {
	return o.StatusCode == http.StatusUnauthorized || o.StatusCode == http.StatusForbidden
}

func (o *HTTPError) IsNotFound() bool {
	return o.StatusCode == http.StatusNotFound
}

func newHTTPError(method, path string, res *http.Response, body []byte) *HTTPError {
	e := &HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: res.StatusCode,
		Body:       body,
	}

	if isProblem(res.Header.Get("Content-Type")) && len(body) > 0 {
		var prob problems.DefaultProblem
		if err := json.Unmarshal(body, &prob); err == nil {
			e.Problem = &prob
		}
	}

	return e
}

func isProblem(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == problems.ProblemMediaType
}
