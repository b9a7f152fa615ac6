// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var supportedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

// NormalizeMethod upper-cases the method and rejects anything the appliance
// API does not use.
func NormalizeMethod(method string) (string, error) {
	m := strings.ToUpper(method)
	if _, ok := supportedMethods[m]; !ok {
		return "", fmt.Errorf("unsupported HTTP method %q", method)
	}
	return m, nil
}

// SplitPath makes sure path starts with "/" and moves any query string it
// carries into query. The returned path is the one that gets signed.
func SplitPath(path string, query url.Values) (string, url.Values, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	p, raw, found := strings.Cut(path, "?")
	if !found {
		return p, query, nil
	}

	extra, err := url.ParseQuery(raw)
	if err != nil {
		return "", nil, fmt.Errorf("parsing query in path %q: %w", path, err)
	}

	merged := url.Values{}
	for k, vs := range query {
		merged[k] = append(merged[k], vs...)
	}
	for k, vs := range extra {
		merged[k] = append(merged[k], vs...)
	}

	return p, merged, nil
}

// DecodeJSONBody decodes a response body into a generic JSON value. An empty
// body decodes to an empty object.
func DecodeJSONBody(body []byte) (interface{}, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]interface{}{}, nil
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return v, nil
}
