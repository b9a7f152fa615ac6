// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0
package auth

import "net/http"

type IAuthenticator interface {
	Configure(cfg map[string]interface{}) error
	EncodeHeaders(method, path string) (http.Header, error)
}
