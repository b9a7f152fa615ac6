// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0
package auth

import "net/http"

// NullAuthenticator is used for the endpoints the appliance serves without
// authentication (health checks, session login).
type NullAuthenticator struct{}

func (o *NullAuthenticator) Configure(cfg map[string]interface{}) error {
	return nil
}

func (o *NullAuthenticator) EncodeHeaders(method, path string) (http.Header, error) {
	h := make(http.Header)
	h.Set("Content-Type", ContentTypeJSON)

	return h, nil
}
