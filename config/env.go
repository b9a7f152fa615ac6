// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package config

// Environment variable names read by FromEnv
const (
	EnvBaseURL   = "PRITUNL_BASE_URL"
	EnvAPIToken  = "PRITUNL_API_TOKEN"
	EnvAPISecret = "PRITUNL_API_SECRET"
	EnvVerifySSL = "PRITUNL_VERIFY_SSL"
	EnvTimeout   = "PRITUNL_TIMEOUT"
	EnvCACerts   = "PRITUNL_CA_CERTS"
)

var envKeys = map[string]string{
	EnvBaseURL:   "base_url",
	EnvAPIToken:  "api_token",
	EnvAPISecret: "api_secret",
	EnvVerifySSL: "verify_tls",
	EnvTimeout:   "timeout",
	EnvCACerts:   "ca_certs",
}

// FromEnv builds a configuration layer from the environment. Pass
// os.LookupEnv in production; the client itself never reads the environment.
func FromEnv(lookup func(string) (string, bool)) map[string]interface{} {
	layer := make(map[string]interface{})

	for env, key := range envKeys {
		if v, ok := lookup(env); ok && v != "" {
			layer[key] = v
		}
	}

	return layer
}
