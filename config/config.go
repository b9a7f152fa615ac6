// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/vpnsync/apiclient/common"
)

const (
	DefaultVerifyTLS      = true
	DefaultTimeoutSeconds = 30
)

// ClientConfig carries everything needed to talk to one appliance. Treat it
// as a value: clients copy it at construction and never read it again.
type ClientConfig struct {
	BaseURL        string   `mapstructure:"base_url"`
	APIToken       string   `mapstructure:"api_token"`
	APISecret      string   `mapstructure:"api_secret"`
	VerifyTLS      bool     `mapstructure:"verify_tls"`
	TimeoutSeconds int      `mapstructure:"timeout"`
	CACerts        []string `mapstructure:"ca_certs"`
}

// New returns a ClientConfig populated with defaults only.
func New() ClientConfig {
	return ClientConfig{
		VerifyTLS:      DefaultVerifyTLS,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Load applies each layer on top of the defaults, in order, and validates the
// result. Put the default configuration source first and explicit overrides
// last.
func Load(layers ...map[string]interface{}) (ClientConfig, error) {
	cfg := New()

	for _, layer := range layers {
		if err := cfg.Configure(layer); err != nil {
			return ClientConfig{}, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return ClientConfig{}, err
	}

	return cfg, nil
}

// Configure decodes one configuration layer. Keys that are absent, nil or the
// empty string keep the current value.
func (o *ClientConfig) Configure(cfg map[string]interface{}) error {
	present := make(map[string]interface{}, len(cfg))
	for k, v := range cfg {
		if isUnset(v) {
			continue
		}
		present[k] = v
	}

	// a layer that sets ca_certs replaces the list rather than patching it
	for k := range present {
		if strings.EqualFold(k, "ca_certs") {
			o.CACerts = nil
		}
	}

	md := &mapstructure.Metadata{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata:         md,
		Result:           o,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(present); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return fmt.Errorf("unexpected fields in config: %s",
			strings.Join(md.Unused, ", "))
	}

	o.BaseURL = strings.TrimRight(o.BaseURL, "/")

	return nil
}

// Validate reports the first problem as a *common.ConfigurationError.
func (o ClientConfig) Validate() error {
	if o.BaseURL == "" {
		return &common.ConfigurationError{Field: "base_url", Reason: "missing"}
	}

	u, err := url.Parse(o.BaseURL)
	if err != nil {
		return &common.ConfigurationError{Field: "base_url", Reason: err.Error()}
	}

	if !u.IsAbs() || u.Host == "" {
		return &common.ConfigurationError{
			Field:  "base_url",
			Reason: fmt.Sprintf("URI is not absolute: %q", o.BaseURL),
		}
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return &common.ConfigurationError{
			Field:  "base_url",
			Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme),
		}
	}

	if o.APIToken == "" {
		return &common.ConfigurationError{Field: "api_token", Reason: "missing"}
	}

	if o.APISecret == "" {
		return &common.ConfigurationError{Field: "api_secret", Reason: "missing"}
	}

	if o.TimeoutSeconds <= 0 {
		return &common.ConfigurationError{
			Field:  "timeout",
			Reason: fmt.Sprintf("must be positive, got %d", o.TimeoutSeconds),
		}
	}

	return nil
}

func (o ClientConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

func isUnset(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	default:
		return false
	}
}
