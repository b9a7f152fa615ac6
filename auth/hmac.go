// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0
package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	HeaderToken     = "Auth-Token"
	HeaderTimestamp = "Auth-Timestamp"
	HeaderNonce     = "Auth-Nonce"
	HeaderSignature = "Auth-Signature"

	ContentTypeJSON = "application/json"

	nonceSize = 16
)

// HMACAuthenticator signs each request with an HMAC-SHA256 over
//
//	token&timestamp&nonce&METHOD&path
//
// keyed with the API secret. Every call to EncodeHeaders draws a fresh nonce
// and timestamp, so the returned headers must not be reused.
type HMACAuthenticator struct {
	Token  string
	Secret string

	now  func() time.Time
	rand io.Reader
}

// NewHMACAuthenticator returns a validated authenticator for the credential
// pair.
func NewHMACAuthenticator(token, secret string) (*HMACAuthenticator, error) {
	o := &HMACAuthenticator{Token: token, Secret: secret}

	if err := o.validate(); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *HMACAuthenticator) Configure(cfg map[string]interface{}) error {
	decoded := struct {
		Token  string                 `mapstructure:"api_token"`
		Secret string                 `mapstructure:"api_secret"`
		Rest   map[string]interface{} `mapstructure:",remain"`
	}{}

	if err := mapstructure.Decode(cfg, &decoded); err != nil {
		return err
	}

	o.Token = decoded.Token
	o.Secret = decoded.Secret

	if err := o.validate(); err != nil {
		return err
	}

	if len(decoded.Rest) > 0 {
		var unexpected []string
		for k := range decoded.Rest {
			unexpected = append(unexpected, k)
		}
		return fmt.Errorf("unexpected fields in config: %s",
			strings.Join(unexpected, ", "))
	}

	return nil
}

func (o *HMACAuthenticator) EncodeHeaders(method, path string) (http.Header, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}

	nonce, err := NewNonce(o.entropy())
	if err != nil {
		return nil, err
	}

	timestamp := strconv.FormatInt(o.clock().Unix(), 10)

	return o.headers(method, path, timestamp, nonce), nil
}

func (o *HMACAuthenticator) headers(method, path, timestamp, nonce string) http.Header {
	canonical := CanonicalString(o.Token, timestamp, nonce, method, path)

	h := make(http.Header)
	h.Set(HeaderToken, o.Token)
	h.Set(HeaderTimestamp, timestamp)
	h.Set(HeaderNonce, nonce)
	h.Set(HeaderSignature, ComputeSignature(o.Secret, canonical))
	h.Set("Content-Type", ContentTypeJSON)

	return h
}

func (o *HMACAuthenticator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

func (o *HMACAuthenticator) entropy() io.Reader {
	if o.rand != nil {
		return o.rand
	}
	return rand.Reader
}

func (o *HMACAuthenticator) validate() error {
	if o.Token == "" {
		return errors.New("missing api_token")
	}

	if o.Secret == "" {
		return errors.New("missing api_secret")
	}

	return nil
}

// NewNonce reads 16 bytes from r and returns them as 32 lowercase hex
// characters.
func NewNonce(r io.Reader) (string, error) {
	buf := make([]byte, nonceSize)

	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// CanonicalString builds the string fed to the MAC. The path must not carry a
// query string.
func CanonicalString(token, timestamp, nonce, method, path string) string {
	return strings.Join([]string{
		token,
		timestamp,
		nonce,
		strings.ToUpper(method),
		path,
	}, "&")
}

// ComputeSignature returns the padded standard base64 encoding of
// HMAC-SHA256(secret, canonical).
func ComputeSignature(secret, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(canonical))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the signing headers of a received request against the
// credential pair. It does not enforce timestamp freshness or nonce
// uniqueness; that is the receiver's business.
func Verify(h http.Header, token, secret, method, path string) error {
	if got := h.Get(HeaderToken); got != token {
		return fmt.Errorf("%s mismatch", HeaderToken)
	}

	timestamp := h.Get(HeaderTimestamp)
	if _, err := strconv.ParseInt(timestamp, 10, 64); err != nil {
		return fmt.Errorf("malformed %s %q", HeaderTimestamp, timestamp)
	}

	nonce := h.Get(HeaderNonce)
	if !validNonce(nonce) {
		return fmt.Errorf("malformed %s %q", HeaderNonce, nonce)
	}

	expected := ComputeSignature(secret, CanonicalString(token, timestamp, nonce, method, path))
	if !hmac.Equal([]byte(expected), []byte(h.Get(HeaderSignature))) {
		return fmt.Errorf("%s mismatch", HeaderSignature)
	}

	return nil
}

func validNonce(nonce string) bool {
	if len(nonce) != 2*nonceSize || strings.ToLower(nonce) != nonce {
		return false
	}
	_, err := hex.DecodeString(nonce)
	return err == nil
}
