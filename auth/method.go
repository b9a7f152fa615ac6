// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package auth

import "fmt"

// Method is the enumeration of authentication methods understood by the
// appliance API. It implements the pflag.Value interface.
type Method string

const (
	MethodNone Method = "none"
	MethodHMAC Method = "hmac"
)

// String representation of the Method
func (o *Method) String() string {
	return string(*o)
}

// Set the value of the Method
func (o *Method) Set(v string) error {
	switch v {
	case "none", "passthrough":
		*o = MethodNone
	case "hmac", "signed":
		*o = MethodHMAC
	default:
		return fmt.Errorf("unexpected Method %q", v)
	}

	return nil
}

// Type returns the string representing the type name (used by pflag).
func (o *Method) Type() string {
	return "Method"
}

// NewAuthenticator returns an unconfigured authenticator for the method.
func NewAuthenticator(m Method) (IAuthenticator, error) {
	switch m {
	case MethodNone:
		return &NullAuthenticator{}, nil
	case MethodHMAC:
		return &HMACAuthenticator{}, nil
	default:
		return nil, fmt.Errorf("unexpected Method %q", m)
	}
}
