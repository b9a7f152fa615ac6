// Copyright 2026 Contributors to the vpnsync project.
// SPDX-License-Identifier: Apache-2.0

package apiclient

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Decode converts a generic result returned by Get/Post/Put/Delete into a
// typed value, matching fields by their json tags.
func Decode(src interface{}, dst interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return dec.Decode(src)
}

// Fields is a partial-update payload: only the fields that were set are sent.
type Fields map[string]interface{}

// Set records key unless value is nil or a nil pointer, and returns the
// receiver for chaining.
func (o Fields) Set(key string, value interface{}) Fields {
	if value == nil {
		return o
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return o
		}
		value = rv.Elem().Interface()
	}

	o[key] = value

	return o
}
