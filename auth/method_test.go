package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethod_Set(t *testing.T) {
	var m Method

	require.NoError(t, m.Set("passthrough"))
	assert.Equal(t, MethodNone, m)

	require.NoError(t, m.Set("hmac"))
	assert.Equal(t, MethodHMAC, m)
	assert.Equal(t, "hmac", m.String())
	assert.Equal(t, "Method", m.Type())

	assert.EqualError(t, m.Set("oauth2"), `unexpected Method "oauth2"`)
}

func TestNewAuthenticator(t *testing.T) {
	a, err := NewAuthenticator(MethodNone)
	require.NoError(t, err)
	assert.IsType(t, &NullAuthenticator{}, a)

	a, err = NewAuthenticator(MethodHMAC)
	require.NoError(t, err)
	assert.IsType(t, &HMACAuthenticator{}, a)

	_, err = NewAuthenticator(Method("basic"))
	assert.EqualError(t, err, `unexpected Method "basic"`)
}
