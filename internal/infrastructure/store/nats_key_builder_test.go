// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeKey(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		encoded bool
	}{
		{name: "plain uid", id: "user-123", encoded: false},
		{name: "uid with dots", id: "org.team.user", encoded: false},
		{name: "email address", id: "alice@example.com", encoded: true},
		{name: "uid with spaces", id: "some user", encoded: true},
		{name: "uid with slash", id: "tenant/user", encoded: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			key := EncodeKey(tc.id)
			if tc.encoded {
				assert.NotEqual(t, tc.id, key)
				assert.True(t, isSafeKey(key[len(encodedKeyPrefix):]))
			} else {
				assert.Equal(t, tc.id, key)
			}

			decoded, err := DecodeKey(key)
			require.NoError(t, err)
			assert.Equal(t, tc.id, decoded)
		})
	}
}

func TestEncodeKey_PrefixCollision(t *testing.T) {
	// An identifier that happens to start with the encoding prefix must be
	// encoded so DecodeKey round-trips it.
	id := "enc_something"
	key := EncodeKey(id)
	assert.NotEqual(t, id, key)

	decoded, err := DecodeKey(key)
	require.NoError(t, err)
	assert.Equal(t, id, decoded)
}

func TestDecodeKey_Invalid(t *testing.T) {
	_, err := DecodeKey(encodedKeyPrefix + "0OIl")
	assert.Error(t, err)
}
