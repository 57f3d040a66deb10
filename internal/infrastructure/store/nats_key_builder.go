// Copyright The Meetwise Authors and each contributor to Meetwise.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"strings"

	"github.com/akamensky/base58"
)

// validKeyChars are the characters allowed in a NATS KV key besides
// alphanumerics. Identifiers coming from the call platform can contain
// anything, so unsafe identifiers are base58 encoded before use as keys.
const validKeyChars = "-_."

// encodedKeyPrefix marks keys that have been base58 encoded so they can
// be recognized and decoded when listing.
const encodedKeyPrefix = "enc_"

func isSafeKey(key string) bool {
	if key == "" {
		return false
	}
	if strings.HasPrefix(key, encodedKeyPrefix) {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune(validKeyChars, r):
		default:
			return false
		}
	}
	return true
}

// EncodeKey returns a NATS KV safe key for an arbitrary identifier.
// Safe identifiers are used as-is, anything else is base58 encoded.
func EncodeKey(id string) string {
	if isSafeKey(id) {
		return id
	}
	return encodedKeyPrefix + base58.Encode([]byte(id))
}

// DecodeKey reverses EncodeKey, returning the original identifier.
func DecodeKey(key string) (string, error) {
	if !strings.HasPrefix(key, encodedKeyPrefix) {
		return key, nil
	}
	decoded, err := base58.Decode(strings.TrimPrefix(key, encodedKeyPrefix))
	if err != nil {
		return "", fmt.Errorf("decoding key %q: %w", key, err)
	}
	return string(decoded), nil
}
