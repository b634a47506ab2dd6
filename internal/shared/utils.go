// Package shared provides utility functions for working with
// random buffers and secure memory wiping.
package shared

import (
	"crypto/rand"
	"fmt"
)

// RandomBytes returns size bytes read from the system CSPRNG.
//
// It returns an error if the random number generator fails.
func RandomBytes(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("read random: %w", err)
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as passwords or cryptographic
// keys from memory after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
