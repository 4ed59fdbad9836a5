// ABOUTME: Random session token minting for anonymous actors
// ABOUTME: Fixed-length alphanumeric tokens from crypto/rand

package identity

import (
	"crypto/rand"
	"fmt"
)

// TokenLength is the fixed length of anonymous session tokens. Long enough that
// collisions between concurrent visitors are negligible in practice.
const TokenLength = 10

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// NewToken mints a fresh anonymous session token.
func NewToken() (string, error) {
	buf := make([]byte, TokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return string(buf), nil
}
