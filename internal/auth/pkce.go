package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// VerifierLength is the default length of generated PKCE code verifiers.
// RFC 7636 allows 43-128 characters.
const VerifierLength = 64

// verifierAlphabet is the 66-character unreserved set from RFC 3986 §2.3,
// the full alphabet RFC 7636 permits for code verifiers.
const verifierAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

// GenerateVerifier returns a cryptographically random PKCE code verifier of
// the given length, drawn from the unreserved character set.
func GenerateVerifier(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("verifier length must be positive, got %d", length)
	}

	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	out := make([]byte, length)
	for i, b := range bytes {
		out[i] = verifierAlphabet[int(b)%len(verifierAlphabet)]
	}

	return string(out), nil
}

// DeriveChallenge computes the S256 code challenge for a verifier:
// base64url(sha256(verifier)) without padding.
func DeriveChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
