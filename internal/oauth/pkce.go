package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

const (
	// codeVerifierBytes is the entropy of a code verifier. 32 bytes encode
	// to 43 characters, the RFC 7636 minimum verifier length.
	codeVerifierBytes = 32

	// stateBytes is the entropy of a CSRF state parameter.
	stateBytes = 32
)

// GenerateCodeVerifier generates a random code verifier for PKCE.
// The verifier is 32 random bytes encoded as base64url without padding,
// yielding 43 characters as required by RFC 7636.
func GenerateCodeVerifier() (string, error) {
	b := make([]byte, codeVerifierBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateCodeChallenge generates the code challenge from a code verifier
// using the S256 method: code_challenge = BASE64URL(SHA256(ASCII(code_verifier)))
func GenerateCodeChallenge(verifier string) string {
	h := sha256.New()
	h.Write([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// GeneratePKCEPair generates a code verifier together with its S256 challenge.
func GeneratePKCEPair() (verifier, challenge string, err error) {
	verifier, err = GenerateCodeVerifier()
	if err != nil {
		return "", "", err
	}
	return verifier, GenerateCodeChallenge(verifier), nil
}

// GenerateState generates a random state parameter for CSRF protection
func GenerateState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
