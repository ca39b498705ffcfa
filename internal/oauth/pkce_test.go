package oauth

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGenerateCodeVerifier(t *testing.T) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}

	// Check length (32 bytes base64url encoded = 43 characters)
	if len(verifier) < 43 {
		t.Errorf("GenerateCodeVerifier() length = %d, want >= 43", len(verifier))
	}
	if len(verifier) > 128 {
		t.Errorf("GenerateCodeVerifier() length = %d, want <= 128", len(verifier))
	}

	// Check that it's valid base64url without padding
	if _, err := base64.RawURLEncoding.DecodeString(verifier); err != nil {
		t.Errorf("GenerateCodeVerifier() not valid base64url: %v", err)
	}

	// Generate multiple verifiers and ensure they're unique
	verifiers := make(map[string]bool)
	for i := 0; i < 100; i++ {
		v, err := GenerateCodeVerifier()
		if err != nil {
			t.Fatalf("GenerateCodeVerifier() iteration %d error = %v", i, err)
		}
		if verifiers[v] {
			t.Errorf("GenerateCodeVerifier() generated duplicate: %s", v)
		}
		verifiers[v] = true
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	// Known verifier from RFC 7636 appendix B
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := GenerateCodeChallenge(verifier)

	// Check that challenge is valid base64url
	if _, err := base64.RawURLEncoding.DecodeString(challenge); err != nil {
		t.Errorf("GenerateCodeChallenge() not valid base64url: %v", err)
	}

	// Challenge should be 43 characters (32 bytes SHA256 base64url encoded)
	if len(challenge) != 43 {
		t.Errorf("GenerateCodeChallenge() length = %d, want 43", len(challenge))
	}

	// Same verifier should produce same challenge
	challenge2 := GenerateCodeChallenge(verifier)
	if challenge != challenge2 {
		t.Errorf("GenerateCodeChallenge() not deterministic")
	}

	// Challenge must be the unpadded base64url SHA256 of the verifier
	sum := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if challenge != want {
		t.Errorf("GenerateCodeChallenge() = %s, want %s", challenge, want)
	}
}

func TestGeneratePKCEPair(t *testing.T) {
	verifier, challenge, err := GeneratePKCEPair()
	if err != nil {
		t.Fatalf("GeneratePKCEPair() error = %v", err)
	}

	if len(verifier) < 43 {
		t.Errorf("verifier length = %d, want >= 43", len(verifier))
	}
	if len(challenge) < 43 {
		t.Errorf("challenge length = %d, want >= 43", len(challenge))
	}
	if verifier == challenge {
		t.Error("verifier and challenge must differ")
	}
	if GenerateCodeChallenge(verifier) != challenge {
		t.Error("challenge does not match verifier")
	}
}

func TestGenerateState(t *testing.T) {
	state, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState() error = %v", err)
	}

	// 32 bytes of entropy encode to 43 base64url characters
	if len(state) < 43 {
		t.Errorf("GenerateState() length = %d, want >= 43", len(state))
	}
	if _, err := base64.RawURLEncoding.DecodeString(state); err != nil {
		t.Errorf("GenerateState() not valid base64url: %v", err)
	}

	states := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := GenerateState()
		if err != nil {
			t.Fatalf("GenerateState() iteration %d error = %v", i, err)
		}
		if states[s] {
			t.Errorf("GenerateState() generated duplicate: %s", s)
		}
		states[s] = true
	}
}
