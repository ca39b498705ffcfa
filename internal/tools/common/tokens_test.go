package common

import (
	"testing"
	"time"
)

func TestTokensFromArgs(t *testing.T) {
	args := map[string]interface{}{
		"tokens": map[string]interface{}{
			"access_token":  "at-123",
			"refresh_token": "rt-456",
			"token_type":    "MAC",
			"scope":         "User.Read Chat.ReadWrite",
			"expires_at":    "2026-03-01T12:00:00Z",
		},
	}

	token := TokensFromArgs(args)
	if token == nil {
		t.Fatal("TokensFromArgs() = nil, want token")
	}
	if token.AccessToken != "at-123" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "at-123")
	}
	if token.RefreshToken != "rt-456" {
		t.Errorf("RefreshToken = %q, want %q", token.RefreshToken, "rt-456")
	}
	if token.TokenType != "MAC" {
		t.Errorf("TokenType = %q, want %q", token.TokenType, "MAC")
	}
	if token.Scope != "User.Read Chat.ReadWrite" {
		t.Errorf("Scope = %q, want %q", token.Scope, "User.Read Chat.ReadWrite")
	}
	if token.ExpiresAt == nil {
		t.Fatal("ExpiresAt = nil, want parsed time")
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !token.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", token.ExpiresAt, want)
	}
}

func TestTokensFromArgs_Missing(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no tokens key", map[string]interface{}{}},
		{"tokens not an object", map[string]interface{}{"tokens": "at-123"}},
		{"tokens nil", map[string]interface{}{"tokens": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if token := TokensFromArgs(tt.args); token != nil {
				t.Errorf("TokensFromArgs() = %v, want nil", token)
			}
		})
	}
}

func TestTokensFromArgs_Defaults(t *testing.T) {
	args := map[string]interface{}{
		"tokens": map[string]interface{}{
			"access_token": "at-123",
		},
	}

	token := TokensFromArgs(args)
	if token == nil {
		t.Fatal("TokensFromArgs() = nil, want token")
	}
	if token.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want %q", token.TokenType, "Bearer")
	}
	if token.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil", token.ExpiresAt)
	}
	if token.IsExpired() {
		t.Error("token without expiry should not report expired")
	}
}

func TestTokensFromArgs_NaiveTimestamp(t *testing.T) {
	// Timestamps persisted without a zone offset must still parse
	args := map[string]interface{}{
		"tokens": map[string]interface{}{
			"access_token": "at-123",
			"expires_at":   "2026-03-01T12:00:00.123456",
		},
	}

	token := TokensFromArgs(args)
	if token == nil {
		t.Fatal("TokensFromArgs() = nil, want token")
	}
	if token.ExpiresAt == nil {
		t.Fatal("ExpiresAt = nil, want parsed time")
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 123456000, time.UTC)
	if !token.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", token.ExpiresAt, want)
	}
}

func TestTokensFromArgs_MalformedExpiry(t *testing.T) {
	args := map[string]interface{}{
		"tokens": map[string]interface{}{
			"access_token": "at-123",
			"expires_at":   "not-a-timestamp",
		},
	}

	token := TokensFromArgs(args)
	if token == nil {
		t.Fatal("TokensFromArgs() = nil, want token")
	}
	if token.AccessToken != "at-123" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "at-123")
	}
	if token.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want nil for malformed input", token.ExpiresAt)
	}
}

func TestAccessTokenFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args map[string]interface{}
		want string
	}{
		{
			name: "present",
			args: map[string]interface{}{
				"tokens": map[string]interface{}{"access_token": "at-123"},
			},
			want: "at-123",
		},
		{
			name: "empty tokens object",
			args: map[string]interface{}{"tokens": map[string]interface{}{}},
			want: "",
		},
		{
			name: "no tokens",
			args: map[string]interface{}{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccessTokenFromArgs(tt.args); got != tt.want {
				t.Errorf("AccessTokenFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}
