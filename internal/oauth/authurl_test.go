package oauth

import (
	"errors"
	"net/url"
	"strings"
	"testing"
)

func TestBuildAuthURLGenericScenario(t *testing.T) {
	cfg := &Config{
		ClientID:              "c",
		AuthorizationEndpoint: "https://e/a",
		TokenEndpoint:         "https://e/t",
		Scopes:                []string{"r", "w"},
	}

	got := buildAuthURL(cfg, "S", "CH", nil)

	if !strings.HasPrefix(got, "https://e/a?") {
		t.Fatalf("buildAuthURL() = %q, want prefix %q", got, "https://e/a?")
	}

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	q := u.Query()

	checks := map[string]string{
		"client_id":             "c",
		"response_type":         "code",
		"redirect_uri":          DefaultRedirectURI,
		"state":                 "S",
		"code_challenge":        "CH",
		"code_challenge_method": "S256",
		"scope":                 "r w",
	}
	for key, want := range checks {
		if got := q.Get(key); got != want {
			t.Errorf("query[%s] = %q, want %q", key, got, want)
		}
	}

	// The raw query must carry the space as + or %20
	if !strings.Contains(got, "scope=r+w") && !strings.Contains(got, "scope=r%20w") {
		t.Errorf("buildAuthURL() = %q, want scope joined with encoded space", got)
	}
}

func TestBuildAuthURLWithoutChallenge(t *testing.T) {
	cfg := &Config{
		ClientID:              "c",
		AuthorizationEndpoint: "https://e/a",
		TokenEndpoint:         "https://e/t",
	}

	got := buildAuthURL(cfg, "S", "", nil)
	q, err := url.Parse(got)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}

	if q.Query().Has("code_challenge") {
		t.Error("code_challenge present without a challenge")
	}
	if q.Query().Has("code_challenge_method") {
		t.Error("code_challenge_method present without a challenge")
	}
	if q.Query().Has("scope") {
		t.Error("scope present without configured scopes")
	}
}

func TestBuildAuthURLExtraParamsOverride(t *testing.T) {
	cfg := &Config{
		ClientID:              "c",
		AuthorizationEndpoint: "https://e/a",
		TokenEndpoint:         "https://e/t",
	}

	got := buildAuthURL(cfg, "S", "", map[string]string{
		"prompt": "consent",
		"state":  "overridden",
	})
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("url.Parse() error = %v", err)
	}
	q := u.Query()

	if q.Get("prompt") != "consent" {
		t.Errorf("query[prompt] = %q, want %q", q.Get("prompt"), "consent")
	}
	// Extra parameters are merged last and win on collision
	if q.Get("state") != "overridden" {
		t.Errorf("query[state] = %q, want %q", q.Get("state"), "overridden")
	}
}

func TestStateFromCallback(t *testing.T) {
	tests := []struct {
		name        string
		callbackURL string
		want        string
		wantErr     bool
	}{
		{
			name:        "state present",
			callbackURL: "http://localhost:3000/auth/callback?code=abc&state=xyz",
			want:        "xyz",
		},
		{
			name:        "no state",
			callbackURL: "http://localhost:3000/auth/callback?code=abc",
			wantErr:     true,
		},
		{
			name:        "empty url",
			callbackURL: "",
			wantErr:     true,
		},
		{
			name:        "unparseable url",
			callbackURL: "http://%zz",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StateFromCallback(tt.callbackURL)
			if tt.wantErr {
				var cbErr *CallbackError
				if !errors.As(err, &cbErr) {
					t.Fatalf("StateFromCallback() error = %v, want *CallbackError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("StateFromCallback() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("StateFromCallback() = %q, want %q", got, tt.want)
			}
		})
	}
}
