package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultRedirectURI is where providers send the user back after consent.
const DefaultRedirectURI = "http://localhost:3000/auth/callback"

// ProviderSettings holds the OAuth client registration for one provider.
type ProviderSettings struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
}

// Settings is the full server configuration.
type Settings struct {
	// TenantID selects the Microsoft Entra tenant, "common" for multi-tenant.
	TenantID string

	// Microsoft is the primary provider registration.
	Microsoft ProviderSettings

	// GitHub is set when a GitHub OAuth app is configured.
	GitHub *ProviderSettings

	// Google is set when a Google OAuth client is configured.
	Google *ProviderSettings

	// Debug enables debug logging.
	Debug bool
}

// settingsEnv holds raw env values for the server configuration.
type settingsEnv struct {
	AzureClientID     string   `env:"AZURE_CLIENT_ID"`
	AzureTenantID     string   `env:"AZURE_TENANT_ID"      envDefault:"common"`
	AzureClientSecret string   `env:"AZURE_CLIENT_SECRET"`
	AzureRedirectURI  string   `env:"AZURE_REDIRECT_URI"   envDefault:"http://localhost:3000/auth/callback"`
	TeamsScopes       []string `env:"TEAMS_SCOPES"         envSeparator:"," envDefault:"Chat.ReadWrite,ChatMessage.Send,User.Read,offline_access"`

	GitHubClientID     string   `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string   `env:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURI  string   `env:"GITHUB_REDIRECT_URI"  envDefault:"http://localhost:3000/auth/callback"`
	GitHubScopes       []string `env:"GITHUB_SCOPES"        envSeparator:","`

	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string   `env:"GOOGLE_REDIRECT_URI"  envDefault:"http://localhost:3000/auth/callback"`
	GoogleScopes       []string `env:"GOOGLE_SCOPES"        envSeparator:","`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads settings from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	var raw settingsEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	settings := &Settings{
		TenantID: raw.AzureTenantID,
		Microsoft: ProviderSettings{
			ClientID:     raw.AzureClientID,
			ClientSecret: raw.AzureClientSecret,
			RedirectURI:  raw.AzureRedirectURI,
			Scopes:       trimCSV(raw.TeamsScopes),
		},
		Debug: raw.Debug,
	}

	if raw.GitHubClientID != "" {
		scopes := trimCSV(raw.GitHubScopes)
		if len(scopes) == 0 {
			scopes = []string{"repo", "user"}
		}
		settings.GitHub = &ProviderSettings{
			ClientID:     raw.GitHubClientID,
			ClientSecret: raw.GitHubClientSecret,
			RedirectURI:  raw.GitHubRedirectURI,
			Scopes:       scopes,
		}
	}

	if raw.GoogleClientID != "" {
		scopes := trimCSV(raw.GoogleScopes)
		if len(scopes) == 0 {
			scopes = []string{"https://www.googleapis.com/auth/drive.readonly"}
		}
		settings.Google = &ProviderSettings{
			ClientID:     raw.GoogleClientID,
			ClientSecret: raw.GoogleClientSecret,
			RedirectURI:  raw.GoogleRedirectURI,
			Scopes:       scopes,
		}
	}

	return settings, nil
}

// trimCSV removes empty entries from a string slice.
func trimCSV(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
