package oauth

// NewGenericProvider builds a provider for an arbitrary OAuth2 endpoint pair.
// The name becomes the tool name prefix ("github" yields github_is_authenticated
// and github_authorize). The config must carry both endpoints.
func NewGenericProvider(name string, config *Config, opts ...Option) (*Provider, error) {
	return newProvider(name, config, opts...)
}
