package config

var _ Provider = (*DefaultLoader)(nil)

type Loader interface {
	Load(path string) (*Config, error)
}

type Initializer interface {
	Init(path string) error
}

type Provider interface {
	Initializer
	Loader
}

type DefaultLoader struct{}

// Config represents the .mcpcat.toml file structure.
// Every section is optional; anything left unset falls back to built-in defaults.
type Config struct {
	// Catalog configures how the remote catalog service is reached.
	Catalog *CatalogSection `json:"catalog,omitempty" toml:"catalog,omitempty" yaml:"catalog,omitempty"`

	// Cache configures freshness and retention of query results.
	Cache *CacheSection `json:"cache,omitempty" toml:"cache,omitempty" yaml:"cache,omitempty"`

	// API configures the local HTTP API started by 'mcpcat serve'.
	API *APISection `json:"api,omitempty" toml:"api,omitempty" yaml:"api,omitempty"`

	configFilePath string `toml:"-"`
}

// Path returns the file this configuration was loaded from, if any.
func (c *Config) Path() string {
	return c.configFilePath
}
