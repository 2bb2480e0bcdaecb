package types

import "time"

// HTTPConfig holds shared HTTP settings used by loaders that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "personas/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourcesConfig locates the remote JSON and XML feeds.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the origin serving the feeds (e.g. "http://localhost:3000").
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// JSONPath is the path of the JSON feed below BaseURL.
	JSONPath string `json:"json_path" yaml:"json_path" mapstructure:"json_path"`

	// XMLPath is the path of the XML feed below BaseURL.
	XMLPath string `json:"xml_path" yaml:"xml_path" mapstructure:"xml_path"`
}

// StorageDriver selects the durable key-value backend.
type StorageDriver string

const (
	StorageSQLite StorageDriver = "sqlite"
	StorageRedis  StorageDriver = "redis"
	StorageMemory StorageDriver = "memory"
)

// StorageConfig holds settings for durable key-value storage.
type StorageConfig struct {
	// Driver selects the backend: sqlite, redis, or memory.
	Driver StorageDriver `json:"driver" yaml:"driver" mapstructure:"driver"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// RedisAddrs lists Redis addresses when Driver is redis.
	RedisAddrs []string `json:"redis_addrs" yaml:"redis_addrs" mapstructure:"redis_addrs"`

	// RedisPassword authenticates against Redis.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty" mapstructure:"redis_password"`

	// SecretsDir holds credential files; redis-password is read from it
	// when RedisPassword is empty.
	SecretsDir string `json:"secrets_dir" yaml:"secrets_dir" mapstructure:"secrets_dir"`

	// PersonasKey is the key holding locally registered people.
	PersonasKey string `json:"personas_key" yaml:"personas_key" mapstructure:"personas_key"`

	// ResultsKey is the key holding accumulated search results.
	ResultsKey string `json:"results_key" yaml:"results_key" mapstructure:"results_key"`
}

// LogConfig selects the logger flavour and level.
type LogConfig struct {
	// Env is "dev" (console output) or "prod" (JSON output).
	Env string `json:"env" yaml:"env" mapstructure:"env"`

	// Level overrides the default level: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// ServeConfig holds settings for the HTTP API.
type ServeConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// DataDir is served under /data/ so the feeds can be hosted locally.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// Config groups all settings.
type Config struct {
	Sources SourcesConfig `json:"sources" yaml:"sources" mapstructure:"sources"`
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// JSONURL returns the absolute URL of the JSON feed.
func (c SourcesConfig) JSONURL() string { return joinURL(c.BaseURL, c.JSONPath) }

// XMLURL returns the absolute URL of the XML feed.
func (c SourcesConfig) XMLURL() string { return joinURL(c.BaseURL, c.XMLPath) }

func joinURL(base, path string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	if path == "" {
		return base
	}
	if path[0] != '/' {
		path = "/" + path
	}
	return base + path
}
