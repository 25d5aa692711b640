package model

import "time"

// Config holds the complete Anchorage configuration
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Anchor      AnchorConfig      `yaml:"anchor"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig controls document fetching
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// CacheConfig controls snapshot caching
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// AnchorConfig holds the tunable constants of the anchoring engine.
// The defaults are the documented constants; overriding them changes
// resolution behavior for every stored selector, so treat with care.
type AnchorConfig struct {
	ContextLength  int     `yaml:"context_length"`  // prefix/suffix window in bytes
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"` // minimum acceptance score for tiers 2 and 3
	MaxRadius      int     `yaml:"max_radius"`      // cap on the tier-2 search radius in bytes
}

// ConcurrencyConfig controls batch re-anchoring
type ConcurrencyConfig struct {
	ResolveWorkers int     `yaml:"resolve_workers"` // concurrent resolutions per snapshot
	FetchWorkers   int     `yaml:"fetch_workers"`   // concurrent source fetches in batch mode
	FetchRate      float64 `yaml:"fetch_rate"`      // per-domain fetches per second
	FetchBurst     int     `yaml:"fetch_burst"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose"`
	IncludeFooter bool `yaml:"include_footer"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      60 * time.Second,
			UserAgent:    "Anchorage/0.1 (+https://github.com/bhi5hmaraj/anchorage)",
			MaxBodyBytes: 4_000_000,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Anchor: AnchorConfig{
			ContextLength:  32,
			FuzzyThreshold: 0.75,
			MaxRadius:      4096,
		},
		Concurrency: ConcurrencyConfig{
			ResolveWorkers: 8,
			FetchWorkers:   4,
			FetchRate:      1.0,
			FetchBurst:     3,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
