package prodcrawl

import "time"

// Default configuration values.
const (
	DefaultDelay       = 1 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultMaxRetries  = 3
	DefaultUserAgent   = "Product Crawler"
	DefaultOutputDir   = "output"
	DefaultMaxDepth    = 3
	DefaultMaxPages    = 1000
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Dedup selects the visited-set implementation.
type Dedup string

// Supported visited-set implementations.
const (
	// DedupExact remembers every visited URL.
	DedupExact Dedup = "exact"

	// DedupBloom uses a fixed-size Bloom filter. A false positive makes the
	// crawler skip a page it has not seen; it never visits a page twice.
	DedupBloom Dedup = "bloom"
)

// SelectorRules maps each field to CSS selectors in priority order.
type SelectorRules map[Field][]string

// DefaultSelectorRules returns the built-in selector chains.
func DefaultSelectorRules() SelectorRules {
	return SelectorRules{
		FieldName:     {".product-title", ".product-name", "h1.title"},
		FieldPrice:    {".price", ".product-price", ".current-price"},
		FieldCategory: {".breadcrumb", ".category", ".product-category"},
		FieldSKU:      {".sku", ".product-sku", ".product-code"},
		FieldStock:    {".stock-status", ".availability", ".inventory"},
	}
}

// Clone returns a deep copy so callers cannot mutate shared chains.
func (r SelectorRules) Clone() SelectorRules {
	out := make(SelectorRules, len(r))
	for f, chain := range r {
		out[f] = append([]string(nil), chain...)
	}
	return out
}

// Validate checks that only known fields are configured and that no
// selector is blank. Selector syntax is checked by the goquery package.
func (r SelectorRules) Validate() error {
	for f, chain := range r {
		if !isKnownField(f) {
			return Errorf(EINVALID, "unknown selector field %q", f)
		}
		for _, sel := range chain {
			if sel == "" {
				return Errorf(EINVALID, "empty selector for field %q", f)
			}
		}
	}
	return nil
}

func isKnownField(f Field) bool {
	for _, known := range Fields {
		if f == known {
			return true
		}
	}
	return false
}

// Config holds the settings of a crawl. It is read-only once a crawl starts.
type Config struct {
	// Delay is the pause after every processed page.
	Delay time.Duration

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// MaxRetries is how many times a transient fetch failure is retried.
	MaxRetries int

	UserAgent string
	Selectors SelectorRules

	// OutputDir receives one CSV file per run.
	OutputDir string

	// MaxPages caps the number of pages fetched in one run.
	MaxPages int

	// RequestsPerSecond limits requests per host. Zero disables the limiter.
	RequestsPerSecond float64

	Scope       Scope
	Dedup       Dedup
	MaxBodySize int64
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Delay:       DefaultDelay,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
		UserAgent:   DefaultUserAgent,
		Selectors:   DefaultSelectorRules(),
		OutputDir:   DefaultOutputDir,
		MaxPages:    DefaultMaxPages,
		Scope:       ScopeOrigin,
		Dedup:       DedupExact,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Validate returns an error if the config contains invalid fields.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return Errorf(EINVALID, "delay must not be negative")
	}
	if c.Timeout <= 0 {
		return Errorf(EINVALID, "timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	if c.UserAgent == "" {
		return Errorf(EINVALID, "user agent required")
	}
	if c.OutputDir == "" {
		return Errorf(EINVALID, "output directory required")
	}
	if c.MaxPages <= 0 {
		return Errorf(EINVALID, "max pages must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return Errorf(EINVALID, "requests per second must not be negative")
	}
	if c.MaxBodySize <= 0 {
		return Errorf(EINVALID, "max body size must be positive")
	}
	if err := c.Scope.Validate(); err != nil {
		return err
	}
	switch c.Dedup {
	case DedupExact, DedupBloom:
	default:
		return Errorf(EINVALID, "unknown dedup mode %q (want %q or %q)", c.Dedup, DedupExact, DedupBloom)
	}
	return c.Selectors.Validate()
}

// RetryDelays returns the exponential backoff schedule implied by
// MaxRetries: 1s, 2s, 4s, ...
func (c *Config) RetryDelays() []time.Duration {
	delays := make([]time.Duration, c.MaxRetries)
	d := time.Second
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}
