// Package yaml loads crawl configuration from YAML files.
package yaml

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fwojciec/prodcrawl"
	"github.com/fwojciec/prodcrawl/goquery"
	"gopkg.in/yaml.v3"
)

// file mirrors the YAML document. Pointer fields distinguish absent keys
// from zero values.
type file struct {
	Delay             *string             `yaml:"delay"`
	Timeout           *string             `yaml:"timeout"`
	MaxRetries        *int                `yaml:"max_retries"`
	UserAgent         *string             `yaml:"user_agent"`
	OutputDir         *string             `yaml:"output_dir"`
	MaxPages          *int                `yaml:"max_pages"`
	RequestsPerSecond *float64            `yaml:"requests_per_second"`
	Scope             *string             `yaml:"scope"`
	Dedup             *string             `yaml:"dedup"`
	MaxBodySize       *int64              `yaml:"max_body_size"`
	Selectors         map[string][]string `yaml:"selectors"`
}

// LoadConfig reads the YAML file at path over prodcrawl.DefaultConfig.
// Returns ENOTFOUND if the file does not exist and EINVALID if it cannot be
// parsed or describes an invalid configuration.
func LoadConfig(path string) (*prodcrawl.Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, prodcrawl.Errorf(prodcrawl.ENOTFOUND, "config file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f, prodcrawl.DefaultConfig())
}

// Decode applies the YAML document read from r on top of a copy of base and
// validates the result. Keys absent from the document keep their base
// values; a field listed under selectors replaces that field's whole chain.
func Decode(r io.Reader, base *prodcrawl.Config) (*prodcrawl.Config, error) {
	var doc file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, prodcrawl.Errorf(prodcrawl.EINVALID, "parse config: %v", err)
	}

	cfg := *base
	cfg.Selectors = base.Selectors.Clone()

	if err := doc.apply(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := goquery.ValidateRules(cfg.Selectors); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (doc *file) apply(cfg *prodcrawl.Config) error {
	if doc.Delay != nil {
		d, err := parseDuration("delay", *doc.Delay)
		if err != nil {
			return err
		}
		cfg.Delay = d
	}
	if doc.Timeout != nil {
		d, err := parseDuration("timeout", *doc.Timeout)
		if err != nil {
			return err
		}
		cfg.Timeout = d
	}
	if doc.MaxRetries != nil {
		cfg.MaxRetries = *doc.MaxRetries
	}
	if doc.UserAgent != nil {
		cfg.UserAgent = *doc.UserAgent
	}
	if doc.OutputDir != nil {
		cfg.OutputDir = *doc.OutputDir
	}
	if doc.MaxPages != nil {
		cfg.MaxPages = *doc.MaxPages
	}
	if doc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *doc.RequestsPerSecond
	}
	if doc.Scope != nil {
		cfg.Scope = prodcrawl.Scope(*doc.Scope)
	}
	if doc.Dedup != nil {
		cfg.Dedup = prodcrawl.Dedup(*doc.Dedup)
	}
	if doc.MaxBodySize != nil {
		cfg.MaxBodySize = *doc.MaxBodySize
	}
	for field, chain := range doc.Selectors {
		if len(chain) == 0 {
			return prodcrawl.Errorf(prodcrawl.EINVALID, "selector chain for %q is empty", field)
		}
		cfg.Selectors[prodcrawl.Field(field)] = append([]string(nil), chain...)
	}
	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, prodcrawl.Errorf(prodcrawl.EINVALID, "invalid %s %q: %v", key, value, err)
	}
	return d, nil
}
