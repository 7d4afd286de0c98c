// Package config loads and validates the linkrouter configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/linkrouter/internal/errors"
)

// Config is the root configuration document.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Rewrite RewriteConfig `yaml:"rewrite"`
	Report  ReportConfig  `yaml:"report,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// SiteConfig describes the documentation tree being processed.
type SiteConfig struct {
	// Base is the path prefix the site is mounted under. Defaults to "/".
	Base string `yaml:"base,omitempty"`
	// Source is the markdown source directory. Defaults to "docs".
	Source string `yaml:"source,omitempty"`
	// Output is the rewritten-markup output directory. Defaults to "dist".
	Output string `yaml:"output,omitempty"`
}

// Attr is one external-link attribute. Attributes are applied in list order,
// so overwrite behavior is deterministic.
type Attr struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// RewriteConfig carries the link rewriting options.
type RewriteConfig struct {
	// InternalTag is one of a, RouteLink, RouterLink. Defaults to RouteLink.
	InternalTag string `yaml:"internal_tag,omitempty"`
	// ExternalAttrs replace the default target/rel attribute set when given.
	ExternalAttrs []Attr `yaml:"external_attrs,omitempty"`
}

// ReportConfig controls where collected link records go.
type ReportConfig struct {
	// Path of the JSON link report; empty disables the report file.
	Path string `yaml:"path,omitempty"`
	// Store is the sqlite database path; empty disables persistence.
	Store string `yaml:"store,omitempty"`
	// NATS enables link-record event publication.
	NATS *NATSConfig `yaml:"nats,omitempty"`
}

// NATSConfig configures the JetStream publisher for link-record events.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig enables the Prometheus recorder and, in watch mode, the
// /metrics listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	// Debounce is a duration string; rapid change bursts within the window
	// trigger a single rebuild. Defaults to "500ms".
	Debounce string `yaml:"debounce,omitempty"`
}

// Load reads, normalizes and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to read configuration")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "failed to parse configuration").
			WithContext("path", path)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Site.Base == "" {
		c.Site.Base = "/"
	}
	if c.Site.Source == "" {
		c.Site.Source = "docs"
	}
	if c.Site.Output == "" {
		c.Site.Output = "dist"
	}
	if c.Rewrite.InternalTag == "" {
		c.Rewrite.InternalTag = "RouteLink"
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
	if c.Report.NATS != nil && c.Report.NATS.Enabled {
		if c.Report.NATS.URL == "" {
			c.Report.NATS.URL = envOr("LINKROUTER_NATS_URL", "nats://localhost:4222")
		}
		if c.Report.NATS.Subject == "" {
			c.Report.NATS.Subject = "linkrouter.links"
		}
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9464"
	}
}

// Validate checks invariants the pipeline relies on.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Site.Base, "/") {
		return errors.ValidationFailed("site.base", "must start with /")
	}
	if !strings.HasSuffix(c.Site.Base, "/") {
		return errors.ValidationFailed("site.base", "must end with /")
	}
	switch c.Rewrite.InternalTag {
	case "a", "RouteLink", "RouterLink":
	default:
		return errors.ValidationFailed("rewrite.internal_tag",
			fmt.Sprintf("unsupported tag %q (want a, RouteLink or RouterLink)", c.Rewrite.InternalTag))
	}
	for i, a := range c.Rewrite.ExternalAttrs {
		if a.Name == "" {
			return errors.ValidationFailed(fmt.Sprintf("rewrite.external_attrs[%d].name", i), "must not be empty")
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// defaultConfig is the template written by `linkrouter init`.
const defaultConfig = `# linkrouter configuration
site:
  base: /
  source: docs
  output: dist

rewrite:
  internal_tag: RouteLink
  # external_attrs:
  #   - name: target
  #     value: _blank
  #   - name: rel
  #     value: noopener noreferrer

report:
  path: links.json
  # store: linkrouter.db
  # nats:
  #   enabled: true
  #   url: nats://localhost:4222
  #   subject: linkrouter.links

# metrics:
#   enabled: true
#   listen: :9464
`

// Init writes a commented default configuration file.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.CategoryConfig, errors.SeverityFatal, "configuration file already exists").
				WithContext("path", path)
		}
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryFileSystem, errors.SeverityFatal, "failed to write configuration")
	}
	return nil
}
