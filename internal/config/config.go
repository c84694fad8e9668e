// Package config holds the connection settings for the query endpoint.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults match a Druid router on the local machine.
const (
	DefaultEndpoint = "http://localhost"
	DefaultPort     = 8888
)

// Config locates the native query endpoint. Requests are sent to
// "{Endpoint}:{Port}".
type Config struct {
	Endpoint string `yaml:"endpoint"`
	Port     int    `yaml:"port"`
}

// Default returns the configuration used when nothing else is given.
func Default() Config {
	return Config{Endpoint: DefaultEndpoint, Port: DefaultPort}
}

// Load reads a YAML file. Keys missing from the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that Endpoint is an absolute http(s) URL without a port
// and that Port is in range.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint %q: scheme must be http or https", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q: missing host", c.Endpoint)
	}
	if u.Port() != "" {
		return fmt.Errorf("endpoint %q: set the port with the port field", c.Endpoint)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	return nil
}

// Address is the URL queries are POSTed to.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", strings.TrimSuffix(c.Endpoint, "/"), c.Port)
}
