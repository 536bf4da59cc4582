package graphstore

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection parameters for the graph store adapter. Values
// default from HELIX_* environment variables the way the teacher's Config
// reads storage-location env vars, but are also settable directly for
// tests.
type Config struct {
	Host       string        `json:"host" yaml:"host"`
	Port       int           `json:"port" yaml:"port"`
	Timeout    time.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries int           `json:"max_retries" yaml:"max_retries"`
}

// DefaultConfig returns connection parameters overridden by HELIX_HOST,
// HELIX_PORT, HELIX_TIMEOUT (milliseconds), and HELIX_MAX_RETRIES when set.
func DefaultConfig() Config {
	cfg := Config{
		Host:       "localhost",
		Port:       6969,
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	}
	if v := os.Getenv("HELIX_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("HELIX_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("HELIX_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Timeout = time.Duration(n) * time.Millisecond
		}
	}
	if v := os.Getenv("HELIX_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxRetries = n
		}
	}
	return cfg
}

func (c Config) baseURL() string {
	return "http://" + c.Host + ":" + strconv.Itoa(c.Port)
}
