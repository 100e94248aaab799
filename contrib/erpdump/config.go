package erpdump

import (
	"fmt"
	"path/filepath"
)

// Config holds all options for a dump run.
type Config struct {
	// ERPDesk API endpoint (e.g., "https://erp.example.com/api")
	Endpoint string
	// Bearer token used for authentication
	Token string

	// Entities to dump: any of "invoices", "reports", "companies",
	// "systemlogs". Empty means all of them.
	Entities []string

	// Output file path
	Output string
	// Base directory for dumps (prefixes output path)
	Dir string

	// PageSize used while paging through each entity
	PageSize int

	// Enable verbose logging
	Verbose bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		PageSize: 100,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.Output == "" {
		return fmt.Errorf("output path is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}
	for _, e := range c.Entities {
		switch e {
		case "invoices", "reports", "companies", "systemlogs":
		default:
			return fmt.Errorf("unknown entity %q", e)
		}
	}
	return nil
}

// OutputPath returns the output path prefixed with the base directory when
// one is set.
func (c *Config) OutputPath() string {
	if c.Dir == "" {
		return c.Output
	}
	return filepath.Join(c.Dir, c.Output)
}
