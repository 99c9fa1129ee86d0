package config

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/gematria/internal/gematria"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535] (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if err := c.Catalog.validate(); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	if c.RateLimit.WritesPerMinute < 0 {
		return fmt.Errorf("rate_limit.writes_per_minute must be >= 0 (got %d)", c.RateLimit.WritesPerMinute)
	}
	if c.RateLimit.WritesPerMinute > 0 && c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 when the limiter is enabled")
	}

	return nil
}

func (e *EngineConfig) validate() error {
	if e.MaxInputLength < 0 {
		return fmt.Errorf("max_input_length must be >= 0 (got %d)", e.MaxInputLength)
	}
	if e.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", e.Workers)
	}
	return nil
}

func (c *CatalogConfig) validate() error {
	if c.MaxLimit <= 0 {
		return fmt.Errorf("max_limit must be > 0 (got %d)", c.MaxLimit)
	}
	if c.DefaultLimit <= 0 || c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("default_limit must be in [1, %d] (got %d)", c.MaxLimit, c.DefaultLimit)
	}

	methods, err := ParseMethods(c.RelatedMethodsRaw)
	if err != nil {
		return fmt.Errorf("related_methods: %w", err)
	}
	if len(methods) == 0 {
		methods = gematria.AllMethods()
	}
	c.RelatedMethods = methods

	return nil
}

// ParseMethods parses a comma-separated list of method keys
// (e.g. "english_gematria,hebrew_katan"). Duplicates are dropped; an empty
// string returns a nil slice.
func ParseMethods(raw string) ([]gematria.MethodID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	methods := make([]gematria.MethodID, 0, len(parts))
	seen := make(map[gematria.MethodID]bool, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := gematria.ParseMethodID(p)
		if err != nil {
			return nil, err
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		methods = append(methods, id)
	}

	return methods, nil
}
