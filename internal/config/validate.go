package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("database.driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if c.Database.Driver == DriverPostgres && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed database.max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if strings.TrimSpace(c.Rendering.DefaultStyle) == "" {
		return fmt.Errorf("rendering.default_style must not be empty")
	}

	if c.ContextLoad.BatchCapacity <= 0 {
		return fmt.Errorf("context_load.batch_capacity must be > 0 (got %d)", c.ContextLoad.BatchCapacity)
	}
	if c.ContextLoad.Wait < 0 {
		return fmt.Errorf("context_load.wait must be >= 0 (got %s)", c.ContextLoad.Wait)
	}

	if c.Retention.ExpiredGrace < 0 {
		return fmt.Errorf("retention.expired_grace must be >= 0 (got %s)", c.Retention.ExpiredGrace)
	}
	if c.Retention.SeenRetention < 0 {
		return fmt.Errorf("retention.seen_retention must be >= 0 (got %s)", c.Retention.SeenRetention)
	}

	for _, name := range c.Matching.DescendantFollowingMediums {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("matching.descendant_following_mediums must not contain empty names")
		}
	}

	return nil
}
