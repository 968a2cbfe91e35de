package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Log         LogConfig         `yaml:"log"`
	Matching    MatchingConfig    `yaml:"matching"`
	Rendering   RenderingConfig   `yaml:"rendering"`
	ContextLoad ContextLoadConfig `yaml:"context_load"`
	Retention   RetentionConfig   `yaml:"retention"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds storage connection settings. Pool sizing applies to
// postgres only.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MatchingConfig tunes event matching.
type MatchingConfig struct {
	// ExclusiveEnd makes the upper bound of the time window exclusive.
	ExclusiveEnd bool `yaml:"exclusive_end" env:"MATCHING_EXCLUSIVE_END" env-default:"false"`
	// DescendantFollowingMediums lists medium names whose following relation
	// runs from groups down to their members.
	DescendantFollowingMediums []string `yaml:"descendant_following_mediums" env:"MATCHING_DESCENDANT_FOLLOWING_MEDIUMS" env-separator:","`
}

// UsesDescendantFollowing reports whether the medium is configured with the
// reversed following relation.
func (c MatchingConfig) UsesDescendantFollowing(medium string) bool {
	return slices.Contains(c.DescendantFollowingMediums, medium)
}

// RenderingConfig holds template rendering settings.
type RenderingConfig struct {
	DefaultStyle string `yaml:"default_style" env:"RENDERING_DEFAULT_STYLE" env-default:"default"`
	TemplateDir  string `yaml:"template_dir"  env:"RENDERING_TEMPLATE_DIR"`
}

// ContextLoadConfig holds batching parameters for context hydration.
type ContextLoadConfig struct {
	BatchCapacity int           `yaml:"batch_capacity" env:"CONTEXT_LOAD_BATCH_CAPACITY" env-default:"500"`
	Wait          time.Duration `yaml:"wait"           env:"CONTEXT_LOAD_WAIT"           env-default:"2ms"`
}

// RetentionConfig controls what cmd/cleanup purges.
type RetentionConfig struct {
	// ExpiredGrace is how long an expired event is kept before deletion.
	ExpiredGrace time.Duration `yaml:"expired_grace"  env:"RETENTION_EXPIRED_GRACE"  env-default:"168h"`
	// SeenRetention is how long seen markers are kept. Zero keeps them forever.
	SeenRetention time.Duration `yaml:"seen_retention" env:"RETENTION_SEEN_RETENTION" env-default:"2160h"`
}
