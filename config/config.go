// Package config loads and validates BifrostQL's connection, dialect, and
// metadata-source configuration via github.com/spf13/viper, adding struct-tag
// validation on top of GraphJin's core/config.go Validate() pattern (spec
// §1's ambient "Configuration" concern, spec §7's "config errors (startup,
// fatal): invalid metadata format, missing connection string").
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/standardbeagle/BifrostQL-sub002/schema"
)

// SupportedDBTypes lists the dialects this module can introspect and
// translate SQL for (spec §2's four-dialect requirement).
var SupportedDBTypes = []string{"postgres", "mysql", "sqlserver", "sqlite"}

// ValidateDBType reports an error unless dbType names one of
// SupportedDBTypes, case-insensitively.
func ValidateDBType(dbType string) error {
	for _, t := range SupportedDBTypes {
		if strings.EqualFold(dbType, t) {
			return nil
		}
	}
	return fmt.Errorf("config: unsupported database type %q: supported types are %s", dbType, strings.Join(SupportedDBTypes, ", "))
}

// Database holds the connection settings for the one database this process
// introspects and serves (spec §4.2's SchemaReader.ReadSchema(connection)
// contract).
type Database struct {
	Type         string `mapstructure:"type" validate:"required,oneof=postgres mysql sqlserver sqlite"`
	DSN          string `mapstructure:"dsn" validate:"required"`
	Schema       string `mapstructure:"schema"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"omitempty,min=1"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"omitempty,min=0"`
}

// TreeSyncConfig exposes the tree sync engine's MaxDepth/DeleteOrphans
// knobs (spec §4.7) through the same config file.
type TreeSyncConfig struct {
	MaxDepth      int  `mapstructure:"max_depth" validate:"omitempty,min=1"`
	DeleteOrphans bool `mapstructure:"delete_orphans"`
}

// Config is the top-level BifrostQL configuration, grounded on
// core/config.go's Config shape and Validate() convention, generalized with
// go-playground/validator struct tags rather than hand-rolled field checks.
type Config struct {
	Database     Database       `mapstructure:"database" validate:"required"`
	MetadataFile string         `mapstructure:"metadata_file"`
	TreeSync     TreeSyncConfig `mapstructure:"tree_sync"`
	CacheSize    int            `mapstructure:"cache_size" validate:"omitempty,min=1"`
	LogLevel     string         `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat    string         `mapstructure:"log_format" validate:"omitempty,oneof=json console"`
}

var structValidator = validator.New()

// Validate runs struct-tag validation followed by the dialect cross-check,
// matching core/config.go's Validate() but layering in field-level rules
// that config.go left to ad hoc string checks.
func (c *Config) Validate() error {
	if err := structValidator.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return ValidateDBType(c.Database.Type)
}

func newViperWithDefaults() *viper.Viper {
	v := viper.New()
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("tree_sync.max_depth", 3) // matches treesync.DefaultMaxDepth
	v.SetDefault("tree_sync.delete_orphans", true)
	v.SetDefault("cache_size", 500)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	return v
}

// Load reads and validates configuration from configFile. The format (YAML,
// JSON, TOML) is auto-detected by viper from the file extension, matching
// core/config.go's readInConfig.
func Load(configFile string) (*Config, error) {
	v := newViperWithDefaults()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %q: %w", configFile, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to decode %q: %w", configFile, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadMetadataFile reads a schema.RawMetadata document (spec §4.3) from a
// YAML/JSON sidecar file through its own viper instance, keeping the
// metadata document's format independent of the connection config's. An
// empty path is not an error — it means no metadata overrides apply.
func LoadMetadataFile(path string) (schema.RawMetadata, error) {
	if path == "" {
		return schema.RawMetadata{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return schema.RawMetadata{}, fmt.Errorf("config: failed to read metadata file %q: %w", path, err)
	}

	var raw schema.RawMetadata
	if err := v.Unmarshal(&raw); err != nil {
		return schema.RawMetadata{}, fmt.Errorf("config: failed to decode metadata file %q: %w", path, err)
	}
	return raw, nil
}
