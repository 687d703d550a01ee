package dupecheck

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-ini/ini"
)

// Config represents the dupecheck configuration file. A missing file is not
// an error (built-in defaults apply); a malformed file is a configuration
// error and aborts before scanning.
type Config struct {
	configPath string
	ini        *ini.File
}

// HashConfig represents hash algorithm configuration
type HashConfig struct {
	Default string // default hash algorithm
}

// CacheConfig represents cache store configuration
type CacheConfig struct {
	Path string // default cache store path ("" means DefaultCacheName in cwd)
}

// VerboseConfig represents verbosity configuration
type VerboseConfig struct {
	Level int    // default verbose level (0=quiet, 1=basic, 2=detailed, 3=trace)
	Debug string // default debug flags (comma-separated)
}

// ExcludeConfig represents exclude rule configuration
type ExcludeConfig struct {
	Defaults bool // apply the default .git/.svn rules
}

// DefaultConfigPath returns the per-user config file location
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "dupecheck", "config")
}

// LoadConfig loads configuration from configPath
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{configPath: configPath}

	if configPath == "" {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg.ini = ini.Empty()
		return cfg, nil
	}

	iniFile, err := ini.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	cfg.ini = iniFile

	return cfg, nil
}

// GetHashConfig returns the hash configuration
func (c *Config) GetHashConfig() *HashConfig {
	hashConfig := &HashConfig{
		Default: "sha256", // fallback default
	}

	if c.ini.HasSection("filehash") {
		section := c.ini.Section("filehash")
		if section.HasKey("default") {
			hashConfig.Default = section.Key("default").String()
		}
	}

	return hashConfig
}

// GetCacheConfig returns the cache configuration
func (c *Config) GetCacheConfig() *CacheConfig {
	cacheConfig := &CacheConfig{}

	if c.ini.HasSection("cache") {
		section := c.ini.Section("cache")
		if section.HasKey("path") {
			cacheConfig.Path = section.Key("path").String()
		}
	}

	return cacheConfig
}

// GetVerboseConfig returns the verbose configuration
func (c *Config) GetVerboseConfig() *VerboseConfig {
	verboseConfig := &VerboseConfig{}

	if c.ini.HasSection("verbose") {
		section := c.ini.Section("verbose")
		if section.HasKey("level") {
			if level, err := section.Key("level").Int(); err == nil {
				verboseConfig.Level = level
			}
		}
		if section.HasKey("debug") {
			verboseConfig.Debug = section.Key("debug").String()
		}
	}

	return verboseConfig
}

// GetExcludeConfig returns the exclude configuration
func (c *Config) GetExcludeConfig() *ExcludeConfig {
	excludeConfig := &ExcludeConfig{
		Defaults: true, // fallback default
	}

	if c.ini.HasSection("exclude") {
		section := c.ini.Section("exclude")
		if section.HasKey("defaults") {
			if defaults, err := section.Key("defaults").Bool(); err == nil {
				excludeConfig.Defaults = defaults
			}
		}
	}

	return excludeConfig
}

// ValidateHashAlgorithm validates that a hash algorithm is supported
func ValidateHashAlgorithm(algorithm string) error {
	if _, err := GetHashAlgorithm(algorithm); err != nil {
		return fmt.Errorf("%w (supported: sha1, sha256, sha512)", err)
	}
	return nil
}

// ValidateVerboseLevel validates that a verbose level is valid
func ValidateVerboseLevel(level int) error {
	if level < 0 || level > 3 {
		return fmt.Errorf("invalid verbose level: %d (supported: 0-3)", level)
	}
	return nil
}
