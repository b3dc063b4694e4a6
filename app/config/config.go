package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BLOGLEDGER_LISTEN_ADDR
const EnvPrefix = "BLOGLEDGER"

// Cache backends
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	DataDir    string       `mapstructure:"data_dir"`
	ListenAddr string       `mapstructure:"listen_addr"`
	Log        LogConfig    `mapstructure:"log"`
	Cache      CacheConfig  `mapstructure:"cache"`
	Badger     BadgerConfig `mapstructure:"badger"`
	Store      StoreConfig  `mapstructure:"store"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
}

type BadgerConfig struct {
	// ValueLogFileSize is a human size such as "64MB"
	ValueLogFileSize string `mapstructure:"value_log_file_size"`
	SyncWrites       bool   `mapstructure:"sync_writes"`
}

type StoreConfig struct {
	MaxRetries int `mapstructure:"max_retries"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data/badger")
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("cache.backend", CacheNone)
	v.SetDefault("cache.ttl", "5m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("badger.value_log_file_size", "64MB")
	v.SetDefault("badger.sync_writes", true)
	v.SetDefault("store.max_retries", 16)
}

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"config":    "",
	"data-dir":  "data_dir",
	"listen":    "listen_addr",
	"log-level": "log.level",
	"cache":     "cache.backend",
}

// RegisterFlags adds the flags understood by Load to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("data-dir", "", "badger data directory")
	fs.String("listen", "", "HTTP listen address")
	fs.String("log-level", "", "log level (trace, debug, info, warn, error)")
	fs.String("cache", "", "record cache backend (none, memory, redis)")
}

// Load reads configuration from, in order of precedence, flags that were set
// on fs, BLOGLEDGER_* environment variables, the config file and defaults.
// fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := os.Getenv(EnvPrefix + "_CONFIG")
	if fs != nil {
		if f := fs.Lookup("config"); f != nil && f.Changed {
			path = f.Value.String()
		}
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if key == "" || f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the application cannot run with
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %s", c.Cache.TTL)
	}
	if _, err := c.ValueLogFileSize(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// ValueLogFileSize returns the badger value log size in bytes
func (c *Config) ValueLogFileSize() (int64, error) {
	var size datasize.ByteSize
	if err := size.UnmarshalText([]byte(c.Badger.ValueLogFileSize)); err != nil {
		return 0, fmt.Errorf("invalid badger.value_log_file_size %q: %w", c.Badger.ValueLogFileSize, err)
	}
	return int64(size.Bytes()), nil
}

// ConfigureLogging applies the log level and format to the standard logrus logger
func ConfigureLogging(c LogConfig) error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
