package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogledger/app/cache"
	"blogledger/app/config"
	"blogledger/app/repositories"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// newFlagSet returns a flag set carrying the shared config flags
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	config.RegisterFlags(fs)
	return fs
}

// loadConfig parses args into fs and loads the configuration they select
func loadConfig(fs *pflag.FlagSet, args []string) (*config.Config, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg, err := config.Load(fs)
	if err != nil {
		return nil, err
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// siblingDir returns a directory next to the badger data directory, so
// backups and keys follow data_dir around.
func siblingDir(cfg *config.Config, name string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(cfg.DataDir)), name)
}

func openStore(cfg *config.Config) (*repositories.BadgerStore, error) {
	size, err := cfg.ValueLogFileSize()
	if err != nil {
		return nil, err
	}
	return repositories.NewBadgerStore(repositories.BadgerOptions{
		Path:             cfg.DataDir,
		SyncWrites:       cfg.Badger.SyncWrites,
		ValueLogFileSize: size,
		MaxRetries:       cfg.Store.MaxRetries,
	})
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.TTL), nil
	case config.CacheRedis:
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			TTL:      cfg.Cache.TTL,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NoOpCache{}, nil
	}
}

// confirm asks a yes/no question on stdin; anything but y/Y is a no
func confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N] ")
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && response == "" {
		log.WithError(err).Debug("no answer on stdin")
		return false
	}
	response = strings.TrimSpace(response)
	return response == "y" || response == "Y"
}
