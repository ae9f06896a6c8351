package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"lyrics-etymology/internal/config"
	"lyrics-etymology/pkg/kvcache"
	"lyrics-etymology/pkg/redis"
)

const (
	etymologyPrefix   = "ety:"
	translationPrefix = "tr:"
)

// backingStore 配置的缓存后端，以及退出时需要释放的资源
type backingStore struct {
	kvcache.Store
	closer io.Closer
	redis  *redis.Client
}

func (b backingStore) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

func newStore(cfg config.Config) (backingStore, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return backingStore{Store: kvcache.NewMemoryStore()}, nil
	case "file":
		fs, err := kvcache.NewFileStore(cfg.Cache.FilePath)
		if err != nil {
			return backingStore{}, err
		}
		return backingStore{Store: fs}, nil
	case "redis":
		client, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return backingStore{}, fmt.Errorf("connect redis %s: %w", cfg.Redis.Addr, err)
		}
		return backingStore{Store: kvcache.NewRedisStore(client), closer: client, redis: client}, nil
	case "sqlite":
		if cfg.Cache.SQLitePath != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Cache.SQLitePath), 0o755); err != nil {
				return backingStore{}, err
			}
		}
		db, err := kvcache.OpenSQLite(cfg.Cache.SQLitePath)
		if err != nil {
			return backingStore{}, err
		}
		return backingStore{Store: db, closer: db}, nil
	}
	return backingStore{}, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
}
