package kvstore

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/talkincode/storefront/config"
)

// Backend types accepted by Open.
const (
	TypeBolt     = "bolt"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Open builds the backend selected by cfg.Database.Type. An empty type
// selects bolt.
func Open(cfg *config.AppConfig) (Backend, error) {
	quota := Quota{
		MaxValueBytes: cfg.Database.MaxValueBytes,
		MaxTotalBytes: cfg.Database.MaxTotalBytes,
	}
	switch strings.ToLower(cfg.Database.Type) {
	case "", TypeBolt:
		return OpenBolt(cfg.DatabasePath(), quota)
	case TypePostgres:
		return OpenPostgres(PostgresOptions{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Name:     cfg.Database.Name,
			User:     cfg.Database.User,
			Password: cfg.Database.Passwd,
			MaxConn:  cfg.Database.MaxConn,
			IdleConn: cfg.Database.IdleConn,
			Debug:    cfg.Database.Debug,
		}, quota)
	case TypeMemory:
		return NewMemoryBackend(quota), nil
	}
	return nil, errors.Errorf("unsupported database type %q", cfg.Database.Type)
}
