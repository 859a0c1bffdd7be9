package repository

import (
	"fmt"

	"github.com/navikt/zbook/internal/config"
	"github.com/navikt/zbook/internal/repository/memory"
	"github.com/navikt/zbook/internal/repository/redis"
	"github.com/navikt/zbook/internal/repository/sqlstore"
)

// NewRepository creates the store selected by the storage configuration
func NewRepository(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		repo, err := redis.NewRepository(cfg.Redis)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendSQL:
		repo, err := sqlstore.Open(cfg.SQL)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case config.BackendMemory, "":
		return memory.NewRepository(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
