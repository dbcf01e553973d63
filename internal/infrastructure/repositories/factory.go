package repositories

import (
	"vidboard/internal/core/ports"
	"vidboard/internal/infrastructure/repositories/memory"
	redisrepo "vidboard/internal/infrastructure/repositories/redis"
	"vidboard/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RepositoryFactory creates document-store repositories, preferring Redis
// and falling back to memory when the store is unreachable.
type RepositoryFactory struct {
	useRedis    bool
	redisClient *redis.Client
	logger      *zap.SugaredLogger
}

func NewRepositoryFactory(cfg *config.Config, logger *zap.SugaredLogger) (*RepositoryFactory, error) {
	factory := &RepositoryFactory{
		useRedis: cfg.Store.Enabled,
		logger:   logger,
	}

	if cfg.Store.Enabled {
		client, err := redisrepo.NewRedisClient(
			cfg.Store.Address,
			cfg.Store.Password,
			cfg.Store.DB,
			cfg.Store.PoolSize,
			logger,
		)
		if err != nil {
			logger.Warnw("failed to connect to Redis, falling back to memory repositories",
				"error", err,
			)
			factory.useRedis = false
		} else {
			factory.redisClient = client
			logger.Info("using Redis repositories")
		}
	}

	if !factory.useRedis {
		logger.Info("using memory repositories")
	}

	return factory, nil
}

func (f *RepositoryFactory) CreateProfileRepository() ports.ProfileRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisProfileRepository(f.redisClient)
	}
	return memory.NewMemoryProfileRepository()
}

func (f *RepositoryFactory) CreateBoardRepository() ports.BoardRepository {
	if f.useRedis && f.redisClient != nil {
		return redisrepo.NewRedisBoardRepository(f.redisClient)
	}
	return memory.NewMemoryBoardRepository()
}

// RedisClient exposes the shared client for health checks. Nil when running
// on memory repositories.
func (f *RepositoryFactory) RedisClient() *redis.Client {
	return f.redisClient
}

func (f *RepositoryFactory) Close() error {
	return redisrepo.CloseRedisClient(f.redisClient)
}
