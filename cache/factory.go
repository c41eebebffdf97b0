package cache

import (
	"fmt"
	"log"

	"github.com/anoixa/picture-vault/config"
)

// New 按配置创建缓存提供者
func New(cfg *config.Config) (Provider, error) {
	log.Printf("Initializing cache provider: %s", cfg.CacheType)

	switch cfg.CacheType {
	case "memory", "":
		return NewMemory(MemoryConfig{
			MaxCost: cfg.CacheMaxSizeMB << 20,
		})

	case "redis":
		return NewRedis(RedisConfig{
			Addr:     cfg.CacheRedisAddr,
			Password: cfg.CacheRedisPassword,
			DB:       cfg.CacheRedisDB,
		})

	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cfg.CacheType)
	}
}
