package tokencache

import (
	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
)

// NewStore builds the configured cache backend. Anything other than "redis"
// falls back to the file store.
func NewStore(cfg config.CacheConfig) Store {
	if cfg.Type == "redis" {
		logx.Info("Using redis token cache, addr %s", cfg.RedisAddr)
		return NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	}
	return NewFileStore(cfg.File)
}
