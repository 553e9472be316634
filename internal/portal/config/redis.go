package config

import (
	"fmt"
	"time"
)

// RedisConfig - настройки Redis для драйвера хранилища redis.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"PORTAL_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"PORTAL_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"PORTAL_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"PORTAL_REDIS_DB" env-default:"0"`
	PoolSize       int           `yaml:"pool_size" env:"PORTAL_REDIS_POOL_SIZE" env-default:"4"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"PORTAL_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	Timeout        time.Duration `yaml:"timeout" env:"PORTAL_REDIS_TIMEOUT" env-default:"3s"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
