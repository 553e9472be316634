package config

import (
	"fmt"
	"time"
)

// HTTPConfig - настройки локального HTTP сервера портала.
type HTTPConfig struct {
	Host         string        `yaml:"host" env:"PORTAL_HTTP_HOST" env-default:"127.0.0.1"`
	Port         int           `yaml:"port" env:"PORTAL_HTTP_PORT" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"PORTAL_HTTP_READ_TIMEOUT" env-default:"5s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"PORTAL_HTTP_WRITE_TIMEOUT" env-default:"30s"`
	BodyLimit    int           `yaml:"body_limit" env:"PORTAL_HTTP_BODY_LIMIT" env-default:"10485760"`
}

// GetAddress возвращает адрес в формате host:port.
func (c *HTTPConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
