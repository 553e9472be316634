package config

import "time"

// APIConfig - настройки удаленного REST API маркетплейса.
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"PORTAL_API_BASE_URL" env-default:"http://localhost:8000/api"`
	// RequestTimeout равный нулю означает отсутствие таймаута.
	RequestTimeout time.Duration `yaml:"request_timeout" env:"PORTAL_API_REQUEST_TIMEOUT" env-default:"0s"`
}
