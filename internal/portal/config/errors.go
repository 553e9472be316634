package config

import "errors"

// Ошибки валидации конфигурации.
var (
	ErrEmptyBaseURL         = errors.New("api base url must not be empty")
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	ErrEmptyTokenFile       = errors.New("token file path must not be empty for file storage")
)
