package config

// Драйверы хранилища токенов.
const (
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)

// StorageConfig - настройки хранилища токенов.
type StorageConfig struct {
	Driver    string `yaml:"driver" env:"PORTAL_STORAGE_DRIVER" env-default:"file"`
	FilePath  string `yaml:"file_path" env:"PORTAL_STORAGE_FILE_PATH" env-default:".classbook/tokens.json"`
	KeyPrefix string `yaml:"key_prefix" env:"PORTAL_STORAGE_KEY_PREFIX" env-default:"classbook:"`
}
