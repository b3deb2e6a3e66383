package config

import "time"

// Config is the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Yandex    YandexConfig    `mapstructure:"yandex"`
	Cache     CacheConfig     `mapstructure:"cache"`
	AutoStart AutoStartConfig `mapstructure:"autostart"`
}

// ServerConfig holds the management HTTP server settings.
type ServerConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
}

// HTTPConfig holds listen and routing settings.
type HTTPConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
	// URLSecret mounts the dashboard and API under /<secret>. Empty means
	// mount at the root. Overridden by url_secret from the key file when set.
	URLSecret string `mapstructure:"url_secret"`
}

// YandexConfig holds the cloud endpoints and the service-account key location.
type YandexConfig struct {
	// KeyFile is the authorized key JSON (private_key, id, service_account_id,
	// folder_id, optional url_secret). Required.
	KeyFile string `mapstructure:"key_file"`
	// IAMEndpoint is the token exchange URL; it is also the JWT audience.
	IAMEndpoint string `mapstructure:"iam_endpoint"`
	// ComputeEndpoint is the compute REST API base URL.
	ComputeEndpoint string `mapstructure:"compute_endpoint"`
}

// CacheConfig selects the IAM token cache backend.
type CacheConfig struct {
	Type string `mapstructure:"type"` // file | redis
	// File is the cache file path for the file backend.
	File string `mapstructure:"file"`
	// Redis settings, used when Type is "redis".
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

// AutoStartConfig controls the background auto-start loop.
type AutoStartConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	PageSize int           `mapstructure:"page_size"`
	// ScanAllPages follows nextPageToken across the whole fleet. Off by
	// default: only the first page is scanned.
	ScanAllPages bool `mapstructure:"scan_all_pages"`
}
