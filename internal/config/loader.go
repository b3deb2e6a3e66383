package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads the application configuration from a YAML file, with
// environment variable overrides and built-in defaults.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Default config file search paths
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.yandex-cloud-instance-start")
		v.AddConfigPath("/etc/yandex-cloud-instance-start")
	}

	// Environment variable support
	v.SetEnvPrefix("YCIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	expandEnvVars(&config)

	return &config, nil
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http.port", 5777)
	v.SetDefault("server.http.debug", false)

	// Yandex Cloud defaults
	v.SetDefault("yandex.key_file", "authorized_key.json")
	v.SetDefault("yandex.iam_endpoint", "https://iam.api.cloud.yandex.net/iam/v1/tokens")
	v.SetDefault("yandex.compute_endpoint", "https://compute.api.cloud.yandex.net/compute/v1")

	// Cache defaults
	v.SetDefault("cache.type", "file")
	v.SetDefault("cache.file", "jwt_cache.json")
	v.SetDefault("cache.redis_db", 0)

	// AutoStart defaults
	v.SetDefault("autostart.enabled", true)
	v.SetDefault("autostart.interval", "60s")
	v.SetDefault("autostart.page_size", 50)
	v.SetDefault("autostart.scan_all_pages", false)
}

// expandEnvVars expands environment variables in secret-bearing fields.
func expandEnvVars(config *Config) {
	config.Yandex.KeyFile = os.ExpandEnv(config.Yandex.KeyFile)
	config.Cache.File = os.ExpandEnv(config.Cache.File)
	config.Cache.RedisAddr = os.ExpandEnv(config.Cache.RedisAddr)
	config.Cache.RedisPassword = os.ExpandEnv(config.Cache.RedisPassword)
	config.Server.HTTP.URLSecret = os.ExpandEnv(config.Server.HTTP.URLSecret)
}
