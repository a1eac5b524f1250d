// Package config loads application configuration from an optional YAML file
// with coded defaults and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	DB     DBConfig     `koanf:"db"`
	Auth   AuthConfig   `koanf:"auth"`
	Log    LogConfig    `koanf:"log"`
	CORS   CORSConfig   `koanf:"cors"`
}

type ServerConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

type DBConfig struct {
	Path string `koanf:"path"`
}

type AuthConfig struct {
	// KeyPath is the directory holding the PASETO symmetric key file.
	KeyPath  string        `koanf:"key_path"`
	TokenTTL time.Duration `koanf:"token_ttl"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	File  string `koanf:"file"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Load reads configuration from path (if non-empty), applies defaults and env
// overrides, and unmarshals the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	setDefault(k, "server.addr", ":8080")
	setDefault(k, "server.read_timeout", 15*time.Second)
	setDefault(k, "server.write_timeout", 30*time.Second)
	setDefault(k, "server.idle_timeout", 120*time.Second)

	setDefault(k, "db.path", "/data/festin.db")

	setDefault(k, "auth.key_path", "/data")
	setDefault(k, "auth.token_ttl", 12*time.Hour)

	setDefault(k, "log.level", "info")
	setDefault(k, "log.file", "")

	setDefault(k, "cors.allowed_origins", []string{"*"})
}

func applyEnvOverrides(k *koanf.Koanf) {
	if addr := getEnv("LISTEN_ADDR", ""); addr != "" {
		k.Set("server.addr", addr)
	}
	if path := getEnv("DB_PATH", ""); path != "" {
		k.Set("db.path", path)
	}
	if path := getEnv("AUTH_KEY_PATH", ""); path != "" {
		k.Set("auth.key_path", path)
	}
	if ttl := getEnv("AUTH_TOKEN_TTL", ""); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			k.Set("auth.token_ttl", d)
		}
	}
	if level := getEnv("LOG_LEVEL", ""); level != "" {
		k.Set("log.level", level)
	}
	if logFile := getEnv("LOG_FILE", ""); logFile != "" {
		k.Set("log.file", logFile)
	}
	if origins := getEnv("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		k.Set("cors.allowed_origins", strings.Split(origins, ","))
	}
}

func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}
