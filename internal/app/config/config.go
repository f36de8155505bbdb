package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"formbuilder/internal/app/dsn"

	"github.com/fsnotify/fsnotify"
	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	DSN         string
	Log         LogConfig
	FormBuilder FormBuilderConfig
	Auth        AuthConfig
	CORS        CORSConfig
	JWT         JWTConfig
	Redis       RedisConfig
	MinIO       MinIOConfig
}

type LogConfig struct {
	Level string
	JSON  bool
}

type FormBuilderConfig struct {
	// Transactional: создавать всю форму в одной транзакции (всё или ничего)
	Transactional bool
	CacheTTL      time.Duration
}

type AuthConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowOrigins []string
}

type JWTConfig struct {
	Token         string
	ExpiresIn     time.Duration
	SigningMethod jwt.SigningMethod
}

type RedisConfig struct {
	Enabled     bool
	Host        string
	Password    string
	Port        int
	User        string
	DB          int
	DialTimeout time.Duration
	ReadTimeout time.Duration
}

type MinIOConfig struct {
	Enabled      bool
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Bucket       string
	UseSSL       bool
	ExportPrefix string
	URLTTL       time.Duration
}

const (
	envConfigName = "CONFIG_NAME"

	envJWTSecret = "JWT_SECRET"

	envRedisHost = "REDIS_HOST"
	envRedisPort = "REDIS_PORT"
	envRedisUser = "REDIS_USER"
	envRedisPass = "REDIS_PASSWORD"

	envMinIOEndpoint  = "MINIO_ENDPOINT"
	envMinIOAccessKey = "MINIO_ACCESS_KEY"
	envMinIOSecretKey = "MINIO_SECRET_KEY"
)

func NewConfig() (*Config, error) {
	var err error

	configName := "config"
	_ = godotenv.Load()
	if os.Getenv(envConfigName) != "" {
		configName = os.Getenv(envConfigName)
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	v.SetDefault("ServiceHost", "0.0.0.0")
	v.SetDefault("ServicePort", 8080)
	v.SetDefault("Log.Level", "info")
	v.SetDefault("FormBuilder.CacheTTL", "5m")
	v.SetDefault("JWT.ExpiresIn", "1h")
	v.SetDefault("MinIO.Bucket", "form-builder")
	v.SetDefault("MinIO.ExportPrefix", "exports")
	v.SetDefault("MinIO.URLTTL", "1h")

	err = v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	if err = cfg.Log.Apply(); err != nil {
		return nil, err
	}
	// уровень логирования можно менять без перезапуска
	v.OnConfigChange(func(e fsnotify.Event) {
		level := v.GetString("Log.Level")
		if parsed, err := log.ParseLevel(level); err == nil {
			log.SetLevel(parsed)
			log.Infof("config %s changed, log level %s", e.Name, level)
		}
	})
	v.WatchConfig()

	cfg.DSN = dsn.FromEnv()

	// JWT: секрет только из окружения
	cfg.JWT.Token = os.Getenv(envJWTSecret)
	cfg.JWT.SigningMethod = jwt.SigningMethodHS256
	if cfg.Auth.Enabled && cfg.JWT.Token == "" {
		return nil, errors.New("auth is enabled but JWT_SECRET is empty")
	}

	// Redis из env, без REDIS_HOST кэш и blacklist выключены
	cfg.Redis.Host = os.Getenv(envRedisHost)
	if cfg.Redis.Host != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Port, err = strconv.Atoi(os.Getenv(envRedisPort))
		if err != nil {
			return nil, fmt.Errorf("redis port must be int value: %w", err)
		}
		cfg.Redis.Password = os.Getenv(envRedisPass)
		cfg.Redis.User = os.Getenv(envRedisUser)
		cfg.Redis.DialTimeout = 10 * time.Second
		cfg.Redis.ReadTimeout = 10 * time.Second
	}

	// MinIO из env, без MINIO_ENDPOINT выгрузка недоступна
	cfg.MinIO.Endpoint = os.Getenv(envMinIOEndpoint)
	if cfg.MinIO.Endpoint != "" {
		cfg.MinIO.Enabled = true
		cfg.MinIO.AccessKey = os.Getenv(envMinIOAccessKey)
		cfg.MinIO.SecretKey = os.Getenv(envMinIOSecretKey)
	}

	log.Info("config parsed")

	return cfg, nil
}

// Apply настраивает logrus: уровень и формат
func (l LogConfig) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	log.SetLevel(level)
	if l.JSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
