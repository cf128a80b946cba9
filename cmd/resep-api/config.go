package main

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Blob     BlobConfig     `mapstructure:"blob"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Secret   SecretConfig   `mapstructure:"secret"`
	FCM      FCMConfig      `mapstructure:"fcm"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	Name         string        `mapstructure:"name"`
	SSLMode      string        `mapstructure:"ssl_mode"`
	ConnectRetry int           `mapstructure:"connect_retry"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BlobConfig selects and configures the image store. Provider is one of
// "s3", "gcs" or "memory".
type BlobConfig struct {
	Provider      string    `mapstructure:"provider"`
	BasePublicURL string    `mapstructure:"base_public_url"`
	S3            S3Config  `mapstructure:"s3"`
	GCS           GCSConfig `mapstructure:"gcs"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	Bucket          string `mapstructure:"bucket"`
}

type GCSConfig struct {
	Bucket         string `mapstructure:"bucket"`
	CredentialFile string `mapstructure:"credential_file"`
}

type AuthConfig struct {
	Issuer        string        `mapstructure:"issuer"`
	SigningKeyID  string        `mapstructure:"signing_key_id"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	MaxAttempts   int           `mapstructure:"max_attempts"`
	AttemptWindow time.Duration `mapstructure:"attempt_window"`
}

type SecretConfig struct {
	// Strategy is one of "hcl-file", "hcl-stdin" or "gsm"
	Strategy   string `mapstructure:"strategy"`
	Path       string `mapstructure:"path"`
	GSMProject string `mapstructure:"gsm_project"`
}

type FCMConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ProjectID string `mapstructure:"project_id"`

	// CredentialKey names the service account JSON inside the secret
	// document's kv block
	CredentialKey string `mapstructure:"credential_key"`
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetDefault("server.address", "localhost:9090")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.connect_retry", 5)
	v.SetDefault("database.retry_delay", 3*time.Second)
	v.SetDefault("blob.provider", "memory")
	v.SetDefault("auth.issuer", "resep-api")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("auth.max_attempts", 10)
	v.SetDefault("auth.attempt_window", 15*time.Minute)
	v.SetDefault("secret.strategy", "hcl-file")
	v.SetDefault("secret.path", "secret.hcl")

	v.SetEnvPrefix("RESEP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
