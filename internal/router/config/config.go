package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config - configurações da aplicação.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	PostgresConn  string `mapstructure:"POSTGRES_CONN"`
	MigrationURL  string `mapstructure:"MIGRATION_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ReportTimeout  time.Duration `mapstructure:"REPORT_TIMEOUT"`

	AWSRegion          string `mapstructure:"AWS_REGION"`
	AWSBucketName      string `mapstructure:"AWS_BUCKET_NAME"`
	AWSEndpointURL     string `mapstructure:"AWS_ENDPOINT_URL"`
	AWSAccessKeyID     string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	PublicBaseURL      string `mapstructure:"PUBLIC_BASE_URL"`

	PhotoFetchTimeout     time.Duration `mapstructure:"PHOTO_FETCH_TIMEOUT"`
	PhotoFetchConcurrency int           `mapstructure:"PHOTO_FETCH_CONCURRENCY"`
	ReportHeaderImage     string        `mapstructure:"REPORT_HEADER_IMAGE"`
	ReportTimezone        string        `mapstructure:"REPORT_TIMEZONE"`

	RedisURL       string        `mapstructure:"REDIS_URL"`
	LoginFailLimit int64         `mapstructure:"LOGIN_FAIL_LIMIT"`
	LoginLockTTL   time.Duration `mapstructure:"LOGIN_LOCK_TTL"`

	LogLevel   string `mapstructure:"LOG_LEVEL"`
	CORSOrigin string `mapstructure:"CORS_ORIGIN"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":          ":3001",
	"POSTGRES_CONN":           "",
	"MIGRATION_URL":           "embed://",
	"JWT_SECRET":              "",
	"JWT_TTL":                 "1h",
	"REQUEST_TIMEOUT":         "5s",
	"REPORT_TIMEOUT":          "60s",
	"AWS_REGION":              "us-east-1",
	"AWS_BUCKET_NAME":         "",
	"AWS_ENDPOINT_URL":        "",
	"AWS_ACCESS_KEY_ID":       "",
	"AWS_SECRET_ACCESS_KEY":   "",
	"PUBLIC_BASE_URL":         "",
	"PHOTO_FETCH_TIMEOUT":     "10s",
	"PHOTO_FETCH_CONCURRENCY": 8,
	"REPORT_HEADER_IMAGE":     "header.png",
	"REPORT_TIMEZONE":         "America/Campo_Grande",
	"REDIS_URL":               "",
	"LOGIN_FAIL_LIMIT":        5,
	"LOGIN_LOCK_TTL":          "15m",
	"LOG_LEVEL":               "INFO",
	"CORS_ORIGIN":             "*",
}

// LoadConfig lê app.env em path; variáveis de ambiente têm precedência.
// A ausência do arquivo não é erro.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&cfg)
	return
}

// Validate confere as chaves obrigatórias.
func (c Config) Validate() error {
	switch {
	case c.PostgresConn == "":
		return errors.New("POSTGRES_CONN is required")
	case c.JWTSecret == "":
		return errors.New("JWT_SECRET is required")
	case c.AWSBucketName == "":
		return errors.New("AWS_BUCKET_NAME is required")
	}
	return nil
}
