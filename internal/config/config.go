package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig
	Platform   PlatformConfig
	Artifacts  ArtifactConfig
	Emulator   EmulatorConfig
	Database   DatabaseConfig
	Kubernetes KubernetesConfig
	Logger     LoggerConfig
}

// ServerConfig is the listen address of the platform emulator.
type ServerConfig struct {
	Host string
	Port int
}

// PlatformConfig describes how the SDK reaches the remote platform.
type PlatformConfig struct {
	URL      string
	User     string
	Password string
	// Timeout of zero leaves the transport default in place.
	Timeout  time.Duration
	ServerID string
}

const (
	ArtifactStorePlatform = "platform"
	ArtifactStoreS3       = "s3"
)

type ArtifactConfig struct {
	Store    string
	TempDir  string
	S3Bucket string
	S3Prefix string
	S3Region string
}

const (
	EmulatorStoreMemory   = "memory"
	EmulatorStorePostgres = "postgres"
)

type EmulatorConfig struct {
	ServerID   string
	User       string
	Password   string
	StorageDir string
	Store      string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type KubernetesConfig struct {
	Enabled        bool
	InCluster      bool
	KubeConfigPath string
	DefaultNS      string
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 9008)
	v.SetDefault("PLATFORM_URL", "http://localhost:9008")
	v.SetDefault("PLATFORM_USER", "admin")
	v.SetDefault("PLATFORM_PASSWORD", "admin")
	v.SetDefault("PLATFORM_TIMEOUT", "0s")
	v.SetDefault("PLATFORM_SERVER_ID", "")
	v.SetDefault("ARTIFACT_STORE", ArtifactStorePlatform)
	v.SetDefault("ARTIFACT_TEMP_DIR", os.TempDir())
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "models")
	v.SetDefault("AWS_REGION", "us-west-2")
	v.SetDefault("EMULATOR_SERVER_ID", "model-history-server")
	v.SetDefault("EMULATOR_USER", "admin")
	v.SetDefault("EMULATOR_PASSWORD", "admin")
	v.SetDefault("EMULATOR_STORAGE_DIR", os.TempDir())
	v.SetDefault("EMULATOR_STORE", EmulatorStoreMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "model_platform")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 2)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("K8S_ENABLED", false)
	v.SetDefault("K8S_IN_CLUSTER", false)
	v.SetDefault("K8S_KUBECONFIG", "")
	v.SetDefault("K8S_NAMESPACE", "model-serving")
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")

	// Env
	v.AutomaticEnv()

	platformTimeout, err := time.ParseDuration(v.GetString("PLATFORM_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parse PLATFORM_TIMEOUT: %w", err)
	}

	connLifetime, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		connLifetime = 30 * time.Minute
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: v.GetInt("SERVER_PORT"),
		},
		Platform: PlatformConfig{
			URL:      v.GetString("PLATFORM_URL"),
			User:     v.GetString("PLATFORM_USER"),
			Password: v.GetString("PLATFORM_PASSWORD"),
			Timeout:  platformTimeout,
			ServerID: v.GetString("PLATFORM_SERVER_ID"),
		},
		Artifacts: ArtifactConfig{
			Store:    v.GetString("ARTIFACT_STORE"),
			TempDir:  v.GetString("ARTIFACT_TEMP_DIR"),
			S3Bucket: v.GetString("S3_BUCKET"),
			S3Prefix: v.GetString("S3_PREFIX"),
			S3Region: v.GetString("AWS_REGION"),
		},
		Emulator: EmulatorConfig{
			ServerID:   v.GetString("EMULATOR_SERVER_ID"),
			User:       v.GetString("EMULATOR_USER"),
			Password:   v.GetString("EMULATOR_PASSWORD"),
			StorageDir: v.GetString("EMULATOR_STORAGE_DIR"),
			Store:      v.GetString("EMULATOR_STORE"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connLifetime,
		},
		Kubernetes: KubernetesConfig{
			Enabled:        v.GetBool("K8S_ENABLED"),
			InCluster:      v.GetBool("K8S_IN_CLUSTER"),
			KubeConfigPath: v.GetString("K8S_KUBECONFIG"),
			DefaultNS:      v.GetString("K8S_NAMESPACE"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Artifacts.Store {
	case ArtifactStorePlatform:
	case ArtifactStoreS3:
		if c.Artifacts.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when ARTIFACT_STORE=%s", ArtifactStoreS3)
		}
	default:
		return fmt.Errorf("unknown ARTIFACT_STORE %q", c.Artifacts.Store)
	}

	switch c.Emulator.Store {
	case EmulatorStoreMemory, EmulatorStorePostgres:
	default:
		return fmt.Errorf("unknown EMULATOR_STORE %q", c.Emulator.Store)
	}
	return nil
}
