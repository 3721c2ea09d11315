package config

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9008", cfg.Platform.URL)
	assert.Equal(t, time.Duration(0), cfg.Platform.Timeout)
	assert.Equal(t, ArtifactStorePlatform, cfg.Artifacts.Store)
	assert.Equal(t, EmulatorStoreMemory, cfg.Emulator.Store)
	assert.Equal(t, 9008, cfg.Server.Port)
	assert.False(t, cfg.Kubernetes.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PLATFORM_URL", "http://platform:9000")
	t.Setenv("PLATFORM_TIMEOUT", "5s")
	t.Setenv("ARTIFACT_STORE", "s3")
	t.Setenv("S3_BUCKET", "models-bucket")
	t.Setenv("K8S_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://platform:9000", cfg.Platform.URL)
	assert.Equal(t, 5*time.Second, cfg.Platform.Timeout)
	assert.Equal(t, "models-bucket", cfg.Artifacts.S3Bucket)
	assert.True(t, cfg.Kubernetes.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad timeout", env: map[string]string{"PLATFORM_TIMEOUT": "soon"}},
		{name: "unknown artifact store", env: map[string]string{"ARTIFACT_STORE": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"ARTIFACT_STORE": "s3"}},
		{name: "unknown emulator store", env: map[string]string{"EMULATOR_STORE": "redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", d.DSN())
}

func TestInitLogger(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	InitLogger(LoggerConfig{Level: "debug", Format: "text"})
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	InitLogger(LoggerConfig{Level: "nonsense", Format: "json"})
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
