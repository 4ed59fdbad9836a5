// ABOUTME: Tests for configuration loading
// ABOUTME: Covers env var expansion, duration parsing, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listkeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const validConfig = `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/listkeep.db"
session:
  secret: "test-secret"
  duration: "24h"
logging:
  level: "debug"
  format: "json"
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddr)
	assert.Equal(t, "/tmp/listkeep.db", cfg.Database.Path)
	assert.Equal(t, "test-secret", cfg.Session.Secret)
	assert.Equal(t, 24*time.Hour, cfg.Session.Duration)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("LISTKEEP_TEST_SECRET", "from-env")

	cfg, err := Load(writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/listkeep.db"
session:
  secret: "${LISTKEEP_TEST_SECRET}"
`))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Session.Secret)
}

func TestLoadDefaultSessionDuration(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/listkeep.db"
session:
  secret: "test-secret"
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionDuration, cfg.Session.Duration)
}

func TestLoadInvalidDuration(t *testing.T) {
	_, err := Load(writeConfig(t, `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/listkeep.db"
session:
  secret: "test-secret"
  duration: "a fortnight"
`))
	assert.Error(t, err)
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		config string
		want   string
	}{
		{
			name: "missing http_addr",
			config: `
database:
  path: "/tmp/listkeep.db"
session:
  secret: "x"
`,
			want: "server.http_addr",
		},
		{
			name: "missing database path",
			config: `
server:
  http_addr: "localhost:8080"
session:
  secret: "x"
`,
			want: "database.path",
		},
		{
			name: "missing session secret",
			config: `
server:
  http_addr: "localhost:8080"
database:
  path: "/tmp/listkeep.db"
`,
			want: "session.secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.config))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
