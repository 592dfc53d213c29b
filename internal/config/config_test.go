package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David1r20/painel-educacional/internal/gradebook"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 20, cfg.Cache.MaxEntries)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, gradebook.DefaultLayout(), cfg.Layout.Gradebook())
}

func TestLoadFile(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "environment variables",
			env: map[string]string{
				"PAINEL_SERVER_PORT":              "9090",
				"PAINEL_SERVER_READ_TIMEOUT":      "30s",
				"PAINEL_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"PAINEL_SECURITY_RATE_LIMIT_RPS":  "5",
				"PAINEL_LOGGING_FORMAT":           "text",
				"PAINEL_UPLOAD_MAX_BYTES":         "1024",
				"PAINEL_CACHE_TTL":                "10m",
				"PAINEL_LAYOUT_MARKER_LABEL":      "Pre Aula",
				"PAINEL_LAYOUT_BLOCK_WIDTH":       "6",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, 5.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "json", cfg.Logging.Format) // validate() forces json
				assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
				assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, "Pre Aula", cfg.Layout.MarkerLabel)
				assert.Equal(t, 6, cfg.Layout.BlockWidth)
				// untouched fields keep their defaults
				assert.Equal(t, 83, cfg.Layout.ExamAverageColumn)
				assert.Equal(t, 20, cfg.Cache.MaxEntries)
			},
		},
		{
			name: "file overlays defaults",
			file: `
server:
  port: 6060
  read_timeout: 20s
cache:
  max_entries: 3
layout:
  first_block_column: 5
  exam_average_column: 90
  final_grade_column: 91
  status_column: 92
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 3, cfg.Cache.MaxEntries)
				assert.Equal(t, 5, cfg.Layout.FirstBlockColumn)
				assert.Equal(t, 92, cfg.Layout.StatusColumn)
				assert.Equal(t, "Pre-Class", cfg.Layout.MarkerLabel)
			},
		},
		{
			name: "environment overrides file",
			env: map[string]string{
				"PAINEL_SERVER_PORT":   "7070",
				"PAINEL_LOGGING_LEVEL": "warn",
			},
			file: `
server:
  port: 6060
logging:
  level: error
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"PAINEL_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"PAINEL_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins",
			env:     map[string]string{"PAINEL_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name:    "unparsable value",
			env:     map[string]string{"PAINEL_CACHE_MAX_ENTRIES": "many"},
			wantErr: true,
		},
		{
			name:    "invalid log output",
			env:     map[string]string{"PAINEL_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "invalid layout",
			env:     map[string]string{"PAINEL_LAYOUT_BLOCK_WIDTH": "3"},
			wantErr: true,
		},
		{
			name:    "ping period not shorter than pong wait",
			env:     map[string]string{"PAINEL_WEBSOCKET_PING_PERIOD": "2m"},
			wantErr: true,
		},
		{
			name:    "malformed file",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := LoadFile(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoad_ConfigFileEnv(t *testing.T) {
	t.Setenv(ConfigFileEnv, writeConfigFile(t, "charts:\n  width: 1024\n"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Charts.Width)
	assert.Equal(t, 450, cfg.Charts.Height)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
