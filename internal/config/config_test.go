package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadConfigFromPath(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		want     Config
	}{
		{
			name:     "json with all fields",
			fileName: "greeter.json",
			content:  `{"port": 9000, "log_level": "debug", "shards": 4, "metrics": false}`,
			want:     Config{Port: 9000, LogLevel: "debug", Shards: 4, Metrics: boolPtr(false)},
		},
		{
			name:     "json with defaults",
			fileName: "greeter.json",
			content:  `{}`,
			want:     Config{Port: DefaultPort, LogLevel: DefaultLogLevel, Shards: DefaultShardCount},
		},
		{
			name:     "yaml",
			fileName: "greeter.yaml",
			content:  "port: 9100\nlog_level: warn\n",
			want:     Config{Port: 9100, LogLevel: "warn", Shards: DefaultShardCount},
		},
		{
			name:     "yml extension",
			fileName: "greeter.yml",
			content:  "shards: 2\nmetrics: true\n",
			want:     Config{Port: DefaultPort, LogLevel: DefaultLogLevel, Shards: 2, Metrics: boolPtr(true)},
		},
		{
			name:     "toml",
			fileName: "greeter.toml",
			content:  "port = 9200\nlog_level = \"error\"\nshards = 8\n",
			want:     Config{Port: 9200, LogLevel: "error", Shards: 8},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, tt.fileName)

			err := os.WriteFile(configPath, []byte(tt.content), 0644)
			require.NoError(t, err)

			got, err := LoadConfigFromPath(configPath)
			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestLoadConfigFromPath_Errors(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(string) string
		wantErr   error
		contains  string
	}{
		{
			name: "file not found",
			setupFunc: func(tmpDir string) string {
				return filepath.Join(tmpDir, "nonexistent.json")
			},
			contains: "failed to read config file",
		},
		{
			name: "invalid json",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.json")
				os.WriteFile(path, []byte("invalid json"), 0644)
				return path
			},
			contains: "failed to parse config file",
		},
		{
			name: "invalid toml",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.toml")
				os.WriteFile(path, []byte("port = = 1"), 0644)
				return path
			},
			contains: "failed to parse config file",
		},
		{
			name: "unsupported extension",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.ini")
				os.WriteFile(path, []byte("port=1"), 0644)
				return path
			},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name: "port out of range",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.json")
				os.WriteFile(path, []byte(`{"port": 70000}`), 0644)
				return path
			},
			wantErr: ErrInvalidPort,
		},
		{
			name: "negative shards",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.json")
				os.WriteFile(path, []byte(`{"shards": -1}`), 0644)
				return path
			},
			wantErr: ErrInvalidShards,
		},
		{
			name: "unknown log level",
			setupFunc: func(tmpDir string) string {
				path := filepath.Join(tmpDir, "greeter.yaml")
				os.WriteFile(path, []byte("log_level: chatty\n"), 0644)
				return path
			},
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := tt.setupFunc(tmpDir)

			_, err := LoadConfigFromPath(configPath)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	// Test finding greeter.json in current directory
	t.Run("config in current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		err := os.WriteFile(filepath.Join(tmpDir, "greeter.json"), []byte(`{"port": 8181}`), 0644)
		require.NoError(t, err)

		chdir(t, tmpDir)

		got, path, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 8181, got.Port)
		assert.Equal(t, "greeter.json", filepath.Base(path))
	})

	// Test finding greeter.yaml in parent directory
	t.Run("config in parent dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		subDir := filepath.Join(tmpDir, "subdir")
		require.NoError(t, os.MkdirAll(subDir, 0755))

		err := os.WriteFile(filepath.Join(tmpDir, "greeter.yaml"), []byte("port: 8282\n"), 0644)
		require.NoError(t, err)

		chdir(t, subDir)

		got, path, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 8282, got.Port)

		// Use filepath.EvalSymlinks to resolve any symlinks for comparison
		expected, _ := filepath.EvalSymlinks(filepath.Join(tmpDir, "greeter.yaml"))
		actual, _ := filepath.EvalSymlinks(path)
		assert.Equal(t, expected, actual)
	})

	// Test json preferred over toml in the same directory
	t.Run("json preferred", func(t *testing.T) {
		tmpDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "greeter.toml"), []byte("port = 1111\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "greeter.json"), []byte(`{"port": 2222}`), 0644))

		chdir(t, tmpDir)

		got, _, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, 2222, got.Port)
	})

	// Test no config found
	t.Run("no config found", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, _, err := LoadConfig()
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestEncodeDecode(t *testing.T) {
	// Test: configs written by Encode load back with the same values
	cfg := &Config{Port: 9300, LogLevel: "warn", Shards: 16, Metrics: boolPtr(false)}

	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			data, err := Encode(format, cfg)
			require.NoError(t, err)

			got, err := Decode(format, data)
			require.NoError(t, err)
			assert.Equal(t, cfg, got)
		})
	}

	_, err := Encode("ini", cfg)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConfig_Accessors(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.MetricsEnabled())
	require.NoError(t, cfg.Validate())

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	cfg.Metrics = boolPtr(false)
	assert.False(t, cfg.MetricsEnabled())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "json", Format("/etc/greeter.json"))
	assert.Equal(t, "yaml", Format("greeter.YAML"))
	assert.Equal(t, "yaml", Format("greeter.yml"))
	assert.Equal(t, "toml", Format("greeter.toml"))
	assert.Equal(t, "", Format("greeter"))
}
