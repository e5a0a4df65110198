package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, recipeapi.DefaultPageSize, cfg.API.PageSize)
	assert.Equal(t, recipeapi.DefaultService, cfg.API.Service)
}

func TestLoadFile(t *testing.T) {
	content := `
[api]
base_url = http://localhost:9000/api
key = testkey
page_size = 500
requests_per_second = 0
timeout = 5s

[log]
level = debug
format = json

[server]
addr = 127.0.0.1:8080

[recommend]
category = 반찬
`
	path := filepath.Join(t.TempDir(), "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/api", cfg.API.BaseURL)
	assert.Equal(t, "testkey", cfg.API.Key)
	assert.Equal(t, 500, cfg.API.PageSize)
	assert.Equal(t, float64(0), cfg.API.RequestsPerSecond)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, recipeapi.DefaultService, cfg.API.Service, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, "반찬", cfg.Category)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	cfg, err := LoadBytes([]byte("[api]\nkey = abc\n\n[log]\nformat = yaml\n"))
	require.NoError(t, err)

	want := Default()
	want.API.Key = "abc"
	assert.Equal(t, want, cfg, "unknown log format falls back to the default")
}

func TestLoadInvalidValues(t *testing.T) {
	tests := map[string]string{
		"page size not a number": "[api]\npage_size = lots\n",
		"page size zero":         "[api]\npage_size = 0\n",
		"negative rate":          "[api]\nrequests_per_second = -1\n",
		"bad timeout":            "[api]\ntimeout = soon\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadBytes([]byte(content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.ini")
}
