package rline_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohanthewiz/assert"
	"github.com/rohanthewiz/rline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rline.toml")
	assert.Nil(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultServerOptions(t *testing.T) {
	opts := rline.DefaultServerOptions()
	assert.Equal(t, opts.Address, ":7070")
	assert.Equal(t, opts.LogLevel, "info")
	assert.Equal(t, opts.ReadTimeout, 10*time.Second)
	assert.Equal(t, opts.HandlerTimeout, 30*time.Second)
	assert.Equal(t, opts.MaxLineLength, 4096)
	assert.Equal(t, opts.StaticPrefix, "/files")
	assert.Equal(t, opts.StaticDir, "")
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[server]
address = "127.0.0.1:9000"
handler_timeout = "2s"
diagnostics_path = "/_routes"
`)

	opts, err := rline.LoadConfig(path)
	assert.Nil(t, err)
	assert.Equal(t, opts.Address, "127.0.0.1:9000")
	assert.Equal(t, opts.HandlerTimeout, 2*time.Second)
	assert.Equal(t, opts.DiagnosticsPath, "/_routes")

	// untouched keys keep their defaults
	assert.Equal(t, opts.ReadTimeout, 10*time.Second)
	assert.Equal(t, opts.MaxLineLength, 4096)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfig(t, `
[server]
adress = ":9000"
`)

	_, err := rline.LoadConfig(path)
	assert.NotEqual(t, err, nil)
	assert.Contains(t, err.Error(), "unknown config keys")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := rline.LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NotEqual(t, err, nil)
}

func TestServerOptionsDefaults(t *testing.T) {
	s := newTestServer(rline.ServerOptions{Address: ":9999"})
	opts := s.Options()
	assert.Equal(t, opts.Address, ":9999")
	assert.Equal(t, opts.MaxLineLength, 4096)
	assert.Equal(t, opts.HandlerTimeout, 30*time.Second)
}
