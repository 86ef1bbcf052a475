package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig drops a config file into a temp dir and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
store:
  host: db.example.net
  port: 3051
  database: /data/register.fdb
  user: SYSDBA
  password: masterkey
transport:
  host: upload.example.net
  port: 2121
  user: office17
  password: secret
  remote_dir: incoming
  timeout_seconds: 10
export:
  root_dir: /var/fxexport
  archive_dir: /var/fxexport/sent
  archive_by_date: true
  file_suffix: PJ2
  schema_version: 2
  domestic_marker: BIH
  foreign_marker: K
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.example.net", cfg.Store.Host)
	assert.Equal(t, 3051, cfg.Store.Port)
	assert.Equal(t, "/data/register.fdb", cfg.Store.Database)
	assert.Equal(t, "upload.example.net", cfg.Transport.Host)
	assert.Equal(t, "incoming", cfg.Transport.RemoteDir)
	assert.Equal(t, 10*time.Second, cfg.Transport.Timeout())
	assert.Equal(t, "/var/fxexport/sent", cfg.Export.ArchiveDir)
	assert.True(t, cfg.Export.ArchiveByDate)
	assert.Equal(t, "PJ2", cfg.Export.FileSuffix)
	assert.Equal(t, 2, cfg.Export.SchemaVersion)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
store:
  database: /data/register.fdb
  user: SYSDBA
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Store.Host)
	assert.Equal(t, 3050, cfg.Store.Port)
	assert.Equal(t, 21, cfg.Transport.Port)
	assert.Equal(t, 30*time.Second, cfg.Transport.Timeout())
	assert.Equal(t, "./export", cfg.Export.RootDir)
	assert.Equal(t, 3, cfg.Export.SchemaVersion)
	assert.Equal(t, "BIH", cfg.Export.DomesticMarker)
	assert.Equal(t, "K", cfg.Export.ForeignMarker)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing database",
			content: "store:\n  user: SYSDBA\n",
			wantErr: "store.database is required",
		},
		{
			name:    "missing user",
			content: "store:\n  database: /data/register.fdb\n",
			wantErr: "store.user is required",
		},
		{
			name: "schema version out of range",
			content: "store:\n  database: /data/register.fdb\n  user: SYSDBA\n" +
				"export:\n  schema_version: 4\n",
			wantErr: "schema_version",
		},
		{
			name: "unknown log level",
			content: "store:\n  database: /data/register.fdb\n  user: SYSDBA\n" +
				"log:\n  level: chatty\n",
			wantErr: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store: [not a mapping"))
		assert.ErrorContains(t, err, "failed to parse config file")
	})
}
