package augstream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfigValid(t *testing.T) {
	path := writeTempConfig(t, `
vendor: allystar
dialect: madoca-ppp
pinnedPRN: 199
verbosity: 2
sink:
  dsn: "clickhouse://localhost:9000/default"
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "allystar", cfg.Vendor)
	require.Equal(t, 199, cfg.PinnedPRN)
	require.Equal(t, 2, cfg.Verbosity)
	require.Equal(t, DialectMADOCAPPP, cfg.DialectOf())
}

func TestLoadConfigDefaultsVerbosity(t *testing.T) {
	path := writeTempConfig(t, `vendor: sbf`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.Verbosity)
}

func TestLoadConfigRejectsUnknownVendor(t *testing.T) {
	path := writeTempConfig(t, `vendor: garbage`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownDialect(t *testing.T) {
	path := writeTempConfig(t, `dialect: garbage`)
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDialectOfDefaultsToCLAS(t *testing.T) {
	cfg := &Config{}
	require.Equal(t, DialectCLAS, cfg.DialectOf())
}
