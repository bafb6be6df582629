package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xpq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "table", cfg.Output.Format)
	require.Equal(t, 500, cfg.Read.Limit)
	require.Equal(t, 10, cfg.Sample.Size)
	require.Equal(t, int64(0), cfg.Sample.Seed)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output:
  format: csv
sample:
  size: 25
  seed: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "csv", cfg.Output.Format)
	require.Equal(t, 25, cfg.Sample.Size)
	require.Equal(t, int64(7), cfg.Sample.Seed)
	require.Equal(t, 500, cfg.Read.Limit, "untouched values keep their defaults")
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, content := range []string{
		"output:\n  format: nope\n",
		"read:\n  limit: -1\n",
		"sample:\n  size: -5\n",
		"output:\n  max_cell_width: -2\n",
		"output: [not, a, mapping]\n",
	} {
		path := writeConfig(t, content)
		_, err := Load(path)
		require.Error(t, err, "config %q", content)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
