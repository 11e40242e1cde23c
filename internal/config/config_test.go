package config

import (
	"os"
	"path/filepath"
	"testing"

	"cmreports/internal/service"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `{
	port: 9000,
	site: {
		base_url: "https://cm.example",
		endpoints: {
			sales_backlog: "/sales",
			production_backlog: "/production",
			pending_materials: "/materials",
		},
	},
	credentials: { username: "file-user", password: "file-pass" },
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json5")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "/site/login", cfg.Site.LoginPath)
	require.Equal(t, "3.1~13,3^17,7", cfg.Site.ConnectionCode)
	require.Equal(t, 4.0, cfg.Site.RequestsPerSecond)
	require.Equal(t, 3, cfg.Site.Burst)
	require.Equal(t, service.DefaultWindow(), cfg.Window)
	require.Equal(t, "30s", cfg.StandaloneTimeout().String())
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CM_USERNAME", "env-user")
	t.Setenv("CM_PASSWORD", "env-pass")
	t.Setenv("PORT", "7000")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "env-user", cfg.Credentials.Username)
	require.Equal(t, "env-pass", cfg.Credentials.Password)
	require.Equal(t, 7000, cfg.Port)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CM_BASE_URL=https://dotenv.example\n"), 0600))
	t.Setenv("CM_BASE_URL", "")
	os.Unsetenv("CM_BASE_URL")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	require.Equal(t, "https://dotenv.example", cfg.Site.BaseUrl)
}

func TestLoadMissingRequired(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CM_USERNAME", "")
	t.Setenv("CM_PASSWORD", "")
	t.Setenv("CM_BASE_URL", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.json5"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "base_url")
	require.Contains(t, err.Error(), "credentials")
	require.Contains(t, err.Error(), "endpoints")
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
