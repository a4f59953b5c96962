package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

// chdir — смена текущего рабочего каталога с автоматическим откатом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
http:
  host: "127.0.0.1"
  port: "8080"
remote:
  base_url: "https://api.kickoffzone.example"
  timeout: "12s"
  upload_timeout: "20m"
  retry_max: -1
schedule:
  min_lead: "15m"
  any_day: true
  timezone: "Europe/London"
bulk:
  concurrency: 8
`

const brokenYAML = `
remote:
  base_url: ["https://broken"
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	require.Equal(t, "127.0.0.1:50090", HTTPConfig{Host: "127.0.0.1", Port: "50090"}.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr())
	require.Equal(t, "https://api.kickoffzone.example", cfg.Remote.BaseURL)
	require.Equal(t, 12*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 20*time.Minute, cfg.Remote.UploadTimeout)
	require.Equal(t, -1, cfg.Remote.RetryMax)
	require.Equal(t, 15*time.Minute, cfg.Schedule.MinLead)
	require.False(t, cfg.Schedule.SameDay())
	require.Equal(t, 8, cfg.Bulk.Concurrency)

	loc, err := cfg.Schedule.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/London", loc.String())
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), "min.yaml", "env: dev\n")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "http://127.0.0.1:5000", cfg.Remote.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 10*time.Minute, cfg.Remote.UploadTimeout)
	require.Equal(t, 2, cfg.Remote.RetryMax)
	require.Equal(t, 10*time.Minute, cfg.Schedule.MinLead)
	require.True(t, cfg.Schedule.SameDay())
	require.Equal(t, 4, cfg.Bulk.Concurrency)
	require.Equal(t, 45*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 10*time.Minute, cfg.Timeouts.Upload)
}

func TestLoad_WithExplicitPath_FileDoesNotExist(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "stat failed")
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, t.TempDir(), "broken.yaml", brokenYAML))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_Validate(t *testing.T) {
	t.Parallel()

	tcs := map[string]string{
		"relative_base_url": "remote:\n  base_url: \"/api\"\n",
		"negative_timeout":  "remote:\n  timeout: \"-1s\"\n",
		"short_upload":      "remote:\n  timeout: \"1m\"\n  upload_timeout: \"30s\"\n",
		"bad_timezone":      "schedule:\n  timezone: \"Mars/Olympus\"\n",
		"neg_concurrency":   "bulk:\n  concurrency: -1\n",
	}

	for name, body := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, t.TempDir(), name+".yaml", body))
			require.Error(t, err)
		})
	}
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	cfgPath := writeFile(t, t.TempDir(), "from_env_path.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "https://api.kickoffzone.example", cfg.Remote.BaseURL)
}

func TestLoad_EnvOnly_OK(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("ENV", "dev")
	t.Setenv("API_BASE_URL", "https://env.example")
	t.Setenv("API_TIMEOUT", "7s")
	t.Setenv("BULK_CONCURRENCY", "2")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "https://env.example", cfg.Remote.BaseURL)
	require.Equal(t, 7*time.Second, cfg.Remote.Timeout)
	require.Equal(t, 2, cfg.Bulk.Concurrency)
}
