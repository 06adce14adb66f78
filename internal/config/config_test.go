package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	configYAML := `
server:
  addr: ":9000"
  shutdown_grace: 3s
theme:
  name: regform
  variant: dark
  tokens:
    color-primary: "#ff0000"
validation:
  password_reporting: all
  calendar_check: true
tui:
  output: pretty
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o644))
	t.Setenv("REGFORM_LOG_LEVEL", "debug")
	t.Setenv("REGFORM_SERVER_ADDR", ":9100")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	require.Equal(t, ":9100", cfg.Server.Addr)
	require.Equal(t, 3*time.Second, cfg.Server.ShutdownGrace)
	require.Equal(t, "dark", cfg.Theme.Variant)
	require.Equal(t, "#ff0000", cfg.Theme.Tokens["color-primary"])
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, tui.OutputFormatPrettyText, cfg.OutputFormat())

	schema := registration.New(cfg.SchemaOptions()...)
	require.Equal(t, registration.ReportAll, schema.Reporting())
	require.True(t, schema.CalendarCheck())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Setenv("REGFORM_VALIDATION_PASSWORD_REPORTING", "some")
	_, err := Load(nil, "")
	require.ErrorContains(t, err, "password_reporting")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultFile)

	require.NoError(t, WriteDefault(path))
	require.Error(t, WriteDefault(path), "second write must not clobber")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)
	if diff := cmp.Diff(Defaults(), cfg); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}
