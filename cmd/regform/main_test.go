package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-regform/internal/config"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/renderers/tui"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

// run executes the root command from an empty working directory so no
// regform.yaml is picked up.
func run(t *testing.T, stdin string, args []string, opts ...func(*app)) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	opts = append([]func(*app){func(a *app) { a.now = testsupport.FixedClock }}, opts...)
	cmd := newRootCmd(opts...)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestOptionsYear(t *testing.T) {
	out, err := run(t, "", []string{"options", "year"})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 125)
	require.Equal(t, []string{"2024", "2024"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"1900", "1900"}, strings.Fields(lines[124]))
}

func TestOptionsMonthAndMinYear(t *testing.T) {
	out, err := run(t, "", []string{"options", "month"})
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 12)

	out, err = run(t, "", []string{"options", "year", "--min-year", "2020"})
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 5)

	_, err = run(t, "", []string{"options", "week"})
	require.Error(t, err)
}

func TestSchemaFormats(t *testing.T) {
	out, err := run(t, "", []string{"schema"})
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Contains(t, doc, "paths")

	out, err = run(t, "", []string{"schema", "--format", "yaml"})
	require.NoError(t, err)
	require.Contains(t, out, "openapi: 3.")

	_, err = run(t, "", []string{"schema", "--format", "xml"})
	require.Error(t, err)
}

func TestValidateRecord(t *testing.T) {
	payload, err := json.Marshal(testsupport.ValidRegistration())
	require.NoError(t, err)

	out, err := run(t, string(payload), []string{"validate", "-"})
	require.NoError(t, err)
	require.Equal(t, "valid\n", out)

	bad := testsupport.ValidRegistration()
	bad.Password = "short"
	bad.ConfirmPassword = "short"
	payload, err = json.Marshal(bad)
	require.NoError(t, err)

	out, err = run(t, string(payload), []string{"validate", "-"})
	require.ErrorIs(t, err, errInvalidRecord)
	require.Contains(t, out, "password: At least 8 characters (too_short)")
	require.Contains(t, out, "confirmPassword: At least 8 characters (too_short)")
}

func TestValidateReportAllFlag(t *testing.T) {
	bad := testsupport.ValidRegistration()
	bad.Password = "short"
	bad.ConfirmPassword = "short"
	payload, err := json.Marshal(bad)
	require.NoError(t, err)

	out, err := run(t, string(payload), []string{"validate", "--password-reporting", "all", "-"})
	require.ErrorIs(t, err, errInvalidRecord)
	require.Contains(t, out, "password: At least one capital letter")
	require.Contains(t, out, "password: At least one number")
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "record.json")
	payload, err := json.Marshal(testsupport.ValidRegistration())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	out, err := run(t, "", []string{"validate", path})
	require.NoError(t, err)
	require.Equal(t, "valid\n", out)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "regform.yaml")
	out, err := run(t, "", []string{"init-config", path})
	require.NoError(t, err)
	require.Equal(t, "wrote "+path+"\n", out)

	v := config.NewViper()
	cfg, err := config.Load(v, path)
	require.NoError(t, err)
	require.Equal(t, config.Defaults().Server.Addr, cfg.Server.Addr)

	_, err = run(t, "", []string{"init-config", path})
	require.Error(t, err)
}

func TestInvalidConfigFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tui:\n  output: xml\n"), 0o644))

	_, err := run(t, "", []string{"--config", path, "options", "day"})
	require.Error(t, err)
}

type scriptedDriver struct {
	inputs    []string
	passwords []string
	selects   []int
	confirms  []bool
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	v := d.passwords[0]
	d.passwords = d.passwords[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func TestPromptPrintsRedactedRecord(t *testing.T) {
	driver := &scriptedDriver{
		inputs:    []string{"Ada", "Lovelace", "a@b.com", "0712345678"},
		selects:   []int{1, 9, 11, 2024 - 1990},
		passwords: []string{"Abcdef1!", "Abcdef1!"},
		confirms:  []bool{true},
	}
	out, err := run(t, "", []string{"prompt", "--output", "json"}, func(a *app) { a.driver = driver })
	require.NoError(t, err)

	var payload struct {
		ID   string                `json:"id"`
		Data registration.FormData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.NotEmpty(t, payload.ID)
	require.Equal(t, "Ada", payload.Data.FirstName)
	require.Equal(t, registration.DateOfBirth{Day: "10", Month: "12", Year: "1990"}, payload.Data.DOB)
	require.NotContains(t, out, "Abcdef1!")
}
