package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func generatePhase(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "phase.txt")
	_, err := execute(t, "generate", "--model", "rwfm", "--n", "200", "--seed", "3", "-o", path)
	require.NoError(t, err)
	return path
}

func TestGenerate(t *testing.T) {
	path := generatePhase(t, t.TempDir())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 200)

	out, err := execute(t, "generate", "--model", "wpm", "--n", "5")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 5)

	_, err = execute(t, "generate", "--model", "violet")
	assert.Error(t, err)
}

func TestComputeWritesFixture(t *testing.T) {
	path := generatePhase(t, t.TempDir())

	out, err := execute(t, "compute", path, "--estimators", "adev,mdev", "--tau0", "2")
	require.NoError(t, err)
	require.True(t, gjson.Valid(out))
	assert.Equal(t, int64(200), gjson.Get(out, "metadata.N").Int())
	assert.Equal(t, 2.0, gjson.Get(out, "results.adev.tau.0").Float())
	assert.True(t, gjson.Get(out, "results.mdev").Exists())
	assert.False(t, gjson.Get(out, "results.hdev").Exists())

	out, err = execute(t, "compute", path, "--estimators", "adev", "--max-rows", "120")
	require.NoError(t, err)
	assert.Equal(t, int64(120), gjson.Get(out, "metadata.N").Int())
}

func TestComputeAndCompare(t *testing.T) {
	dir := t.TempDir()
	path := generatePhase(t, dir)
	fixture := filepath.Join(dir, "fixture.json")
	workbook := filepath.Join(dir, "report.xlsx")

	out, err := execute(t, "compute", path, "-o", fixture, "--workbook", workbook, "--estimators", "adev,totdev,mtie")
	require.NoError(t, err)
	assert.Contains(t, out, "totdev")
	// time-domain estimators report seconds
	assert.Regexp(t, `(?m)^mtie .* s  slope`, out)
	assert.NotRegexp(t, `(?m)^adev .* s  slope`, out)
	_, err = os.Stat(workbook)
	require.NoError(t, err)

	out, err = execute(t, "compare", path, fixture, "--estimators", "adev,totdev,mtie")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, " ok"))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"results": {"adev": {"tau": [1], "dev": [1e9]}}}`), 0o644))
	out, err = execute(t, "compare", path, bad, "--estimators", "adev")
	assert.Error(t, err)
	assert.Contains(t, out, "MISMATCH")
}

func TestNoise(t *testing.T) {
	path := generatePhase(t, t.TempDir())
	out, err := execute(t, "noise", path, "--factors", "1,2,4")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "alpha")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "compute", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = execute(t, "compute")
	assert.Error(t, err)

	path := generatePhase(t, t.TempDir())
	_, err = execute(t, "compute", path, "--ci-method", "bootstrap")
	assert.Error(t, err)
}
