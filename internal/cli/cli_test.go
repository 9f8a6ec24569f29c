package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/mdlv/internal/domain/filters"
	"github.com/forPelevin/mdlv/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	require.NoError(t, err, "mdlv %s", strings.Join(args, " "))
	return out
}

func TestEditWorkflow(t *testing.T) {
	tmp := t.TempDir()
	proj := filepath.Join(tmp, "show.mdlv")

	mustExecute(t, "init", proj, "--movie", "show.mkv", "--jump", "250")
	_, err := execute(t, "init", proj, "--movie", "show.mkv")
	require.Error(t, err, "init must not overwrite")

	mustExecute(t, "add", proj, "1", "delogo", "10", "11", "12", "13")
	mustExecute(t, "add", proj, "601", "cut")
	mustExecute(t, "add", proj, "900", "review")
	mustExecute(t, "move", proj, "900", "1001")
	out := mustExecute(t, "convert", proj, "1001", "drawbox")
	assert.Contains(t, out, "drawbox x=0 y=0 w=0 h=0")

	b, err := os.ReadFile(proj)
	require.NoError(t, err)
	assert.Equal(t, "MDLV1\nshow.mkv\n250\n1;delogo;10;11;12;13\n601;cut;\n1001;drawbox;0;0;0;0\n", string(b))

	out = mustExecute(t, "at", proj, "700")
	assert.Equal(t, "frame 700: cut (from 601)\n", out)

	out = mustExecute(t, "show", proj)
	assert.Contains(t, out, "601")
	assert.Contains(t, out, "1000")

	out = mustExecute(t, "show", proj, "--yaml")
	assert.Contains(t, out, "movie: show.mkv")

	mustExecute(t, "rm", proj, "1001")
	_, err = execute(t, "rm", proj, "1001")
	require.Error(t, err)
}

func TestAdd_Errors(t *testing.T) {
	tmp := t.TempDir()
	proj := filepath.Join(tmp, "show.mdlv")
	mustExecute(t, "init", proj, "--movie", "show.mkv")

	_, err := execute(t, "add", proj, "1", "delogo")
	assert.ErrorIs(t, err, filters.ErrInvalidParameters)

	_, err = execute(t, "add", proj, "1", "cut", "1", "2", "3", "4")
	assert.ErrorIs(t, err, filters.ErrInvalidParameters)

	_, err = execute(t, "add", proj, "1", "blur")
	assert.ErrorIs(t, err, filters.ErrUnknownFilter)

	_, err = execute(t, "add", proj, "0", "cut")
	assert.Error(t, err)
}

func TestScript_WithOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	tmp := t.TempDir()
	proj := filepath.Join(tmp, "show.mdlv")
	body := "MDLV1\nshow.mkv\n500\n1;delogo;10;11;12;13\n601;cut;\n1001;drawbox;20;21;22;23\n"
	require.NoError(t, os.WriteFile(proj, []byte(body), 0o644))
	outDir := filepath.Join(tmp, "out")

	out := mustExecute(t, "script", proj, "--out", outDir,
		"--width", "1920", "--height", "1080", "--fps", "25", "--frames", "3000")
	assert.Contains(t, out, "(2600 frames, audio cut)")

	b, err := os.ReadFile(filepath.Join(outDir, "show.ffscript"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "[0:v]\ndelogo=enable='between(n,0,599)'"))
	assert.FileExists(t, filepath.Join(outDir, "show.summary.yaml"))
}

func TestScript_RefusesReview(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")

	tmp := t.TempDir()
	proj := filepath.Join(tmp, "show.mdlv")
	require.NoError(t, os.WriteFile(proj, []byte("MDLV1\nshow.mkv\n500\n1;review;\n"), 0o644))

	args := []string{"script", proj, "--width", "64", "--height", "64", "--fps", "25"}
	_, err := execute(t, args...)
	assert.True(t, errors.Is(err, usecase.ErrUnresolvedReview), "got %v", err)

	_, err = execute(t, append(args, "--allow-review")...)
	assert.NoError(t, err)
}

func TestScript_BadConfig(t *testing.T) {
	_, err := execute(t, "script", filepath.Join(t.TempDir(), "missing.mdlv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: stat project")
}
