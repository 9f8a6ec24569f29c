//go:build integration

package itest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

const cliTimeout = 60 * time.Second

type robustCase struct {
	name            string
	args            func(t *testing.T, repoRoot string) []string
	env             map[string]string
	wantContains    []string
	wantNotContains []string
}

type cliRunResult struct {
	exitCode int
	output   string
}

func TestRobustness_ArgsValidation(t *testing.T) {
	cases := []robustCase{
		{
			name: "no args",
			args: staticArgs("script"),
			wantContains: []string{
				"requires at least 1 arg(s), only received 0",
			},
		},
		{
			name: "unknown flag",
			args: withProject("MDLV1\nm.mp4\n500\n", "script", "{project}", "--wat"),
			wantContains: []string{
				"unknown flag: --wat",
			},
		},
		{
			name: "fuzzy non float",
			args: withProject("MDLV1\nm.mp4\n500\n", "script", "{project}", "--fuzzy", "nope"),
			wantContains: []string{
				`invalid argument "nope" for "--fuzzy"`,
			},
		},
		{
			name: "fuzzy below one",
			args: withProject("MDLV1\nm.mp4\n500\n", "script", "{project}", "--fuzzy", "0.5"),
			wantContains: []string{
				"config: fuzziness must be 0 (off) or >= 1",
			},
		},
		{
			name: "add without coordinates",
			args: withProject("MDLV1\nm.mp4\n500\n", "add", "{project}", "1", "delogo"),
			wantContains: []string{
				"invalid filter parameters",
			},
		},
		{
			name: "bad workers env",
			args: withProject("MDLV1\nm.mp4\n500\n", "script", "{project}"),
			env: map[string]string{
				"MDLV_WORKERS": "many",
			},
			wantContains: []string{
				"invalid MDLV_WORKERS",
			},
		},
	}

	runRobustCases(t, mustRepoRoot(t), cases)
}

func TestRobustness_InvalidProjects(t *testing.T) {
	cases := []robustCase{
		{
			name: "missing project",
			args: staticArgs("script", filepath.Join(os.TempDir(), "does-not-exist.mdlv")),
			wantContains: []string{
				"config: stat project:",
			},
		},
		{
			name: "not a project file",
			args: withProject("hello\n", "script", "{project}"),
			wantContains: []string{
				"invalid project file",
			},
		},
		{
			name: "bad filter line",
			args: withProject("MDLV1\nm.mp4\n500\n1;blur;\n", "show", "{project}"),
			wantContains: []string{
				"line 1: unknown filter",
			},
		},
		{
			name: "movie is not media",
			args: withProject("MDLV1\nproject.mdlv\n500\n1;cut;\n", "script", "{project}"),
			wantContains: []string{
				"ffprobe stream:",
			},
		},
		{
			name: "unresolved review",
			args: withProject("MDLV1\nm.mp4\n500\n1;review;\n", "script", "{project}",
				"--width", "64", "--height", "64", "--fps", "25"),
			wantContains: []string{
				"project has unresolved review regions",
			},
		},
		{
			name: "missing ffprobe",
			args: withProject("MDLV1\nm.mp4\n500\n1;cut;\n", "script", "{project}"),
			env: map[string]string{
				"MDLV_FFPROBE": "/nonexistent/ffprobe",
			},
			wantContains: []string{
				"ffprobe stream:",
			},
		},
	}

	runRobustCases(t, mustRepoRoot(t), cases)
}

// withProject writes body to a temporary project file and substitutes its path
// for "{project}" in args.
func withProject(body string, args ...string) func(t *testing.T, _ string) []string {
	return func(t *testing.T, _ string) []string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "project.mdlv")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write project fixture: %v", err)
		}
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = strings.ReplaceAll(a, "{project}", path)
		}
		return out
	}
}

func runRobustCases(t *testing.T, repoRoot string, cases []robustCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, repoRoot, tc.args(t, repoRoot), tc.env)
			if res.exitCode == 0 {
				t.Fatalf("expected non-zero exit code, got 0\noutput:\n%s", res.output)
			}
			for _, want := range tc.wantContains {
				if !strings.Contains(res.output, want) {
					t.Fatalf("expected output to contain %q\noutput:\n%s", want, res.output)
				}
			}
			for _, notWant := range tc.wantNotContains {
				if strings.Contains(res.output, notWant) {
					t.Fatalf("expected output to not contain %q\noutput:\n%s", notWant, res.output)
				}
			}
		})
	}
}

func runCLI(t *testing.T, repoRoot string, args []string, env map[string]string) cliRunResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmdArgs := append([]string{"run", "./cmd/mdlv"}, args...)
	cmd := exec.CommandContext(ctx, "go", cmdArgs...)
	cmd.Dir = repoRoot
	cmd.Env = mergeEnv(
		os.Environ(),
		map[string]string{
			"NO_COLOR": "1",
			"TERM":     "dumb",
		},
		env,
	)

	out, err := cmd.CombinedOutput()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Fatalf("command timed out after %s: go %s", cliTimeout, strings.Join(cmdArgs, " "))
	}

	res := cliRunResult{output: string(out)}
	if err == nil {
		res.exitCode = 0
		return res
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.exitCode = exitErr.ExitCode()
		return res
	}

	t.Fatalf("run command: %v\noutput:\n%s", err, string(out))
	return cliRunResult{}
}

func mergeEnv(base []string, overrides ...map[string]string) []string {
	env := make(map[string]string, len(base))
	for _, kv := range base {
		i := strings.IndexByte(kv, '=')
		if i <= 0 {
			continue
		}
		env[kv[:i]] = kv[i+1:]
	}

	for _, set := range overrides {
		for k, v := range set {
			env[k] = v
		}
	}

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(out)
	return out
}

func mustRepoRoot(t *testing.T) string {
	t.Helper()

	repoRoot, err := findRepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	return repoRoot
}

func staticArgs(args ...string) func(t *testing.T, _ string) []string {
	clone := append([]string(nil), args...)
	return func(t *testing.T, _ string) []string {
		t.Helper()
		return append([]string(nil), clone...)
	}
}
