package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/pauseclick/internal/app"
	"github.com/dshills/pauseclick/internal/plugin"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pauseclick dev") || !strings.Contains(out, plugin.Version) {
		t.Errorf("version output:\n%s", out)
	}
}

func TestManifestCmd(t *testing.T) {
	out, _, err := execute(t, "manifest")
	if err != nil {
		t.Fatal(err)
	}
	var m plugin.Manifest
	if err := json.Unmarshal([]byte(out), &m); err != nil {
		t.Fatalf("manifest is not JSON: %v\n%s", err, out)
	}
	if m.Name != plugin.Name || len(m.Submodules) != 2 {
		t.Errorf("manifest = %+v", m)
	}

	text, _, err := execute(t, "manifest", "--text")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "capability: video filter") {
		t.Errorf("text manifest:\n%s", text)
	}
}

func TestSettingsCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pauseclick.yaml")
	if err := os.WriteFile(path, []byte("pause-click:\n  mouse-button: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "settings", "-c", path, "--host-version", "4")
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 3 && fields[0] == "pause-click-mouse-button" {
			found = true
			if fields[1] != "3" || fields[2] != "file" {
				t.Errorf("mouse-button line = %q", line)
			}
		}
	}
	if !found {
		t.Errorf("no mouse-button line in:\n%s", out)
	}
	if !strings.Contains(out, "host 4: primary=right") {
		t.Errorf("snapshot line missing:\n%s", out)
	}
}

func TestRunCmd(t *testing.T) {
	script := filepath.Join("..", "..", "internal", "scenario", "testdata", "single_click.lua")

	out, _, err := execute(t, "run", "--all-versions", script)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if strings.Count(out, "PASS single_click.lua") != 4 {
		t.Errorf("run output:\n%s", out)
	}
}

func TestRunCmdFailures(t *testing.T) {
	failing := filepath.Join(t.TempDir(), "fail.lua")
	if err := os.WriteFile(failing, []byte(`expect(1 == 2, "math")`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := execute(t, "run", failing)
	if !errors.Is(err, app.ErrScenariosFailed) {
		t.Errorf("run = %v, want ErrScenariosFailed", err)
	}
	if !strings.Contains(out, "FAIL fail.lua") || !strings.Contains(out, "math") {
		t.Errorf("run output:\n%s", out)
	}

	if _, _, err := execute(t, "run"); err == nil {
		t.Error("run without scripts should fail")
	}
}

func TestGlobalFlagValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"log level", []string{"settings", "--log-level", "chatty"}},
		{"host version", []string{"settings", "--host-version", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			if !errors.Is(err, app.ErrInvalidOption) {
				t.Errorf("err = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestTermCmdRequiresTerminal(t *testing.T) {
	_, _, err := execute(t, "term")
	if !errors.Is(err, app.ErrNotATerminal) {
		t.Errorf("term = %v, want ErrNotATerminal", err)
	}
}
