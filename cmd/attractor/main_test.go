package main

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunFromEnv(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "params.json")
	out := filepath.Join(dir, "out.png")
	data := `{"sigma": 10, "rho": 28, "beta": 2.667, "dt": 0.01, "iterations": 500, "result_size": 16}`
	if err := os.WriteFile(cfg, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ABOUND_CONFIG_PATH", cfg)
	t.Setenv("ABOUND_OUTPUT_PATH", out)

	if _, err := execute(t, "--log-level", "error"); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("expected 16x16, got %v", b)
	}
}

func TestRunWritesPNGForUnknownExtension(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "params.yaml")
	if err := os.WriteFile(cfg, []byte("iterations: 50\nresult_size: 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ABOUND_CONFIG_PATH", cfg)

	for _, name := range []string{"result", "result.jpg"} {
		t.Run(name, func(t *testing.T) {
			out := filepath.Join(dir, name)
			t.Setenv("ABOUND_OUTPUT_PATH", out)

			if _, err := execute(t, "run"); err != nil {
				t.Fatalf("run: %v", err)
			}

			f, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := png.Decode(f)
			if err != nil {
				t.Fatalf("expected png at %s: %v", out, err)
			}
			if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
				t.Errorf("expected 4x4, got %v", b)
			}
		})
	}
}

func TestRunMissingEnv(t *testing.T) {
	t.Setenv("ABOUND_CONFIG_PATH", "")
	t.Setenv("ABOUND_OUTPUT_PATH", "")

	_, err := execute(t, "run")
	var se *dynamo.StageError
	if !errors.As(err, &se) || se.Stage != dynamo.StageLoadConfig {
		t.Fatalf("expected load config stage error, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "load config: ") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestRenderSaveListPlot(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "runs")
	out := filepath.Join(dir, "art.bmp")

	stdout, err := execute(t, "render",
		"--preset", "canonical", "--iterations", "300", "--size", "8",
		"--out", out, "--scale", "2", "--save", "--data", data, "--log-level", "error")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	runID := strings.TrimSpace(strings.TrimPrefix(stdout, "saved: "))
	if runID == "" {
		t.Fatalf("no run id in %q", stdout)
	}

	listing, err := execute(t, "list", "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(listing, runID) {
		t.Errorf("list does not mention %s:\n%s", runID, listing)
	}

	plot, err := execute(t, "plot", runID, "--data", data)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plot, "visits per column (x)") || !strings.Contains(plot, "iterations=300") {
		t.Errorf("unexpected plot output:\n%s", plot)
	}
}

func TestRenderInvalidFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "x.png")

	tests := []struct {
		name  string
		args  []string
		stage string
	}{
		{"zero size", []string{"--size", "0"}, dynamo.StageLoadConfig},
		{"unknown preset", []string{"--preset", "nope"}, dynamo.StageLoadConfig},
		{"unknown format", []string{"--format", "gif"}, dynamo.StageWriteOutput},
		{"bad scale", []string{"--scale", "0"}, dynamo.StageWriteOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--out", out, "--iterations", "10", "--log-level", "error"}, tt.args...)
			_, err := execute(t, args...)
			var se *dynamo.StageError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StageError, got %v", err)
			}
			if se.Stage != tt.stage {
				t.Errorf("expected stage %q, got %q", tt.stage, se.Stage)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	out, err := execute(t, "preview", "--iterations", "200", "--size", "16", "--cols", "8", "--log-level", "error")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "lorenz density") || !strings.Contains(out, "200") {
		t.Errorf("unexpected preview output:\n%s", out)
	}
}

func TestPresets(t *testing.T) {
	out, err := execute(t, "presets")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"canonical", "poster", "wings"} {
		if !strings.Contains(out, name) {
			t.Errorf("presets missing %s", name)
		}
	}

	out, err = execute(t, "presets", "show", "canonical")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "result_size: 64") {
		t.Errorf("unexpected preset yaml:\n%s", out)
	}

	if _, err := execute(t, "presets", "show", "missing"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wings.yaml")

	if _, err := execute(t, "presets", "save", "wings", path); err != nil {
		t.Fatal(err)
	}
	got, err := config.Load(path)
	if err != nil {
		t.Fatalf("load saved preset: %v", err)
	}
	want, _ := config.GetPreset("wings")
	if got != want {
		t.Errorf("saved preset %+v, want %+v", got, want)
	}

	if _, err := execute(t, "presets", "save", "missing", path); err == nil {
		t.Error("expected error for unknown preset")
	}
}
