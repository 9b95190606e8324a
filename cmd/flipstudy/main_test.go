package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/flipstudy/internal/config"
	"github.com/nvandessel/flipstudy/internal/spacing"
)

// runRoot executes the root command with args and stdin, returning stdout.
func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeWords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "words.csv")
	if err := os.WriteFile(path, []byte("hund,dog\nkatt,cat\nfisk,fish\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}

	out, err := runRoot(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output = %q, want version %q", out, version)
	}

	out, err = runRoot(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version --json error = %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

// failingWriter rejects every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestVersionCmdReportsWriteErrors(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"version", "--json"}} {
		rootCmd := newRootCmd()
		rootCmd.SetOut(failingWriter{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs(args)
		if err := rootCmd.Execute(); err == nil {
			t.Errorf("%v: expected write error", args)
		}
	}
}

func TestNewStudyCmd(t *testing.T) {
	cmd := newStudyCmd()
	if cmd.Use != "study" {
		t.Errorf("Use = %q, want %q", cmd.Use, "study")
	}

	for _, name := range []string{"file", "time", "limit", "trials", "out", "test", "test-ratio", "test-max", "seed", "flip", "flip-polarity", "flip-threshold"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("missing --%s flag", name)
		}
	}
	for short, long := range map[string]string{"F": "file", "T": "time", "L": "limit", "R": "trials"} {
		f := cmd.Flags().ShorthandLookup(short)
		if f == nil || f.Name != long {
			t.Errorf("-%s should be shorthand for --%s", short, long)
		}
	}
}

func TestConfigCmdPrintsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flipstudy.yaml")
	if err := os.WriteFile(path, []byte("flip:\n  polarity: below\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := runRoot(t, "", "config", "--config", path, "--log-level", "debug")
	if err != nil {
		t.Fatalf("config error = %v", err)
	}
	for _, want := range []string{"polarity: below", "level: debug", "lookahead: 15s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStudyCmdRequiresFile(t *testing.T) {
	if _, err := runRoot(t, "", "study"); err == nil {
		t.Fatal("expected error without --file")
	}
}

func TestStudyCmdRejectsBadPolarity(t *testing.T) {
	_, err := runRoot(t, "", "study", "--file", writeWords(t), "--flip-polarity", "sideways")
	if !errors.Is(err, spacing.ErrInvalidConfig) {
		t.Fatalf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestStudyCmdWritesExport(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "runs", "data.csv")

	out, err := runRoot(t, "dog\ndog\nexit\n",
		"study", "--file", writeWords(t), "--trials", "2", "--out", outPath, "--seed", "3")
	if err != nil {
		t.Fatalf("study error = %v", err)
	}

	if !strings.Contains(out, "New vocabulary: dog means hund!") {
		t.Errorf("missing first prompt in output:\n%s", out)
	}
	if !strings.Contains(out, "Session finished (trials): 2 trials") {
		t.Errorf("missing summary in output:\n%s", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want 3:\n%s", len(lines), data)
	}
	if lines[0] != "fact_id,start_time,reaction_time,correct,flipped,alpha,activation" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,") {
		t.Errorf("first row = %q, want fact 1", lines[1])
	}
}

func TestStudyCmdTestPhaseJSON(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "data.jsonl")

	out, err := runRoot(t, "dog\ndog\ndog\n",
		"study", "-F", writeWords(t), "-R", "2", "--out", outPath, "--test", "--json", "--flip=false")
	if err != nil {
		t.Fatalf("study error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	var result studyResult
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &result); err != nil {
		t.Fatalf("invalid JSON summary %q: %v", lines[len(lines)-1], err)
	}

	if result.Trials != 2 {
		t.Errorf("Trials = %d, want 2", result.Trials)
	}
	if result.Correct != 2 {
		t.Errorf("Correct = %d, want 2", result.Correct)
	}
	if result.Flipped != 0 {
		t.Errorf("Flipped = %d, want 0 with --flip=false", result.Flipped)
	}
	if result.SessionID == "" {
		t.Error("SessionID is empty")
	}
	if result.TestTotal != 1 || result.TestCorrect != 1 {
		t.Errorf("test = %d/%d, want 1/1", result.TestCorrect, result.TestTotal)
	}

	wantTest := filepath.Join(filepath.Dir(outPath), "data_test.csv")
	if result.TestPath != wantTest {
		t.Errorf("TestPath = %q, want %q", result.TestPath, wantTest)
	}
	if _, err := os.Stat(wantTest); err != nil {
		t.Errorf("test results not written: %v", err)
	}
}

func TestApplyStudyFlags(t *testing.T) {
	cmd := newStudyCmd()
	if err := cmd.ParseFlags([]string{"--time", "3", "--flip-threshold", "-1.5", "--out", "out//data.db"}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	cfg := config.Default()
	applyStudyFlags(cmd, cfg)

	if cfg.Session.Duration.Minutes() != 3 {
		t.Errorf("Duration = %s, want 3m", cfg.Session.Duration)
	}
	if cfg.Flip.Threshold != -1.5 {
		t.Errorf("Threshold = %v, want -1.5", cfg.Flip.Threshold)
	}
	if cfg.Export.Path != filepath.Join("out", "data.db") {
		t.Errorf("Export.Path = %q", cfg.Export.Path)
	}

	// Unset flags keep config values.
	def := config.Default()
	if cfg.Session.MaxTrials != def.Session.MaxTrials || cfg.Flip.Polarity != def.Flip.Polarity || cfg.Flip.Enabled != def.Flip.Enabled {
		t.Errorf("unset flags changed config: %+v", cfg)
	}
}
