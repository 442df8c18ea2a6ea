package logging_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deepclean/internal/config"
	"deepclean/internal/logging"
)

func TestConsoleLoggerPrefixesAndRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, _, err := logging.New(logging.Options{
		Format:  "console",
		Level:   "info",
		Stdout:  &stdout,
		Stderr:  &stderr,
		NoColor: true,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("moved", logging.String("source", "gemini.js"), logging.String("target", "src/services/gemini.js"))
	logger.Error("could not move", logging.String(logging.FieldPath, "src/ai/x.js"), logging.Error(errors.New("permission denied")))
	logger.Debug("hidden")

	if got := stdout.String(); got != "[SYSTEM] moved source=gemini.js target=src/services/gemini.js\n" {
		t.Fatalf("unexpected stdout: %q", got)
	}
	if got := stderr.String(); got != "[ERROR] could not move path=src/ai/x.js error=\"permission denied\"\n" {
		t.Fatalf("unexpected stderr: %q", got)
	}
}

func TestConsoleLoggerHidesContextFieldsAtInfo(t *testing.T) {
	var stdout bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "debug", Stdout: &stdout, Stderr: &stdout, NoColor: true})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "reorganizer").With(logging.String(logging.FieldRunID, "abc"))

	logger.Info("patched imports")
	logger.Debug("walking")

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", stdout.String())
	}
	if lines[0] != "[SYSTEM] patched imports" {
		t.Fatalf("unexpected info line: %q", lines[0])
	}
	if lines[1] != "[DEBUG] reorganizer: walking run_id=abc" {
		t.Fatalf("unexpected debug line: %q", lines[1])
	}
}

func TestJSONLoggerWritesFileCopy(t *testing.T) {
	var stdout bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "deepclean.log")

	logger, closeLog, err := logging.New(logging.Options{
		Format:   "console",
		Level:    "info",
		Stdout:   &stdout,
		Stderr:   &stdout,
		FilePath: logPath,
		NoColor:  true,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("created", logging.String(logging.FieldPath, "public"))
	if err := closeLog(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	if err := closeLog(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("expected second close to report os.ErrClosed, got %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, want := range []string{`"level":"info"`, `"msg":"created"`, `"path":"public"`, `"ts":`} {
		if !strings.Contains(string(content), want) {
			t.Fatalf("expected %s in log file, got %q", want, content)
		}
	}
	if !strings.HasPrefix(stdout.String(), "[SYSTEM] created") {
		t.Fatalf("expected console line alongside file copy, got %q", stdout.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigDefaults(t *testing.T) {
	cfg := config.Default()
	var stdout, stderr bytes.Buffer
	logger, _, err := logging.NewFromConfig(&cfg, &stdout, &stderr)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("initiating deep clean")
	logger.Debug("hidden at info")
	if stdout.String() != "[SYSTEM] initiating deep clean\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
	_, closeLog, err := logging.NewFromConfig(nil, &stdout, &stderr)
	if err != nil {
		t.Fatalf("NewFromConfig(nil) returned error: %v", err)
	}
	if err := closeLog(); err != nil {
		t.Fatalf("close without log file: %v", err)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), 8) {
		t.Fatal("expected no-op logger to be disabled for every level")
	}
}
