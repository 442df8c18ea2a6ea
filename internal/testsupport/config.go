package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"deepclean/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces the default config pointed at a fresh project root and
// state directory under a per-test temp directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Root = filepath.Join(base, "project")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	if err := os.MkdirAll(builder.cfg.Paths.Root, 0o755); err != nil {
		t.Fatalf("mkdir project root: %v", err)
	}
	return builder.cfg
}

// WithProjectFiles seeds the project root with files keyed by slash-separated
// relative path.
func WithProjectFiles(files map[string]string) ConfigOption {
	return func(b *configBuilder) {
		for rel, content := range files {
			WriteFile(b.t, b.cfg.Paths.Root, rel, content)
		}
	}
}
