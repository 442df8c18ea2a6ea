package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const envPrefix = "DEEPCLEAN_"

// Paths contains the project root and tool state locations.
type Paths struct {
	// Root is the project directory to reorganize. Empty means the working directory.
	Root     string `toml:"root"`
	StateDir string `toml:"state_dir" env:"STATE_DIR"`
}

// Merge moves every entry of From into Into and then removes From.
type Merge struct {
	From string `toml:"from"`
	Into string `toml:"into"`
}

// Move relocates a single file or directory.
type Move struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// Layout describes the target project structure. All paths are relative to the root.
type Layout struct {
	ArchiveDir  string   `toml:"archive_dir"`
	BackupDir   string   `toml:"backup_dir"`
	SourceDir   string   `toml:"source_dir"`
	Directories []string `toml:"directories"`
	Clutter     []string `toml:"clutter"`
	Merges      []Merge  `toml:"merges"`
	Moves       []Move   `toml:"moves"`
}

// Replacement is a literal substring substitution.
type Replacement struct {
	Old string `toml:"old"`
	New string `toml:"new"`
}

// SpecialCase is a replacement restricted to files with the given base name.
type SpecialCase struct {
	FileName string `toml:"file_name"`
	Old      string `toml:"old"`
	New      string `toml:"new"`
}

// Patch contains the import rewriting rules.
type Patch struct {
	Extensions   []string      `toml:"extensions"`
	Replacements []Replacement `toml:"replacements"`
	SpecialCases []SpecialCase `toml:"special_cases"`
}

// Journal controls the SQLite run journal.
type Journal struct {
	Enabled bool `toml:"enabled" env:"JOURNAL_ENABLED"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" env:"LOG_FORMAT"`
	Level  string `toml:"level" env:"LOG_LEVEL"`
	// File receives a JSON copy of every log line when set.
	File string `toml:"file" env:"LOG_FILE"`
}

// Config encapsulates all configuration values for deepclean.
//
// Configuration sections:
//   - Paths: project root and state directory (lock, journal)
//   - Layout: archive quarantine, target directories, clutter, merges and moves
//   - Patch: candidate extensions and literal import replacements
//   - Journal: SQLite run journal toggle
//   - Logging: log format, level, and optional JSON file copy
type Config struct {
	Paths   Paths   `toml:"paths"`
	Layout  Layout  `toml:"layout"`
	Patch   Patch   `toml:"patch"`
	Journal Journal `toml:"journal"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/deepclean/config.toml")
}

// Load locates, parses, and validates a configuration file. Environment
// variables prefixed with DEEPCLEAN_ override file values. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()
	cfg.clearLists()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.fillListDefaults(Default())

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, "", false, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("deepclean.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used for the lock and journal.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// LockPath returns the advisory lock file guarding concurrent runs.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "deepclean.lock")
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
