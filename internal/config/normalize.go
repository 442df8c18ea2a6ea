package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLayout()
	c.normalizePatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	root := strings.TrimSpace(c.Paths.Root)
	if root == "" {
		root = "."
	}
	if c.Paths.Root, err = expandPath(root); err != nil {
		return fmt.Errorf("paths.root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLayout() {
	c.Layout.ArchiveDir = cleanRelative(c.Layout.ArchiveDir)
	c.Layout.BackupDir = cleanRelative(c.Layout.BackupDir)
	c.Layout.SourceDir = cleanRelative(c.Layout.SourceDir)
	for i, dir := range c.Layout.Directories {
		c.Layout.Directories[i] = cleanRelative(dir)
	}
	for i, name := range c.Layout.Clutter {
		c.Layout.Clutter[i] = strings.TrimSpace(name)
	}
	for i := range c.Layout.Merges {
		c.Layout.Merges[i].From = cleanRelative(c.Layout.Merges[i].From)
		c.Layout.Merges[i].Into = cleanRelative(c.Layout.Merges[i].Into)
	}
	for i := range c.Layout.Moves {
		c.Layout.Moves[i].From = cleanRelative(c.Layout.Moves[i].From)
		c.Layout.Moves[i].To = cleanRelative(c.Layout.Moves[i].To)
	}
}

func (c *Config) normalizePatch() {
	for i, ext := range c.Patch.Extensions {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Patch.Extensions[i] = ext
	}
	for i := range c.Patch.SpecialCases {
		c.Patch.SpecialCases[i].FileName = strings.TrimSpace(c.Patch.SpecialCases[i].FileName)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		if expanded, err := expandPath(c.Logging.File); err == nil {
			c.Logging.File = expanded
		}
	}
}

// cleanRelative trims and cleans a root-relative path using forward slashes
// so values from TOML compare equal regardless of trailing separators.
func cleanRelative(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(value))
}
