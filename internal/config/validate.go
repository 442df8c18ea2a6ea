package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validatePatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLayout() error {
	if err := validateRelative("layout.source_dir", c.Layout.SourceDir); err != nil {
		return err
	}
	if c.Layout.ArchiveDir != "" || c.Layout.BackupDir != "" {
		if err := validateRelative("layout.archive_dir", c.Layout.ArchiveDir); err != nil {
			return err
		}
		if err := validateRelative("layout.backup_dir", c.Layout.BackupDir); err != nil {
			return err
		}
	}
	for i, dir := range c.Layout.Directories {
		if err := validateRelative(fmt.Sprintf("layout.directories[%d]", i), dir); err != nil {
			return err
		}
	}
	for i, name := range c.Layout.Clutter {
		if name == "" {
			return fmt.Errorf("layout.clutter[%d] must not be empty", i)
		}
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("layout.clutter[%d] must be a bare file name, got %q", i, name)
		}
	}
	for i, merge := range c.Layout.Merges {
		if err := validateRelative(fmt.Sprintf("layout.merges[%d].from", i), merge.From); err != nil {
			return err
		}
		if err := validateRelative(fmt.Sprintf("layout.merges[%d].into", i), merge.Into); err != nil {
			return err
		}
		if merge.From == merge.Into {
			return fmt.Errorf("layout.merges[%d]: from and into are the same directory %q", i, merge.From)
		}
	}
	for i, move := range c.Layout.Moves {
		if err := validateRelative(fmt.Sprintf("layout.moves[%d].from", i), move.From); err != nil {
			return err
		}
		if err := validateRelative(fmt.Sprintf("layout.moves[%d].to", i), move.To); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validatePatch() error {
	if len(c.Patch.Extensions) == 0 && (len(c.Patch.Replacements) > 0 || len(c.Patch.SpecialCases) > 0) {
		return errors.New("patch.extensions must list at least one extension when replacements are configured")
	}
	for i, ext := range c.Patch.Extensions {
		if ext == "" || ext == "." {
			return fmt.Errorf("patch.extensions[%d] must not be empty", i)
		}
	}
	for i, r := range c.Patch.Replacements {
		if r.Old == "" {
			return fmt.Errorf("patch.replacements[%d].old must not be empty", i)
		}
	}
	for i, sc := range c.Patch.SpecialCases {
		if sc.FileName == "" {
			return fmt.Errorf("patch.special_cases[%d].file_name must not be empty", i)
		}
		if sc.Old == "" {
			return fmt.Errorf("patch.special_cases[%d].old must not be empty", i)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// validateRelative rejects empty, absolute, and root-escaping layout paths.
func validateRelative(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s must be set", field)
	}
	if filepath.IsAbs(value) {
		return fmt.Errorf("%s must be relative to the project root, got %q", field, value)
	}
	if value == "." {
		return fmt.Errorf("%s must not be the project root itself", field)
	}
	if value == ".." || strings.HasPrefix(value, "../") {
		return fmt.Errorf("%s must stay inside the project root, got %q", field, value)
	}
	return nil
}
