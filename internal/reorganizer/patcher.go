package reorganizer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"deepclean/internal/config"
	"deepclean/internal/journal"
	"deepclean/internal/logging"
)

var writeFile = os.WriteFile

// Patcher rewrites literal import strings. Replacements are exact substring
// substitutions; no parsing takes place.
type Patcher struct {
	extensions   []string
	replacements []config.Replacement
	special      []config.SpecialCase
}

// NewPatcher builds a Patcher from the patch configuration.
func NewPatcher(cfg config.Patch) *Patcher {
	return &Patcher{
		extensions:   cfg.Extensions,
		replacements: cfg.Replacements,
		special:      cfg.SpecialCases,
	}
}

// Matches reports whether name carries one of the candidate extensions.
func (p *Patcher) Matches(name string) bool {
	for _, ext := range p.extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Apply returns content with every replacement applied, followed by the
// special cases registered for name's base name. Special cases match the
// base name exactly, so domain.jsx or a main.jsx/ directory never qualify.
func (p *Patcher) Apply(name, content string) string {
	for _, rep := range p.replacements {
		content = strings.ReplaceAll(content, rep.Old, rep.New)
	}
	base := filepath.Base(name)
	for _, sc := range p.special {
		if sc.FileName == base {
			content = strings.ReplaceAll(content, sc.Old, sc.New)
		}
	}
	return content
}

// PatchFile rewrites path in place when Apply changes it and reports whether
// it did. The file mode is preserved.
func (p *Patcher) PatchFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	original := string(data)
	patched := p.Apply(path, original)
	if patched == original {
		return false, nil
	}
	if err := writeFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	return true, nil
}

// Candidates walks root in lexical order and returns every regular file
// accepted by Matches. Symlinks are included when they resolve to a regular
// file and are patched through the link; directory links are not followed.
// Unreadable subtrees and dangling links are reported through onErr and
// skipped.
func (p *Patcher) Candidates(root string, onErr func(path string, err error)) []string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if onErr != nil {
				onErr(path, err)
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !p.Matches(d.Name()) {
			return nil
		}
		switch {
		case d.Type().IsRegular():
			files = append(files, path)
		case d.Type()&fs.ModeSymlink != 0:
			info, err := os.Stat(path)
			if err != nil {
				if onErr != nil {
					onErr(path, err)
				}
				return nil
			}
			if info.Mode().IsRegular() {
				files = append(files, path)
			}
		}
		return nil
	})
	return files
}

func (r *Reorganizer) patchImports(ctx context.Context) {
	source := r.abs(r.cfg.Layout.SourceDir)
	if _, err := os.Stat(source); err != nil {
		return
	}
	r.logger.Info("patching import paths for new structure")

	patcher := NewPatcher(r.cfg.Patch)
	files := patcher.Candidates(source, func(path string, err error) {
		r.fail(ctx, journal.ActionPatch, path, fmt.Errorf("walk: %w", err))
	})
	for _, path := range files {
		changed, err := patcher.PatchFile(path)
		if err != nil {
			r.fail(ctx, journal.ActionPatch, path, err)
			continue
		}
		if !changed {
			continue
		}
		rel := r.rel(path)
		r.summary.Patched = append(r.summary.Patched, rel)
		r.logger.Info("patched imports", logging.String("file", filepath.Base(path)), logging.String(logging.FieldPath, rel))
		r.record(ctx, journal.Action{Kind: journal.ActionPatch, Path: rel, Status: journal.StatusDone})
	}
}
