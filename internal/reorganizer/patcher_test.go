package reorganizer_test

import (
	"os"
	"path/filepath"
	"testing"

	"deepclean/internal/config"
	"deepclean/internal/reorganizer"
	"deepclean/internal/testsupport"
)

func TestPatcherApply(t *testing.T) {
	patcher := reorganizer.NewPatcher(config.Default().Patch)

	tests := []struct {
		name string
		file string
		in   string
		want string
	}{
		{
			name: "sibling import",
			file: "App.jsx",
			in:   "import { ask } from './ai/gemini'",
			want: "import { ask } from '../services/gemini'",
		},
		{
			name: "parent import",
			file: "components/Nav.jsx",
			in:   "import { db } from '../firebase/config'",
			want: "import { db } from '../services/config'",
		},
		{
			name: "every occurrence",
			file: "a.js",
			in:   "from './ai/gemini'; from './ai/gemini'",
			want: "from '../services/gemini'; from '../services/gemini'",
		},
		{
			name: "similar but not exact",
			file: "a.js",
			in:   "import x from './aiGemini'",
			want: "import x from './aiGemini'",
		},
		{
			name: "double quotes untouched",
			file: "a.js",
			in:   `import x from "./ai/gemini"`,
			want: `import x from "./ai/gemini"`,
		},
		{
			name: "inside comment",
			file: "a.js",
			in:   "// from './firebase/auth'",
			want: "// from '../services/auth'",
		},
		{
			name: "main.jsx side-effect import",
			file: "src/main.jsx",
			in:   "import './index.css'",
			want: "import './styles/index.css'",
		},
		{
			name: "side-effect import elsewhere",
			file: "src/domain.jsx",
			in:   "import './index.css'",
			want: "import './index.css'",
		},
		{
			name: "file under main.jsx directory",
			file: "src/main.jsx/App.jsx",
			in:   "import './index.css'",
			want: "import './index.css'",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := patcher.Apply(tc.file, tc.in); got != tc.want {
				t.Fatalf("Apply(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPatcherOutputIsStable(t *testing.T) {
	patcher := reorganizer.NewPatcher(config.Default().Patch)
	for _, rep := range config.Default().Patch.Replacements {
		once := patcher.Apply("main.jsx", rep.Old)
		if twice := patcher.Apply("main.jsx", once); twice != once {
			t.Fatalf("replacement for %q is not stable: %q then %q", rep.Old, once, twice)
		}
	}
}

func TestPatcherCandidatesSortedAndFiltered(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"b.js", "a.jsx", "nested/c.js", "styles/index.css", "notes.json"} {
		testsupport.WriteFile(t, dir, rel, "x")
	}
	if err := os.Symlink(filepath.Join(dir, "a.jsx"), filepath.Join(dir, "link.js")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(dir, "nested"), filepath.Join(dir, "linkdir.js")); err != nil {
		t.Fatal(err)
	}
	patcher := reorganizer.NewPatcher(config.Default().Patch)

	got := patcher.Candidates(dir, func(path string, err error) {
		t.Fatalf("unexpected walk error at %s: %v", path, err)
	})

	want := []string{
		filepath.Join(dir, "a.jsx"),
		filepath.Join(dir, "b.js"),
		filepath.Join(dir, "link.js"),
		filepath.Join(dir, "nested", "c.js"),
	}
	if len(got) != len(want) {
		t.Fatalf("unexpected candidates: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("candidate %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestPatchFilePreservesMode(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteFile(t, dir, "App.jsx", "import x from './ai/gemini'\n")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	patcher := reorganizer.NewPatcher(config.Default().Patch)

	changed, err := patcher.PatchFile(path)
	if err != nil || !changed {
		t.Fatalf("expected change, got %v, %v", changed, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode changed to %o", info.Mode().Perm())
	}

	changed, err = patcher.PatchFile(path)
	if err != nil || changed {
		t.Fatalf("expected no change on second pass, got %v, %v", changed, err)
	}
}

func TestPatcherCandidatesReportsDanglingLink(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFile(t, dir, "App.jsx", "x")
	if err := os.Symlink(filepath.Join(dir, "gone.js"), filepath.Join(dir, "broken.js")); err != nil {
		t.Fatal(err)
	}
	patcher := reorganizer.NewPatcher(config.Default().Patch)

	var reported []string
	got := patcher.Candidates(dir, func(path string, err error) {
		reported = append(reported, filepath.Base(path))
	})

	if len(got) != 1 || filepath.Base(got[0]) != "App.jsx" {
		t.Fatalf("unexpected candidates: %v", got)
	}
	if len(reported) != 1 || reported[0] != "broken.js" {
		t.Fatalf("expected dangling link to be reported, got %v", reported)
	}
}

func TestPatchFileWritesThroughSymlink(t *testing.T) {
	dir := t.TempDir()
	target := testsupport.WriteFile(t, dir, "real/App.jsx", "import x from './ai/gemini'\n")
	link := filepath.Join(dir, "src", "App.jsx")
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}
	patcher := reorganizer.NewPatcher(config.Default().Patch)

	changed, err := patcher.PatchFile(link)
	if err != nil || !changed {
		t.Fatalf("expected change, got %v, %v", changed, err)
	}
	if got := testsupport.ReadFile(t, dir, "real/App.jsx"); got != "import x from '../services/gemini'\n" {
		t.Fatalf("link target not patched: %q", got)
	}
	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("expected link to remain a symlink")
	}
}
