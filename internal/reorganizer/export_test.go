package reorganizer

import "os"

// SetRenameForTests swaps the rename primitive used by Move and returns a
// restore function.
func SetRenameForTests(fn func(oldpath, newpath string) error) func() {
	prev := rename
	rename = fn
	return func() { rename = prev }
}

// SetWriteFileForTests swaps the writer used by PatchFile and returns a
// restore function.
func SetWriteFileForTests(fn func(name string, data []byte, perm os.FileMode) error) func() {
	prev := writeFile
	writeFile = fn
	return func() { writeFile = prev }
}
