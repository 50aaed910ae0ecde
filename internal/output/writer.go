package output

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFile replaces path with contents through a temporary file and a
// rename, so readers never see a half-written file.
func WriteFile(fs afero.Fs, path string, contents []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, contents, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
