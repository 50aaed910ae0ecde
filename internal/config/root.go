package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FindRoot walks up from dir looking for elementz.yaml. If none is found
// dir itself is the root: the config file is optional.
func FindRoot(fs afero.Fs, dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = cwd
	}
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	cur := start
	for i := 0; i < 10; i++ {
		if ok, _ := afero.Exists(fs, filepath.Join(cur, FileName)); ok {
			return cur, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return start, nil
}
