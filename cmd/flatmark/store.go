package main

import (
	"os"
	"path/filepath"

	"github.com/jcorbin/flatmark/internal/memhost"
)

// findDir resolves a relative directory name against the working directory,
// checking every parent directory until an existing one is found. It returns
// an absolute path, falling back to name under the working directory when no
// such directory exists.
func findDir(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	if info, err := os.Stat(name); err == nil && info.IsDir() {
		return filepath.Abs(name)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := wd; ; {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Join(wd, name), nil
}

// store returns the shape store, found by findDir unless init is creating it.
func (g *Globals) store(creating bool) (memhost.Store, error) {
	var st memhost.Store
	if !g.Normalize {
		st.Normalize = memhost.NoNormalize
	}
	var err error
	if creating {
		st.Dir, err = filepath.Abs(g.Store)
	} else {
		st.Dir, err = findDir(g.Store)
	}
	return st, err
}
