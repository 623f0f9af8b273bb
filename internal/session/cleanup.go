package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// legacyFiles are session files written by earlier releases, relative to
// the home directory. Each is followed by the directory to prune if empty.
var legacyFiles = []struct {
	file string
	dir  string
}{
	{file: filepath.Join(".mm", "mm_session.pickle"), dir: ".mm"},
	{file: "monarch_session.json"},
	{file: filepath.Join(".monarchmoney", "session.json"), dir: ".monarchmoney"},
}

// cleanupLegacy removes legacy session artifacts. Failures are logged only.
func (s *Store) cleanupLegacy() {
	home := s.homeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			s.logger.Debug("skipping legacy session cleanup", "error", err)
			return
		}
	}

	for _, lf := range legacyFiles {
		path := filepath.Join(home, lf.file)
		if err := os.Remove(path); err == nil {
			s.logger.Info("removed legacy session file", "path", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not remove legacy session file", "path", path, "error", err)
		}

		if lf.dir == "" {
			continue
		}
		dir := filepath.Join(home, lf.dir)
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			s.logger.Warn("could not remove legacy session directory", "path", dir, "error", err)
		} else {
			s.logger.Info("removed legacy session directory", "path", dir)
		}
	}
}
