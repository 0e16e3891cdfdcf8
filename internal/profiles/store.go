package profiles

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store persists uploaded voice profiles under a single directory and
// answers existence checks for the profile switch command.
type Store struct {
	dir string
	log *slog.Logger
}

func NewStore(dir string, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("profiles dir: %w", err)
	}
	return &Store{dir: abs, log: log.With("component", "profiles")}, nil
}

// Save writes the uploaded sample and returns its absolute path. The
// filename is flattened to its base name so uploads cannot escape the
// profile directory.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	name := sanitize(filename)
	if name == "" {
		return "", fmt.Errorf("empty filename")
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create profile: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write profile: %w", err)
	}

	s.log.Info("voice profile saved", "file", name, "bytes", n)
	return path, nil
}

func (s *Store) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func sanitize(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
