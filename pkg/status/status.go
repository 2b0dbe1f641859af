// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 💾 FileManager handles all file system operations for a patch session
type FileManager interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// WriteFileAtomic replaces path with content so that readers see either
	// the old or the new bytes, never a mix. The file mode is preserved.
	WriteFileAtomic(ctx context.Context, path string, content []byte) error
}

// tempFile is the subset of *os.File used while writing atomically
type tempFile interface {
	io.Writer
	Name() string
	Chmod(mode os.FileMode) error
	Sync() error
	Close() error
}

// 🔧 Manager implements FileManager on the local file system
type Manager struct {
	baseDir string // relative paths are resolved against this; empty means the working directory

	createTemp func(dir, pattern string) (tempFile, error)
}

var _ FileManager = (*Manager)(nil)

// 🏭 New creates a new file manager rooted at baseDir
func New(baseDir string) *Manager {
	if baseDir != "" {
		baseDir = filepath.Clean(baseDir)
	}
	return &Manager{
		baseDir: baseDir,
		createTemp: func(dir, pattern string) (tempFile, error) {
			return os.CreateTemp(dir, pattern)
		},
	}
}

// 🔒 getAbsPath resolves path against the base directory
func (m *Manager) getAbsPath(path string) string {
	if m.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(m.baseDir, path)
}

func (m *Manager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	content, err := os.ReadFile(m.getAbsPath(path))
	if err != nil {
		return nil, errors.Errorf("reading file: %w", err)
	}
	return content, nil
}

func (m *Manager) WriteFileAtomic(ctx context.Context, path string, content []byte) error {
	absPath := m.getAbsPath(path)
	logger := zerolog.Ctx(ctx)

	mode := os.FileMode(0644)
	if info, err := os.Stat(absPath); err == nil {
		mode = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Errorf("checking file mode: %w", err)
	}

	// Temp file must live in the same directory for the rename to be atomic
	tmp, err := m.createTemp(filepath.Dir(absPath), "."+filepath.Base(absPath)+".guardpatch-*")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Debug().Err(rmErr).Str("temp", tmpPath).Msg("removing temp file")
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, absPath); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	committed = true

	logger.Debug().Str("path", absPath).Int("bytes", len(content)).Msg("wrote file atomically")
	return nil
}
