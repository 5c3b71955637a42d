package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Borislavv/lineage-cache/pkg/matrix"
)

// localFileUtils is the reference "local file utils" collaborator
// (spec.md §6): it owns a per-process working directory created lazily
// on first spill, and writes/reads one matrix block per file named
// after the lineage id. Writes go to a temp file and are renamed into
// place, the same crash-safe pattern the teacher's dump writer uses.
type localFileUtils struct {
	mu      sync.Mutex
	dir     string
	dirOnce bool
}

func newLocalFileUtils(workDir string) *localFileUtils {
	return &localFileUtils{dir: workDir}
}

// ensureDir creates the working directory on first use. Mirrors the
// teacher's lazy MkdirAll-before-first-write pattern.
func (f *localFileUtils) ensureDir() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirOnce {
		return f.dir, nil
	}
	if f.dir == "" {
		dir, err := os.MkdirTemp("", "lineage-cache-spill-*")
		if err != nil {
			return "", fmt.Errorf("create spill dir: %w", err)
		}
		f.dir = dir
	} else if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("create spill dir: %w", err)
	}
	f.dirOnce = true
	return f.dir, nil
}

// Write serializes block to a file named after id, writing to a .tmp
// sibling first and renaming into place so a crash never leaves a
// half-written spill file behind.
func (f *localFileUtils) Write(id int64, block matrix.Block) (string, error) {
	dir, err := f.ensureDir()
	if err != nil {
		return "", err
	}
	dense, ok := block.(*matrix.DenseBlock)
	if !ok {
		return "", fmt.Errorf("spill: unsupported block type %T", block)
	}

	path := filepath.Join(dir, strconv.FormatInt(id, 10))
	tmp := path + ".tmp"

	fh, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create spill file: %w", err)
	}
	if err := gob.NewEncoder(fh).Encode(dense); err != nil {
		fh.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("encode spill file: %w", err)
	}
	if err := fh.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close spill file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("rename spill file: %w", err)
	}
	return path, nil
}

// Read deserializes the block written at path.
func (f *localFileUtils) Read(path string) (matrix.Block, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open spill file: %w", err)
	}
	defer fh.Close()

	var dense matrix.DenseBlock
	if err := gob.NewDecoder(fh).Decode(&dense); err != nil {
		return nil, fmt.Errorf("decode spill file: %w", err)
	}
	return &dense, nil
}

// Delete removes the spill file at path. A missing file is not an
// error: reload already consumed it.
func (f *localFileUtils) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete spill file: %w", err)
	}
	return nil
}
