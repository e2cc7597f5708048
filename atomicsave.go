package blessbuf

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SaveAtomic saves the buffer to path without ever leaving a partially
// written file at that path visible to other processes: it saves into a
// uniquely named scratch file in the TMP_DIR option's directory (falling
// back to path's own directory), then renames it over path. Grounded on
// SPEC_FULL.md's domain-stack wiring of google/uuid for scratch-file
// naming — the core Save only knows how to overwrite an already-open fd
// in place, which can't itself be made atomic with respect to path.
func (b *Buffer) SaveAtomic(path string, progress ProgressFunc) error {
	dir, ok := b.GetOption(OptTmpDir)
	if !ok || dir == "" {
		dir = filepath.Dir(path)
	}

	scratch := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(scratch, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return errors.Wrap(err, "blessbuf: create scratch file")
	}

	if err := b.Save(f, progress); err != nil {
		f.Close()
		os.Remove(scratch)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(scratch)
		return errors.Wrap(err, "blessbuf: close scratch file")
	}
	if err := os.Rename(scratch, path); err != nil {
		os.Remove(scratch)
		return errors.Wrap(err, "blessbuf: rename scratch file into place")
	}
	return nil
}
