package blessbuf

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileDefaults mirrors the three recognised option keys (spec.md §6),
// loadable from a YAML document so a process can seed Buffer defaults
// once rather than wiring functional options by hand at every call site.
// Grounded on the teacher's Config-struct-with-defaults pattern
// (internal/log.Config / NewLog's zero-value fill-in) but loaded from
// disk via gopkg.in/yaml.v3 rather than passed in as a literal struct.
type FileDefaults struct {
	TmpDir string `yaml:"tmp_dir"`
	// UndoLimit is a pointer so an explicit `undo_limit: 0` (disable undo,
	// per spec.md §6) can be told apart from the key being absent
	// altogether (leave the Buffer's own default alone) — a plain int
	// can't represent that distinction, since YAML's absent-key zero
	// value and an explicit zero both unmarshal to 0.
	UndoLimit     *int `yaml:"undo_limit"`
	UndoAfterSave bool `yaml:"undo_after_save"`
}

// LoadDefaults reads a YAML document from path and returns the defaults
// it describes; their Options() are ready to splice into New(opts...) or
// NewFromFile(path, opts...).
func LoadDefaults(path string) (FileDefaults, error) {
	var d FileDefaults
	raw, err := os.ReadFile(path)
	if err != nil {
		return d, errors.Wrap(err, "blessbuf: read defaults file")
	}
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return d, errors.Wrap(err, "blessbuf: parse defaults file")
	}
	return d, nil
}

// Options converts the loaded defaults into functional Options, omitting
// any field left at its zero value so it doesn't override an explicitly
// passed option later in the list.
func (d FileDefaults) Options() []Option {
	var opts []Option
	if d.TmpDir != "" {
		opts = append(opts, WithTmpDir(d.TmpDir))
	}
	if d.UndoLimit != nil {
		opts = append(opts, WithUndoLimit(*d.UndoLimit))
	}
	if d.UndoAfterSave {
		opts = append(opts, WithUndoAfterSave(d.UndoAfterSave))
	}
	return opts
}
