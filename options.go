package blessbuf

import (
	"strconv"

	"github.com/pkg/errors"
)

// Recognised option keys, per spec.md §6. The registry itself stays a
// thin string map — a richer schema is explicitly out of scope.
const (
	OptTmpDir        = "TMP_DIR"
	OptUndoLimit     = "UNDO_LIMIT"
	OptUndoAfterSave = "UNDO_AFTER_SAVE"
)

// Option configures a Buffer at construction time. Grounded on
// nesv-yawal's functional-options pattern (options.go: type Option
// func(*Logger) error).
type Option func(*Buffer) error

// WithTmpDir sets the scratch-file directory used during save.
func WithTmpDir(dir string) Option {
	return func(b *Buffer) error {
		b.options[OptTmpDir] = dir
		return nil
	}
}

// WithUndoLimit caps the number of undo actions retained; 0 disables
// undo entirely (actions still apply, but none are retained for Undo),
// per spec.md §6. When a positive limit is exceeded, the oldest action
// is evicted.
func WithUndoLimit(n int) Option {
	return func(b *Buffer) error {
		if n < 0 {
			return errors.Wrap(ErrInvalidArgument, "blessbuf: negative undo limit")
		}
		b.options[OptUndoLimit] = strconv.Itoa(n)
		b.undoLimit = n
		return nil
	}
}

// WithUndoAfterSave controls whether undo history survives a save (by
// private-copying it first) or is discarded at save time.
func WithUndoAfterSave(enabled bool) Option {
	return func(b *Buffer) error {
		b.options[OptUndoAfterSave] = strconv.FormatBool(enabled)
		b.undoAfterSave = enabled
		return nil
	}
}

// GetOption returns the current value of a recognised option key.
func (b *Buffer) GetOption(key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.options[key]
	return v, ok
}

// SetOption sets a recognised option key at runtime. Unknown keys are
// stored verbatim (matching the reference registry's untyped nature) but
// have no effect on buffer behavior.
func (b *Buffer) SetOption(key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch key {
	case OptUndoLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return errors.Wrap(ErrInvalidArgument, "blessbuf: invalid UNDO_LIMIT")
		}
		b.undoLimit = n
	case OptUndoAfterSave:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(ErrInvalidArgument, "blessbuf: invalid UNDO_AFTER_SAVE")
		}
		b.undoAfterSave = v
	}
	b.options[key] = value
	return nil
}
