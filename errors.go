package blessbuf

import "github.com/pkg/errors"

// Sentinel errors mirroring the reference library's error taxonomy
// (error.h): input validation, arithmetic, resource, state, and
// not-implemented categories. Callers use errors.Is against these; the
// wrapped cause (if any) is reachable with errors.Cause.
var (
	ErrInvalidArgument  = errors.New("blessbuf: invalid argument")
	ErrOverflow         = errors.New("blessbuf: arithmetic overflow")
	ErrNoMemory         = errors.New("blessbuf: out of memory")
	ErrBadFileDescriptor = errors.New("blessbuf: bad file descriptor")
	ErrNotSupported     = errors.New("blessbuf: operation not supported")
	ErrState            = errors.New("blessbuf: invalid buffer state")
	ErrNotImplemented   = errors.New("blessbuf: not implemented")
)

// Strerror returns a human-readable description of err: the message of
// its root cause (errors.Cause), so a wrapped sentinel yields the
// sentinel's text and a wrapped system error the system error's own.
// Mirrors bless_strerror's passthrough-to-OS-strerror behavior for
// wrapped system errors.
func Strerror(err error) string {
	if err == nil {
		return ""
	}
	return errors.Cause(err).Error()
}
