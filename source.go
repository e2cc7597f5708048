package blessbuf

import (
	"os"

	"github.com/pkg/errors"

	"github.com/aleksandarhr/blessbuf/internal/dataobject"
	"github.com/aleksandarhr/blessbuf/internal/segcol"
	"github.com/aleksandarhr/blessbuf/internal/segment"
)

// NewFromFile opens path and returns a buffer whose initial content is
// the file's current bytes, backed by a demand-paged mmap data object
// rather than a full in-memory read. Grounded on bless_buffer_new_from_file.
func NewFromFile(path string, opts ...Option) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "blessbuf: open source file")
	}

	obj, err := dataobject.NewFile(f, func(f *os.File) error { return f.Close() })
	if err != nil {
		f.Close()
		return nil, err
	}

	b, err := New(opts...)
	if err != nil {
		obj.Unref()
		return nil, err
	}

	if obj.Size() > 0 {
		seg, err := segment.New(obj, 0, obj.Size(), segment.RefCountUsage)
		if err != nil {
			obj.Unref()
			return nil, err
		}
		obj.Unref() // segment now holds the sole reference
		sc := segcol.New()
		sc.SetCacheObserver(b.metrics)
		sc.Append(seg)
		b.segcol = sc
	} else {
		obj.Unref()
	}

	return b, nil
}
