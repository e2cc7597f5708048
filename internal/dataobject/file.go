package dataobject

import (
	"os"

	"github.com/pkg/errors"
	"github.com/tysonmote/gommap"
)

// File is a data object backed by an open file, read through a single
// page-sized mmap window that is unmapped and remapped on demand as
// reads move outside it. Grounded on data_object_file.c's
// data_object_file_get_data: the core loop there mmaps PROT_READ,
// MAP_PRIVATE one page at a time rather than mapping the whole file, so
// multi-gigabyte files never need a matching address-space reservation.
type File struct {
	f    *os.File
	size int64

	dev   uint64
	inode uint64

	pageSize   int64
	pageOffset int64
	page       gommap.MMap

	onClose func(*os.File) error
	refs    int
}

// NewFile wraps f as a data object. onClose, if non-nil, is called with
// f once the object's reference count drops to zero.
func NewFile(f *os.File, onClose func(*os.File) error) (*File, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "dataobject: stat")
	}

	dev, inode := statIdentity(fi)

	fo := &File{
		f:        f,
		size:     fi.Size(),
		dev:      dev,
		inode:    inode,
		pageSize: int64(os.Getpagesize()),
		refs:     1,
		onClose:  onClose,
	}
	return fo, nil
}

// GetData returns bytes starting at offset. If offset falls outside the
// currently mapped page, the old page is unmapped and a new page-aligned
// window is mapped in its place.
func (fo *File) GetData(offset int64) ([]byte, error) {
	if offset < 0 || offset > fo.size {
		return nil, ErrOutOfRange
	}
	if offset == fo.size {
		return nil, nil
	}

	if fo.page == nil || offset < fo.pageOffset || offset >= fo.pageOffset+fo.pageSize {
		if err := fo.remap(offset); err != nil {
			return nil, err
		}
	}

	winOff := offset - fo.pageOffset
	avail := fo.pageSize - winOff
	// Clamp to the file's real size for the final, possibly short, page.
	if fo.pageOffset+fo.pageSize > fo.size {
		last := fo.size - fo.pageOffset
		if avail > last-winOff {
			avail = last - winOff
		}
	}
	return fo.page[winOff : winOff+avail], nil
}

func (fo *File) remap(offset int64) error {
	if fo.page != nil {
		if err := fo.page.UnsafeUnmap(); err != nil {
			return errors.Wrap(err, "dataobject: munmap")
		}
		fo.page = nil
	}

	aligned := (offset / fo.pageSize) * fo.pageSize
	length := fo.pageSize
	if aligned+length > fo.size {
		length = fo.size - aligned
	}

	page, err := gommap.MapRegion(fo.f.Fd(), length, gommap.PROT_READ, gommap.MAP_PRIVATE, aligned)
	if err != nil {
		return errors.Wrap(err, "dataobject: mmap")
	}

	fo.page = page
	fo.pageOffset = aligned
	return nil
}

func (fo *File) Size() int64 { return fo.size }

// Compare reports identity by (device, inode) rather than fd, since two
// distinct open file descriptions can refer to the same underlying file
// — exactly the case the save engine must detect to avoid reading from
// a file it is about to overwrite.
func (fo *File) Compare(other DataObject) bool {
	o, ok := other.(*File)
	if !ok {
		return false
	}
	return o.dev == fo.dev && o.inode == fo.inode
}

func (fo *File) Ref() { fo.refs++ }

func (fo *File) Unref() {
	fo.refs--
	if fo.refs > 0 {
		return
	}
	if fo.page != nil {
		fo.page.UnsafeUnmap()
		fo.page = nil
	}
	if fo.onClose != nil {
		fo.onClose(fo.f)
	}
}

// Fd exposes the underlying descriptor for the save engine's own direct
// writes (which bypass the read-side mmap window entirely).
func (fo *File) Fd() uintptr { return fo.f.Fd() }
