package dataobject

// Memory is a data object backed by a plain in-memory byte slice.
// Grounded on data_object_memory.c: unlike the file variant, a single
// GetData call always satisfies the whole remaining range, since there
// is no paging involved.
type Memory struct {
	data    []byte
	refs    int
	onFree  func([]byte)
}

// NewMemory wraps data as a data object. If onFree is non-nil it is
// called with data once the object's reference count drops to zero,
// mirroring the original's optional ownership toggle
// (data_object_set_data_ownership) — pass nil when the caller retains
// ownership of data itself.
func NewMemory(data []byte, onFree func([]byte)) *Memory {
	return &Memory{data: data, refs: 1, onFree: onFree}
}

func (m *Memory) GetData(offset int64) ([]byte, error) {
	if offset < 0 || offset > int64(len(m.data)) {
		return nil, ErrOutOfRange
	}
	return m.data[offset:], nil
}

func (m *Memory) Size() int64 { return int64(len(m.data)) }

func (m *Memory) Compare(other DataObject) bool {
	o, ok := other.(*Memory)
	if !ok {
		return false
	}
	return o == m
}

func (m *Memory) Ref() { m.refs++ }

func (m *Memory) Unref() {
	m.refs--
	if m.refs <= 0 && m.onFree != nil {
		m.onFree(m.data)
		m.data = nil
	}
}
