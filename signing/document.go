package signing

import (
	"sync"

	"github.com/signroom/signroom/errors"
)

// DocumentRef is a named handle over a document artifact. It stands in for
// the browser-level object URLs of the original workflow: whoever holds one
// must Release it when superseded so the bytes do not accumulate across
// repeated uploads within one session.
type DocumentRef struct {
	name string

	mu       sync.Mutex
	data     []byte
	released bool
}

func NewDocumentRef(name string, data []byte) *DocumentRef {
	return &DocumentRef{
		name: name,
		data: data,
	}
}

func (r *DocumentRef) Name() string {
	return r.name
}

// Bytes returns the artifact. Released refs are gone for good.
func (r *DocumentRef) Bytes() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return nil, errors.New("document reference already released")
	}
	return r.data, nil
}

// Release frees the artifact. Safe to call more than once.
func (r *DocumentRef) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = nil
	r.released = true
}

func (r *DocumentRef) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
