package api

import (
	"os"
	"sync"
	"time"

	"github.com/samcharles93/nrrd/pkg/nrrd"
)

type headerRecord struct {
	header     *nrrd.Header
	unconsumed []string
	modTime    time.Time
	size       int64
}

// HeaderStore caches parsed headers by path. An entry is reused while the
// header file's size and modification time are unchanged.
type HeaderStore struct {
	mu      sync.Mutex
	headers map[string]*headerRecord
	opts    nrrd.ReadOptions
}

func NewHeaderStore(opts nrrd.ReadOptions) *HeaderStore {
	return &HeaderStore{
		headers: make(map[string]*headerRecord),
		opts:    opts,
	}
}

// Get returns a clone of the cached header so callers may mutate it.
func (s *HeaderStore) Get(path string) (*nrrd.Header, []string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	rec, ok := s.headers[path]
	s.mu.Unlock()
	if ok && rec.modTime.Equal(st.ModTime()) && rec.size == st.Size() {
		return rec.header.Clone(), rec.unconsumed, nil
	}

	h, rest, err := nrrd.ReadHeaderLines(path, s.opts)
	if err != nil {
		s.Delete(path)
		return nil, nil, err
	}
	s.mu.Lock()
	s.headers[path] = &headerRecord{header: h, unconsumed: rest, modTime: st.ModTime(), size: st.Size()}
	s.mu.Unlock()
	return h.Clone(), rest, nil
}

func (s *HeaderStore) Delete(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[path]; !ok {
		return false
	}
	delete(s.headers, path)
	return true
}

func (s *HeaderStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.headers)
}
