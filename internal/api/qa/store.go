package qa

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type document struct {
	ID         string
	Name       string
	Size       int64
	UploadedAt time.Time
}

// Store keeps uploaded documents in memory. Entries never expire, the
// backend forgets everything on restart.
type Store struct {
	docs *cache.Cache
}

func NewStore() *Store {
	return &Store{docs: cache.New(cache.NoExpiration, 0)}
}

// Add registers a document and returns its new id.
func (s *Store) Add(name string, size int64) string {
	doc := document{
		ID:         "doc-" + uuid.NewString(),
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
	}
	s.docs.Set(doc.ID, doc, cache.NoExpiration)
	return doc.ID
}

func (s *Store) Get(id string) (document, bool) {
	v, ok := s.docs.Get(id)
	if !ok {
		return document{}, false
	}
	doc, ok := v.(document)
	return doc, ok
}

func (s *Store) Len() int {
	return s.docs.ItemCount()
}
