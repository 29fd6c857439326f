package logbook

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/catfeed/pkg/domain"
)

type memoryFeedings struct {
	mu      sync.Mutex
	records map[uuid.UUID]*domain.FeedingRecord
	err     error
}

func newMemoryFeedings(records ...*domain.FeedingRecord) *memoryFeedings {
	m := &memoryFeedings{records: make(map[uuid.UUID]*domain.FeedingRecord)}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *memoryFeedings) Create(ctx context.Context, rec *domain.FeedingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *memoryFeedings) GetByID(ctx context.Context, id uuid.UUID) (*domain.FeedingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memoryFeedings) Update(ctx context.Context, rec *domain.FeedingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *memoryFeedings) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memoryFeedings) ListSince(ctx context.Context, since time.Time) ([]*domain.FeedingRecord, error) {
	all, err := m.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*domain.FeedingRecord
	for _, r := range all {
		if !r.Timestamp.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryFeedings) ListAll(ctx context.Context) ([]*domain.FeedingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.FeedingRecord, 0, len(m.records))
	for _, r := range m.records {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

type memoryCats struct {
	cat *domain.CatProfile
}

func (m *memoryCats) Latest(ctx context.Context) (*domain.CatProfile, error) {
	if m.cat == nil {
		return nil, domain.ErrProfileNotFound
	}
	cp := *m.cat
	return &cp, nil
}

func (m *memoryCats) Upsert(ctx context.Context, cat *domain.CatProfile) error {
	cp := *cat
	m.cat = &cp
	return nil
}

type memoryPhotos struct {
	photos    map[uuid.UUID]*domain.Photo
	createErr error
}

func newMemoryPhotos() *memoryPhotos {
	return &memoryPhotos{photos: make(map[uuid.UUID]*domain.Photo)}
}

func (m *memoryPhotos) Create(ctx context.Context, p *domain.Photo) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *p
	m.photos[p.ID] = &cp
	return nil
}

func (m *memoryPhotos) GetByID(ctx context.Context, id uuid.UUID) (*domain.Photo, error) {
	p, ok := m.photos[id]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memoryPhotos) List(ctx context.Context, approvedOnly bool, limit int) ([]*domain.Photo, error) {
	var out []*domain.Photo
	for _, p := range m.photos {
		if approvedOnly && !p.IsApproved {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadDate.After(out[j].UploadDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryPhotos) Approve(ctx context.Context, id uuid.UUID) error {
	p, ok := m.photos[id]
	if !ok {
		return domain.ErrPhotoNotFound
	}
	p.IsApproved = true
	return nil
}

func (m *memoryPhotos) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.photos[id]; !ok {
		return domain.ErrPhotoNotFound
	}
	delete(m.photos, id)
	return nil
}

type memoryBlobs struct {
	objects map[string][]byte
	putErr  error
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{objects: make(map[string][]byte)}
}

func (m *memoryBlobs) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memoryBlobs) Delete(ctx context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func (m *memoryBlobs) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://blobs.test/" + key + "?X-Amz-Expires=900", nil
}
