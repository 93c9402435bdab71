package memory

import (
	"context"
	"sync"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/idraftrepo"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/google/uuid"
)

// DraftRepository keeps drafts in process memory. Drafts are copied on the
// way in and out so callers never share state through the store.
type DraftRepository struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*draft.Draft
}

func NewDraftRepository() *DraftRepository {
	return &DraftRepository{
		drafts: make(map[uuid.UUID]*draft.Draft),
	}
}

func (r *DraftRepository) Save(_ context.Context, d *draft.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drafts[d.ID()] = d.Clone()

	return nil
}

func (r *DraftRepository) Get(_ context.Context, id uuid.UUID) (*draft.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drafts[id]
	if !ok {
		return nil, idraftrepo.ErrNotFound
	}

	return d.Clone(), nil
}

func (r *DraftRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.drafts[id]; !ok {
		return idraftrepo.ErrNotFound
	}
	delete(r.drafts, id)

	return nil
}

// Len reports the number of live drafts.
func (r *DraftRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.drafts)
}
