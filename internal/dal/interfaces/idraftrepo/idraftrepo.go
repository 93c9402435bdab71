package idraftrepo

import (
	"context"
	"errors"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("draft not found")

// IDraftRepository stores drafts between operator requests.
type IDraftRepository interface {
	Save(ctx context.Context, d *draft.Draft) error
	Get(ctx context.Context, id uuid.UUID) (*draft.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
