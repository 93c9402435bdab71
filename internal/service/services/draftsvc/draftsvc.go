package draftsvc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/idraftrepo"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/google/uuid"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// catalog resolves reference data for draft mutations and validation.
type catalog interface {
	draft.Catalog
	Client(id int64) (client.Client, bool)
}

type orderFetcher interface {
	GetOrder(ctx context.Context, id int64) (order.Order, error)
}

type submitter interface {
	Submit(ctx context.Context, d *draft.Draft) (order.Order, error)
}

// DraftService runs the lifecycle of operator drafts.
type DraftService struct {
	repo      idraftrepo.IDraftRepository
	catalog   catalog
	orders    orderFetcher
	submitter submitter
	now       func() time.Time

	// locks serializes requests touching the same draft.
	locks sync.Map
}

// option is a function that configures the DraftService.
type option func(*DraftService)

// MustNewDraftService creates a new DraftService.
func MustNewDraftService(opts ...option) *DraftService {
	s := &DraftService{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil || s.catalog == nil || s.orders == nil || s.submitter == nil {
		panic("draft service requires a repository, a catalog, an order fetcher and a submitter")
	}

	return s
}

// WithRepository sets where live drafts are kept.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRepository(repo idraftrepo.IDraftRepository) option {
	return func(s *DraftService) {
		s.repo = repo
	}
}

// WithCatalog sets the reference data source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalog(c catalog) option {
	return func(s *DraftService) {
		s.catalog = c
	}
}

// WithOrderFetcher sets the source of persisted orders to edit.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderFetcher(f orderFetcher) option {
	return func(s *DraftService) {
		s.orders = f
	}
}

// WithSubmitter sets the component that sends drafts to the backend.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithSubmitter(sub submitter) option {
	return func(s *DraftService) {
		s.submitter = sub
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *DraftService) {
		s.now = now
	}
}

// Start opens an empty draft for a new order.
func (s *DraftService) Start(ctx context.Context) (*draft.Draft, error) {
	d := draft.New(uuid.New(), s.now())
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return d, nil
}

// StartEdit opens a draft pre-populated from a persisted order.
func (s *DraftService) StartEdit(ctx context.Context, orderID int64) (*draft.Draft, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	d := draft.FromOrder(uuid.New(), s.now(), o, s.catalog.Product)
	if o.DeliveryType != "" && o.DeliveryType != d.DeliveryType() {
		slog.WarnContext(ctx, "Unknown delivery type on saved order, editing as default",
			"order_id", orderID,
			"delivery_type", o.DeliveryType,
			"default", d.DeliveryType(),
		)
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return d, nil
}

func (s *DraftService) Get(ctx context.Context, id uuid.UUID) (*draft.Draft, error) {
	return s.repo.Get(ctx, id)
}

// HeaderUpdate carries the header fields to change. Nil fields are left as they are.
type HeaderUpdate struct {
	ClientID     *int64
	DeliveryType *order.DeliveryType
	DeliveryDate *order.Date
	CourierID    *int64
}

// UpdateHeader applies every set field or none of them.
func (s *DraftService) UpdateHeader(ctx context.Context, id uuid.UUID, upd HeaderUpdate) (*draft.Draft, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		if upd.ClientID != nil {
			if *upd.ClientID != 0 {
				if _, ok := s.catalog.Client(*upd.ClientID); !ok {
					return fmt.Errorf("%w: %d", ErrClientNotFound, *upd.ClientID)
				}
			}
			if err := d.SetClient(*upd.ClientID); err != nil {
				return err
			}
		}
		if upd.DeliveryType != nil {
			if err := d.SetDeliveryType(*upd.DeliveryType); err != nil {
				return err
			}
		}
		if upd.DeliveryDate != nil {
			if err := d.SetDeliveryDate(*upd.DeliveryDate); err != nil {
				return err
			}
		}
		if upd.CourierID != nil {
			if err := d.SetCourier(*upd.CourierID); err != nil {
				return err
			}
		}

		return nil
	})
}

// AddLine adds one unit of a catalog product. New orders only take products
// with stock on hand; edits leave stock to the backend.
func (s *DraftService) AddLine(ctx context.Context, id uuid.UUID, productID int64) (*draft.Draft, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		p, ok := s.catalog.Product(productID)
		if !ok {
			return fmt.Errorf("%w: %d", ErrProductNotFound, productID)
		}
		if !d.Editing() && p.Stock <= 0 {
			return fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}

		return d.AddLine(p)
	})
}

func (s *DraftService) UpdateLine(
	ctx context.Context,
	id uuid.UUID,
	index int,
	field draft.Field,
	value string,
) (*draft.Draft, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		return d.UpdateLine(index, field, value)
	})
}

func (s *DraftService) RemoveLine(ctx context.Context, id uuid.UUID, index int) (*draft.Draft, error) {
	return s.mutate(ctx, id, func(d *draft.Draft) error {
		return d.RemoveLine(index)
	})
}

// Validate reports every problem that would block submission.
func (s *DraftService) Validate(ctx context.Context, id uuid.UUID) (draft.ValidationErrors, error) {
	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return d.Validate(s.catalog, order.DateOf(s.now())), nil
}

// Submit validates the draft and hands it to the submitter. Validation
// failures come back as draft.ValidationErrors without calling the backend.
// On any failure the stored draft is kept for a retry.
func (s *DraftService) Submit(ctx context.Context, id uuid.UUID) (order.Order, error) {
	unlock := s.lock(id)
	defer unlock()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return order.Order{}, err
	}
	if d.State().Terminal() {
		return order.Order{}, fmt.Errorf("%w: %s", draft.ErrDraftClosed, d.State())
	}
	if errs := d.Validate(s.catalog, order.DateOf(s.now())); len(errs) > 0 {
		return order.Order{}, errs
	}

	saved, err := s.submitter.Submit(ctx, d)
	if err != nil {
		return order.Order{}, err
	}

	if err := d.MarkSubmitted(); err != nil {
		slog.WarnContext(ctx, "Submitted draft could not be closed", "draft_id", id, "error", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		slog.WarnContext(ctx, "Failed to discard submitted draft", "draft_id", id, "error", err)
	}
	s.locks.Delete(id)

	return saved, nil
}

// Cancel discards the draft.
func (s *DraftService) Cancel(ctx context.Context, id uuid.UUID) error {
	unlock := s.lock(id)
	defer unlock()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := d.Cancel(); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to discard draft: %w", err)
	}
	s.locks.Delete(id)

	return nil
}

// mutate loads the draft, applies fn and stores the result only when fn succeeds.
func (s *DraftService) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(d *draft.Draft) error,
) (*draft.Draft, error) {
	unlock := s.lock(id)
	defer unlock()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return d, nil
}

func (s *DraftService) lock(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()

	return mu.Unlock
}
