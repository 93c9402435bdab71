package ordersvc

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/iorderclient"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/auditlog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// productRefresher reloads the product catalog after stock changed on the backend.
type productRefresher interface {
	RefreshProducts(ctx context.Context) error
}

// OrderService submits drafts and serves the persisted order list.
type OrderService struct {
	client   iorderclient.OrderClient
	products productRefresher
	auditor  iauditrepo.IAuditorRepository
	now      func() time.Time

	mu     sync.RWMutex
	orders []order.Order

	linesMu sync.Mutex
	lines   map[int64][]orderitem.Item
	group   singleflight.Group
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{
		now:   time.Now,
		lines: make(map[int64][]orderitem.Item),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		panic("order service requires an order client")
	}

	return s
}

// WithOrderClient sets the backend client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderClient(c iorderclient.OrderClient) option {
	return func(s *OrderService) {
		s.client = c
	}
}

// WithProductRefresher sets the catalog reloaded after each submission.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRefresher(r productRefresher) option {
	return func(s *OrderService) {
		s.products = r
	}
}

// WithAuditor sets the repository submissions are published to.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithAuditor(a iauditrepo.IAuditorRepository) option {
	return func(s *OrderService) {
		s.auditor = a
	}
}

// WithClock overrides the time source.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *OrderService) {
		s.now = now
	}
}

// Submit creates the order, or updates it when the draft edits one. Backend
// errors are returned unchanged and the draft is not touched.
func (s *OrderService) Submit(ctx context.Context, d *draft.Draft) (order.Order, error) {
	payload := d.Payload()

	var (
		saved order.Order
		err   error
	)
	if id, editing := d.OrderID(); editing {
		saved, err = s.client.UpdateOrder(ctx, id, payload)
	} else {
		saved, err = s.client.CreateOrder(ctx, payload)
	}
	if err != nil {
		return order.Order{}, err
	}

	slog.InfoContext(ctx, "Order submitted",
		"order_id", saved.ID,
		"editing", d.Editing(),
		"items", len(payload.Items),
	)

	s.refreshAfterWrite(ctx)
	s.audit(ctx, saved, d)

	return saved, nil
}

// refreshAfterWrite reloads orders and products. Both run after the write
// and do not depend on each other.
func (s *OrderService) refreshAfterWrite(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		return s.RefreshOrders(ctx)
	})
	if s.products != nil {
		g.Go(func() error {
			return s.products.RefreshProducts(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		slog.WarnContext(ctx, "Failed to refresh after order submission", "error", err)
	}
}

func (s *OrderService) audit(ctx context.Context, saved order.Order, d *draft.Draft) {
	if s.auditor == nil {
		return
	}

	submission := auditlog.Submission{
		OrderID:      saved.ID,
		ClientID:     d.ClientID(),
		Editing:      d.Editing(),
		DeliveryType: d.DeliveryType(),
		DeliveryDate: d.DeliveryDate(),
		ItemCount:    len(d.Lines()),
		Total:        d.Total(),
		SubmittedAt:  s.now(),
	}
	if err := s.auditor.LogSubmission(ctx, submission); err != nil {
		slog.WarnContext(ctx, "Failed to publish order submission", "order_id", saved.ID, "error", err)
	}
}

// MarkDelivered sets the order status to completed.
func (s *OrderService) MarkDelivered(ctx context.Context, id int64) (order.Order, error) {
	updated, err := s.client.UpdateOrderStatus(ctx, id, order.StatusCompleted)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.RefreshOrders(ctx); err != nil {
		slog.WarnContext(ctx, "Failed to refresh orders after delivery", "order_id", id, "error", err)
	}

	return updated, nil
}

// RefreshOrders reloads the order list from the backend.
func (s *OrderService) RefreshOrders(ctx context.Context) error {
	orders, err := s.client.ListOrders(ctx)
	if err != nil {
		return fmt.Errorf("failed to list orders: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("discarding orders refresh: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders

	return nil
}

// Orders returns the last-known order list.
func (s *OrderService) Orders() []order.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append(make([]order.Order, 0, len(s.orders)), s.orders...)
}

// List filters the last-known order list against today's date.
func (s *OrderService) List(query order.ListQuery) []order.Order {
	return FilterOrders(s.Orders(), query.Search, query.ExpiredOnly, order.DateOf(s.now()))
}

// FilterOrders keeps orders whose id, client name or status contains search,
// then partitions them by delivery date. Without expiredOnly it keeps orders
// due today or later plus undated ones; with it only overdue ones.
func FilterOrders(orders []order.Order, search string, expiredOnly bool, today order.Date) []order.Order {
	needle := strings.ToLower(strings.TrimSpace(search))

	return lo.Filter(orders, func(o order.Order, _ int) bool {
		if needle != "" &&
			!strings.Contains(strconv.FormatInt(o.ID, 10), needle) &&
			!strings.Contains(strings.ToLower(o.ClientName), needle) &&
			!strings.Contains(strings.ToLower(string(o.Status)), needle) {
			return false
		}

		return o.Expired(today) == expiredOnly
	})
}

// LineDetail returns the lines of one order. Results are cached per order id
// for the life of the service and concurrent fetches of one id are shared.
func (s *OrderService) LineDetail(ctx context.Context, id int64) ([]orderitem.Item, error) {
	if items, ok := s.cachedLines(id); ok {
		return items, nil
	}

	v, err, _ := s.group.Do(strconv.FormatInt(id, 10), func() (any, error) {
		if items, ok := s.cachedLines(id); ok {
			return items, nil
		}

		o, err := s.client.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		items := o.Items
		if items == nil {
			items = []orderitem.Item{}
		}

		s.linesMu.Lock()
		s.lines[id] = items
		s.linesMu.Unlock()

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	items := v.([]orderitem.Item)

	return append(make([]orderitem.Item, 0, len(items)), items...), nil
}

func (s *OrderService) cachedLines(id int64) ([]orderitem.Item, bool) {
	s.linesMu.Lock()
	defer s.linesMu.Unlock()

	items, ok := s.lines[id]
	if !ok {
		return nil, false
	}

	return append(make([]orderitem.Item, 0, len(items)), items...), true
}
