package iorderclient

import (
	"context"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
)

// OrderClient reads and writes persisted orders on the backend.
type OrderClient interface {
	ListOrders(ctx context.Context) ([]order.Order, error)
	GetOrder(ctx context.Context, id int64) (order.Order, error)
	CreateOrder(ctx context.Context, payload order.Payload) (order.Order, error)
	UpdateOrder(ctx context.Context, id int64, payload order.Payload) (order.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error)
}
