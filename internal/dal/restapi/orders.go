package restapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/samber/lo"
)

// ListOrders returns GET /orders.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	dtos, err := getList[orderDTO](ctx, c, "/orders")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d orderDTO, _ int) (order.Order, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}

// GetOrder returns GET /orders/{id} including its lines.
func (c *Client) GetOrder(ctx context.Context, id int64) (order.Order, error) {
	return c.sendOrder(ctx, http.MethodGet, id, nil)
}

// CreateOrder sends POST /orders.
func (c *Client) CreateOrder(ctx context.Context, payload order.Payload) (order.Order, error) {
	var dto orderDTO
	if err := c.getObject(ctx, http.MethodPost, "/orders", payload, &dto); err != nil {
		return order.Order{}, err
	}

	return dto.toModel(), nil
}

// UpdateOrder sends a full PUT /orders/{id}.
func (c *Client) UpdateOrder(ctx context.Context, id int64, payload order.Payload) (order.Order, error) {
	return c.sendOrder(ctx, http.MethodPut, id, payload)
}

// UpdateOrderStatus sends a partial PUT /orders/{id} carrying only the status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status order.Status) (order.Order, error) {
	return c.sendOrder(ctx, http.MethodPut, id, order.StatusUpdate{Status: status})
}

func (c *Client) sendOrder(ctx context.Context, method string, id int64, body any) (order.Order, error) {
	dto := orderDTO{ID: flexInt(id)}
	if err := c.getObject(ctx, method, "/orders/"+strconv.FormatInt(id, 10), body, &dto); err != nil {
		return order.Order{}, err
	}
	if dto.ID == 0 {
		dto.ID = flexInt(id)
	}

	return dto.toModel(), nil
}
