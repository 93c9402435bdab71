package listorders

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type service interface {
	List(query order.ListQuery) []order.Order
	RefreshOrders(ctx context.Context) error
	LineDetail(ctx context.Context, id int64) ([]orderitem.Item, error)
}

type queryOrdersRequest struct {
	Search  string `schema:"search"`
	Expired bool   `schema:"expired"`
	Refresh bool   `schema:"refresh"`
}

func (q *queryOrdersRequest) ToModel() order.ListQuery {
	return order.ListQuery{
		Search:      q.Search,
		ExpiredOnly: q.Expired,
	}
}

type orderView struct {
	order.Order
	Expired      bool   `json:"expired"`
	TotalDisplay string `json:"totalDisplay"`
}

// ListOrders serves the last-known order list, reloading it first when
// refresh=true.
func ListOrders(w http.ResponseWriter, r *http.Request, service service) {
	query := &queryOrdersRequest{}
	if err := respond.DecodeQuery(r, query); err != nil {
		respond.Error(w, r, err)

		return
	}

	if query.Refresh {
		if err := service.RefreshOrders(r.Context()); err != nil {
			respond.Error(w, r, err)

			return
		}
	}

	display := currency.DisplayFromContext(r.Context())
	orders := service.List(query.ToModel())
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, orderView{
			Order:        o,
			Expired:      query.Expired,
			TotalDisplay: display.Format(o.TotalAmount),
		})
	}

	respond.JSON(w, r, http.StatusOK, views)
}

type itemView struct {
	orderitem.Item
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalDisplay string          `json:"subtotalDisplay"`
}

// ListLines serves the lines of one order.
func ListLines(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, fmt.Errorf("%w: invalid order id", respond.ErrBadRequest))

		return
	}

	items, err := service.LineDetail(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	display := currency.DisplayFromContext(r.Context())
	views := make([]itemView, 0, len(items))
	for _, it := range items {
		subtotal := it.Subtotal()
		views = append(views, itemView{
			Item:            it,
			Subtotal:        subtotal,
			SubtotalDisplay: display.Format(subtotal),
		})
	}

	respond.JSON(w, r, http.StatusOK, views)
}
