package markdelivered

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

type service interface {
	MarkDelivered(ctx context.Context, id int64) (order.Order, error)
}

func MarkDelivered(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, r, fmt.Errorf("%w: invalid order id", respond.ErrBadRequest))

		return
	}

	updated, err := service.MarkDelivered(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, updated)
}
