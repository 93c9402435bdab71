package createorder

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/drafts"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/respond"
	"github.com/google/uuid"
)

// service is an interface for the service layer.
type service interface {
	Submit(ctx context.Context, id uuid.UUID) (order.Order, error)
}

// Submit sends the draft to the backend. Validation failures answer 422 with
// the full error list; backend rejections carry the backend's message.
func Submit(w http.ResponseWriter, r *http.Request, service service) {
	id, err := drafts.ParseDraftID(r)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	saved, err := service.Submit(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, saved)
}
