package drafts

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/draftsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type service interface {
	Start(ctx context.Context) (*draft.Draft, error)
	StartEdit(ctx context.Context, orderID int64) (*draft.Draft, error)
	Get(ctx context.Context, id uuid.UUID) (*draft.Draft, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, upd draftsvc.HeaderUpdate) (*draft.Draft, error)
	AddLine(ctx context.Context, id uuid.UUID, productID int64) (*draft.Draft, error)
	UpdateLine(ctx context.Context, id uuid.UUID, index int, field draft.Field, value string) (*draft.Draft, error)
	RemoveLine(ctx context.Context, id uuid.UUID, index int) (*draft.Draft, error)
	Validate(ctx context.Context, id uuid.UUID) (draft.ValidationErrors, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

func Start(w http.ResponseWriter, r *http.Request, service service) {
	d, err := service.Start(r.Context())
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, newDraftView(d, currency.DisplayFromContext(r.Context())))
}

// StartEdit opens a draft over the persisted order in the orderID path param.
func StartEdit(w http.ResponseWriter, r *http.Request, service service) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		respond.Error(w, r, fmt.Errorf("%w: invalid order id", respond.ErrBadRequest))

		return
	}

	d, err := service.StartEdit(r.Context(), orderID)
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusCreated, newDraftView(d, currency.DisplayFromContext(r.Context())))
}

func Get(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}

	d, err := service.Get(r.Context(), id)
	writeDraft(w, r, d, err)
}

type headerRequest struct {
	ClientID     *int64  `json:"clientId"     validate:"omitempty,gte=0"`
	DeliveryType *string `json:"deliveryType"`
	DeliveryDate *string `json:"deliveryDate"`
	CourierID    *int64  `json:"courierId"    validate:"omitempty,gte=0"`
}

func (req headerRequest) toModel() (draftsvc.HeaderUpdate, error) {
	upd := draftsvc.HeaderUpdate{
		ClientID:  req.ClientID,
		CourierID: req.CourierID,
	}
	if req.DeliveryType != nil {
		t := order.DeliveryType(*req.DeliveryType)
		upd.DeliveryType = &t
	}
	if req.DeliveryDate != nil {
		date, err := order.ParseDate(*req.DeliveryDate)
		if err != nil {
			return draftsvc.HeaderUpdate{}, err
		}
		upd.DeliveryDate = &date
	}

	return upd, nil
}

// UpdateHeader changes any of client, delivery type, delivery date and
// courier. Omitted fields are left as they are.
func UpdateHeader(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}

	var req headerRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}
	upd, err := req.toModel()
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	d, err := service.UpdateHeader(r.Context(), id, upd)
	writeDraft(w, r, d, err)
}

type addLineRequest struct {
	ProductID int64 `json:"productId" validate:"gt=0"`
}

func AddLine(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	d, err := service.AddLine(r.Context(), id, req.ProductID)
	writeDraft(w, r, d, err)
}

type updateLineRequest struct {
	Field string `json:"field" validate:"required,oneof=quantity unit_price discount"`
	Value string `json:"value"`
}

// UpdateLine edits one field of a line. Value is the raw operator input.
func UpdateLine(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	var req updateLineRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Error(w, r, err)

		return
	}

	d, err := service.UpdateLine(r.Context(), id, index, draft.Field(req.Field), req.Value)
	writeDraft(w, r, d, err)
}

func RemoveLine(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}
	index, ok := lineIndex(w, r)
	if !ok {
		return
	}

	d, err := service.RemoveLine(r.Context(), id, index)
	writeDraft(w, r, d, err)
}

type validationResponse struct {
	Valid  bool                   `json:"valid"`
	Errors draft.ValidationErrors `json:"errors"`
}

func Validate(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}

	errs, err := service.Validate(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)

		return
	}
	if errs == nil {
		errs = draft.ValidationErrors{}
	}

	respond.JSON(w, r, http.StatusOK, validationResponse{Valid: len(errs) == 0, Errors: errs})
}

func Cancel(w http.ResponseWriter, r *http.Request, service service) {
	id, ok := draftID(w, r)
	if !ok {
		return
	}

	if err := service.Cancel(r.Context(), id); err != nil {
		respond.Error(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ParseDraftID reads the id path param.
func ParseDraftID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid draft id", respond.ErrBadRequest)
	}

	return id, nil
}

func draftID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := ParseDraftID(r)
	if err != nil {
		respond.Error(w, r, err)

		return uuid.Nil, false
	}

	return id, true
}

func lineIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respond.Error(w, r, fmt.Errorf("%w: invalid line index", respond.ErrBadRequest))

		return 0, false
	}

	return index, true
}

func writeDraft(w http.ResponseWriter, r *http.Request, d *draft.Draft, err error) {
	if err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, newDraftView(d, currency.DisplayFromContext(r.Context())))
}
