package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/idraftrepo"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/restapi"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/draftsvc"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate = validator.New()
	decoder  = newQueryDecoder()
)

// ErrBadRequest marks malformed input detected by the transport itself.
var ErrBadRequest = errors.New("bad request")

var badInput = []error{
	ErrBadRequest,
	draft.ErrLineNotFound,
	draft.ErrInvalidQuantity,
	draft.ErrNegativePrice,
	draft.ErrInvalidField,
	order.ErrInvalidDeliveryType,
	order.ErrInvalidDate,
	draftsvc.ErrClientNotFound,
	draftsvc.ErrProductNotFound,
	draftsvc.ErrOutOfStock,
}

type errorResponse struct {
	Error  string                 `json:"error"`
	Errors draft.ValidationErrors `json:"errors,omitempty"`
}

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Error sending response", "error", err)
	}
}

// Error maps err to a status code and writes it as {"error": "..."}.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "status", status, "error", err)
	} else {
		slog.WarnContext(r.Context(), "Request rejected", "status", status, "error", err)
	}

	JSON(w, r, status, body)
}

func classify(err error) (int, errorResponse) {
	var (
		verrs  draft.ValidationErrors
		apiErr *restapi.APIError
	)

	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity, errorResponse{Error: "draft is not valid", Errors: verrs}
	case errors.Is(err, idraftrepo.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: err.Error()}
	case errors.Is(err, draft.ErrDraftClosed):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case isBadInput(err):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
			status = apiErr.StatusCode
		}

		return status, errorResponse{Error: apiErr.Message}
	default:
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}
}

func isBadInput(err error) bool {
	for _, target := range badInput {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// DecodeJSON reads the request body into v and validates its struct tags.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return nil
}

// DecodeQuery reads URL query parameters into v using its schema tags.
func DecodeQuery(r *http.Request, v any) error {
	if err := decoder.Decode(v, r.URL.Query()); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return nil
}
