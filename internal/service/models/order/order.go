package order

import (
	"errors"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle status of a persisted order. Values outside the
// known set are kept as sent by the backend.
type Status string

const (
	StatusPending   Status = "Pendiente"
	StatusCompleted Status = "Completado"
)

// OrDefault reports an empty status as pending.
func (s Status) OrDefault() Status {
	if s == "" {
		return StatusPending
	}

	return s
}

// DeliveryType tells how an order reaches the client.
type DeliveryType string

// remember to add new types to the validDeliveryTypes map
const (
	DeliveryWarehouse DeliveryType = "deposito"
	DeliveryRoute     DeliveryType = "por reparto"
	DeliveryOther     DeliveryType = "otros"
)

var validDeliveryTypes = map[DeliveryType]struct{}{
	DeliveryWarehouse: {},
	DeliveryRoute:     {},
	DeliveryOther:     {},
}

var ErrInvalidDeliveryType = errors.New("invalid delivery type")

func ParseDeliveryType(s string) (DeliveryType, error) {
	t := DeliveryType(s)
	if _, ok := validDeliveryTypes[t]; ok {
		return t, nil
	}

	return "", ErrInvalidDeliveryType
}

// RequiresCourier reports whether a courier must be assigned.
func (t DeliveryType) RequiresCourier() bool {
	return t == DeliveryRoute
}

// Order represents a persisted sales order owned by the backend.
type Order struct {
	ID           int64            `json:"id"`
	ClientID     int64            `json:"clientId"`
	ClientName   string           `json:"clientName"`
	Status       Status           `json:"status"`
	DeliveryType DeliveryType     `json:"deliveryType"`
	DeliveryDate Date             `json:"deliveryDate"`
	CourierID    *int64           `json:"courierId,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	TotalAmount  decimal.Decimal  `json:"totalAmount"`
	Items        []orderitem.Item `json:"items,omitempty"`
}

// Expired reports whether the delivery date lies before today. Orders without
// a delivery date never expire.
func (o Order) Expired(today Date) bool {
	return !o.DeliveryDate.IsZero() && o.DeliveryDate.Before(today)
}
