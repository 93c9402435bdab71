package auditlog

import (
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/shopspring/decimal"
)

// Submission is published after an order is created or updated from a draft.
type Submission struct {
	OrderID      int64              `json:"order_id"`
	ClientID     int64              `json:"client_id"`
	Editing      bool               `json:"editing"`
	DeliveryType order.DeliveryType `json:"delivery_type"`
	DeliveryDate order.Date         `json:"delivery_date"`
	ItemCount    int                `json:"item_count"`
	Total        decimal.Decimal    `json:"total"`
	SubmittedAt  time.Time          `json:"submitted_at"`
}
