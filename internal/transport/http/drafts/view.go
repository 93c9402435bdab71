package drafts

import (
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type lineView struct {
	Index           int             `json:"index"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	SKU             string          `json:"sku"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	CatalogPrice    decimal.Decimal `json:"catalogPrice"`
	PriceOverridden bool            `json:"priceOverridden"`
	Discount        decimal.Decimal `json:"discount"`
	DiscountAllowed bool            `json:"discountAllowed"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalDisplay string          `json:"subtotalDisplay"`
}

type draftView struct {
	ID           uuid.UUID          `json:"id"`
	OrderID      *int64             `json:"orderId"`
	Editing      bool               `json:"editing"`
	State        draft.State        `json:"state"`
	ClientID     *int64             `json:"clientId"`
	DeliveryType order.DeliveryType `json:"deliveryType"`
	DeliveryDate order.Date         `json:"deliveryDate"`
	CourierID    *int64             `json:"courierId"`
	Lines        []lineView         `json:"lines"`
	Total        decimal.Decimal    `json:"total"`
	TotalDisplay string             `json:"totalDisplay"`
	CreatedAt    time.Time          `json:"createdAt"`
}

func newDraftView(d *draft.Draft, display currency.Currency) draftView {
	lines := d.Lines()
	views := make([]lineView, 0, len(lines))
	for i, l := range lines {
		subtotal := l.Subtotal()
		views = append(views, lineView{
			Index:           i,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			SKU:             l.SKU,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			CatalogPrice:    l.CatalogPrice,
			PriceOverridden: l.PriceOverridden(),
			Discount:        l.Discount,
			DiscountAllowed: l.DiscountAllowed,
			Subtotal:        subtotal,
			SubtotalDisplay: display.Format(subtotal),
		})
	}

	view := draftView{
		ID:           d.ID(),
		Editing:      d.Editing(),
		State:        d.State(),
		DeliveryType: d.DeliveryType(),
		DeliveryDate: d.DeliveryDate(),
		Lines:        views,
		Total:        d.Total(),
		TotalDisplay: display.Format(d.Total()),
		CreatedAt:    d.CreatedAt(),
	}
	if id, ok := d.OrderID(); ok {
		view.OrderID = &id
	}
	if id := d.ClientID(); id != 0 {
		view.ClientID = &id
	}
	if id := d.CourierID(); id != 0 {
		view.CourierID = &id
	}

	return view
}
