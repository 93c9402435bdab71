package draft

import (
	"errors"
	"fmt"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the lifecycle position of a draft.
type State string

const (
	StateEmpty         State = "empty"
	StateComposing     State = "composing"
	StateReadyToSubmit State = "ready_to_submit"
	StateSubmitted     State = "submitted"
	StateCancelled     State = "cancelled"
)

// Terminal reports whether no further mutation is allowed.
func (s State) Terminal() bool {
	return s == StateSubmitted || s == StateCancelled
}

var (
	ErrDraftClosed     = errors.New("draft is closed")
	ErrNotReady        = errors.New("draft is not ready to submit")
	ErrLineNotFound    = errors.New("line not found")
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrNegativePrice   = errors.New("unit price must not be negative")
	ErrInvalidField    = errors.New("unknown line field")
)

// Draft is an order being composed by an operator. It lives only in memory
// until it is submitted or cancelled.
type Draft struct {
	id           uuid.UUID
	orderID      int64
	clientID     int64
	deliveryType order.DeliveryType
	deliveryDate order.Date
	courierID    int64
	lines        []Line
	state        State
	createdAt    time.Time
}

// New starts an empty draft for a new order. Delivery defaults to warehouse
// pickup on the day after today.
func New(id uuid.UUID, now time.Time) *Draft {
	return &Draft{
		id:           id,
		deliveryType: order.DeliveryWarehouse,
		deliveryDate: order.DateOf(now).AddDays(1),
		state:        StateEmpty,
		createdAt:    now,
	}
}

// FromOrder hydrates a draft that edits a persisted order. Lookup resolves
// catalog data for each line; lines whose product is unknown keep the
// persisted price as their reference price.
func FromOrder(
	id uuid.UUID,
	now time.Time,
	o order.Order,
	lookup func(productID int64) (product.Product, bool),
) *Draft {
	deliveryType, err := order.ParseDeliveryType(string(o.DeliveryType))
	if err != nil {
		deliveryType = order.DeliveryWarehouse
	}

	d := &Draft{
		id:           id,
		orderID:      o.ID,
		clientID:     o.ClientID,
		deliveryType: deliveryType,
		deliveryDate: o.DeliveryDate,
		state:        StateComposing,
		createdAt:    now,
	}
	if o.CourierID != nil {
		d.courierID = *o.CourierID
	}

	d.lines = make([]Line, 0, len(o.Items))
	for _, item := range o.Items {
		line := Line{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			SKU:          item.SKU,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			CatalogPrice: item.UnitPrice,
			Discount:     decimal.Zero,
		}
		if p, ok := lookup(item.ProductID); ok {
			line.CatalogPrice = p.Price
			line.DiscountAllowed = p.DiscountAllowed
			if line.ProductName == "" {
				line.ProductName = p.Name
			}
			if line.SKU == "" {
				line.SKU = p.SKU
			}
		}
		d.lines = append(d.lines, line)
	}

	return d
}

func (d *Draft) ID() uuid.UUID {
	return d.id
}

// OrderID returns the persisted order being edited, if any.
func (d *Draft) OrderID() (int64, bool) {
	return d.orderID, d.orderID != 0
}

// Editing reports whether submitting updates an existing order.
func (d *Draft) Editing() bool {
	return d.orderID != 0
}

func (d *Draft) ClientID() int64 {
	return d.clientID
}

func (d *Draft) DeliveryType() order.DeliveryType {
	return d.deliveryType
}

func (d *Draft) DeliveryDate() order.Date {
	return d.deliveryDate
}

func (d *Draft) CourierID() int64 {
	return d.courierID
}

func (d *Draft) State() State {
	return d.state
}

func (d *Draft) CreatedAt() time.Time {
	return d.createdAt
}

// Lines returns a copy of the draft lines.
func (d *Draft) Lines() []Line {
	lines := make([]Line, len(d.lines))
	copy(lines, d.lines)

	return lines
}

// Line returns the line at index.
func (d *Draft) Line(index int) (Line, error) {
	if index < 0 || index >= len(d.lines) {
		return Line{}, fmt.Errorf("%w: %d", ErrLineNotFound, index)
	}

	return d.lines[index], nil
}

// Total sums the line subtotals at full precision.
func (d *Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.lines {
		total = total.Add(line.Subtotal())
	}

	return total
}

// SetClient selects the client. Zero clears the selection.
func (d *Draft) SetClient(clientID int64) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.clientID = clientID
	d.recompute()

	return nil
}

func (d *Draft) SetDeliveryType(t order.DeliveryType) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	parsed, err := order.ParseDeliveryType(string(t))
	if err != nil {
		return fmt.Errorf("%w: %q", err, t)
	}
	d.deliveryType = parsed
	d.recompute()

	return nil
}

func (d *Draft) SetDeliveryDate(date order.Date) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.deliveryDate = date
	d.recompute()

	return nil
}

// SetCourier assigns the courier. Zero clears the assignment.
func (d *Draft) SetCourier(courierID int64) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.courierID = courierID
	d.recompute()

	return nil
}

// AddLine appends the product with quantity 1 at its catalog price, or bumps
// the quantity of the line that already holds it.
func (d *Draft) AddLine(p product.Product) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	for i := range d.lines {
		if d.lines[i].ProductID == p.ID {
			d.lines[i].Quantity++
			d.recompute()

			return nil
		}
	}

	d.lines = append(d.lines, Line{
		ProductID:       p.ID,
		ProductName:     p.Name,
		SKU:             p.SKU,
		Quantity:        1,
		UnitPrice:       p.Price,
		CatalogPrice:    p.Price,
		Discount:        decimal.Zero,
		DiscountAllowed: p.DiscountAllowed,
	})
	d.recompute()

	return nil
}

// UpdateLine sets one field of the line at index from operator input.
// A rejected value leaves the line unchanged.
func (d *Draft) UpdateLine(index int, field Field, value string) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("%w: %d", ErrLineNotFound, index)
	}

	line := &d.lines[index]
	switch field {
	case FieldQuantity:
		qty, err := parseQuantity(value)
		if err != nil {
			return err
		}
		line.Quantity = qty
	case FieldUnitPrice:
		price := parseDecimal(value)
		if price.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativePrice, value)
		}
		line.UnitPrice = price
	case FieldDiscount:
		if !line.DiscountAllowed {
			return nil
		}
		line.Discount = clampDiscount(parseDecimal(value))
	default:
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	d.recompute()

	return nil
}

func (d *Draft) RemoveLine(index int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(d.lines) {
		return fmt.Errorf("%w: %d", ErrLineNotFound, index)
	}
	d.lines = append(d.lines[:index], d.lines[index+1:]...)
	d.recompute()

	return nil
}

// MarkSubmitted closes the draft after the backend accepted it.
func (d *Draft) MarkSubmitted() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if !d.complete() {
		return ErrNotReady
	}
	d.state = StateSubmitted

	return nil
}

// Cancel discards the draft.
func (d *Draft) Cancel() error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.state = StateCancelled

	return nil
}

// Clone returns a deep copy of the draft.
func (d *Draft) Clone() *Draft {
	c := *d
	c.lines = d.Lines()

	return &c
}

func (d *Draft) checkOpen() error {
	if d.state.Terminal() {
		return fmt.Errorf("%w: %s", ErrDraftClosed, d.state)
	}

	return nil
}

func (d *Draft) complete() bool {
	if d.clientID == 0 || len(d.lines) == 0 || d.deliveryDate.IsZero() {
		return false
	}

	return !d.deliveryType.RequiresCourier() || d.courierID != 0
}

func (d *Draft) recompute() {
	switch {
	case d.state.Terminal():
	case d.complete():
		d.state = StateReadyToSubmit
	case d.clientID == 0 && len(d.lines) == 0 && !d.Editing():
		d.state = StateEmpty
	default:
		d.state = StateComposing
	}
}
