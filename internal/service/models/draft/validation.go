package draft

import (
	"fmt"
	"strings"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/samber/lo"
)

// Code identifies a validation failure.
type Code string

const (
	CodeClientRequired       Code = "client_required"
	CodeLinesRequired        Code = "lines_required"
	CodeStockInsufficient    Code = "stock_insufficient"
	CodeDeliveryDateRequired Code = "delivery_date_required"
	CodeDeliveryDatePast     Code = "delivery_date_past"
	CodeCourierRequired      Code = "courier_required"
	CodeCourierInactive      Code = "courier_inactive"
)

type ValidationError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors is the full list of problems preventing submission.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	return strings.Join(lo.Map(v, func(e ValidationError, _ int) string {
		return e.Message
	}), "; ")
}

func (v ValidationErrors) Has(code Code) bool {
	return lo.ContainsBy(v, func(e ValidationError) bool {
		return e.Code == code
	})
}

// Catalog resolves the last-known reference data used by validation.
type Catalog interface {
	Product(id int64) (product.Product, bool)
	Courier(id int64) (courier.Courier, bool)
}

// Validate collects every reason the draft cannot be submitted. The stock
// check stops at the first offending line and is skipped for edits.
func (d *Draft) Validate(catalog Catalog, today order.Date) ValidationErrors {
	var errs ValidationErrors

	if d.clientID == 0 {
		errs = append(errs, ValidationError{Code: CodeClientRequired, Message: "select a client"})
	}
	if len(d.lines) == 0 {
		errs = append(errs, ValidationError{Code: CodeLinesRequired, Message: "add at least one product"})
	}
	if !d.Editing() {
		if stockErr, ok := d.firstStockViolation(catalog); ok {
			errs = append(errs, stockErr)
		}
	}

	switch {
	case d.deliveryDate.IsZero():
		errs = append(errs, ValidationError{
			Code:    CodeDeliveryDateRequired,
			Message: "select a delivery date",
		})
	case !d.Editing() && d.deliveryDate.Before(today):
		errs = append(errs, ValidationError{
			Code:    CodeDeliveryDatePast,
			Message: fmt.Sprintf("delivery date %s is in the past", d.deliveryDate),
		})
	}

	if d.deliveryType.RequiresCourier() {
		if d.courierID == 0 {
			errs = append(errs, ValidationError{
				Code:    CodeCourierRequired,
				Message: "select a courier for route delivery",
			})
		} else if c, ok := catalog.Courier(d.courierID); !ok || !c.IsActive() {
			errs = append(errs, ValidationError{
				Code:    CodeCourierInactive,
				Message: fmt.Sprintf("courier %d is not active", d.courierID),
			})
		}
	}

	return errs
}

// firstStockViolation skips lines whose product is no longer in the catalog.
func (d *Draft) firstStockViolation(catalog Catalog) (ValidationError, bool) {
	for _, line := range d.lines {
		p, ok := catalog.Product(line.ProductID)
		if !ok || int64(line.Quantity) <= p.Stock {
			continue
		}

		return ValidationError{
			Code: CodeStockInsufficient,
			Message: fmt.Sprintf(
				"product %q has %d units in stock, cannot order %d",
				p.Name, p.Stock, line.Quantity,
			),
		}, true
	}

	return ValidationError{}, false
}
