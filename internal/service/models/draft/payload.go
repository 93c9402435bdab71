package draft

import "github.com/corray333/backend-labs/orderdesk/internal/service/models/order"

// Payload builds the create/update request for the draft. The courier is only
// sent for route deliveries.
func (d *Draft) Payload() order.Payload {
	items := make([]order.PayloadItem, len(d.lines))
	for i, line := range d.lines {
		items[i] = order.PayloadItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.submittedUnitPrice(),
		}
	}

	payload := order.Payload{
		ClientID:     d.clientID,
		Items:        items,
		DeliveryType: d.deliveryType,
		DeliveryDate: d.deliveryDate,
	}
	if d.deliveryType.RequiresCourier() && d.courierID != 0 {
		courierID := d.courierID
		payload.CourierID = &courierID
	}

	return payload
}
