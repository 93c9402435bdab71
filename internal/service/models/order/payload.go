package order

// PayloadItem is one line of a create or update request.
type PayloadItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Payload is the body of POST /orders and of a full PUT /orders/{id}.
type Payload struct {
	ClientID     int64         `json:"client_id"`
	Items        []PayloadItem `json:"items"`
	DeliveryType DeliveryType  `json:"delivery_type"`
	DeliveryDate Date          `json:"delivery_date"`
	CourierID    *int64        `json:"repartidor_id"`
}

// StatusUpdate is the body of a partial PUT /orders/{id}.
type StatusUpdate struct {
	Status Status `json:"status"`
}
