package restapi

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/shopspring/decimal"
)

// flexString accepts JSON strings, numbers, booleans and null.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
	default:
		*s = flexString(data)
	}

	return nil
}

func (s flexString) String() string {
	return strings.TrimSpace(string(s))
}

// flexDecimal accepts numbers and numeric strings; anything else is zero.
type flexDecimal struct {
	decimal.Decimal
}

func (d *flexDecimal) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := decimal.NewFromString(s.String())
	if err != nil {
		v = decimal.Zero
	}
	d.Decimal = v

	return nil
}

var (
	minFlexInt = decimal.NewFromInt(math.MinInt64)
	maxFlexInt = decimal.NewFromInt(math.MaxInt64)
)

// flexInt accepts numbers and numeric strings, truncating fractions. Values
// outside the int64 range read as zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var d flexDecimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if d.LessThan(minFlexInt) || d.GreaterThan(maxFlexInt) {
		*n = 0

		return nil
	}
	*n = flexInt(d.IntPart())

	return nil
}

// optional maps the zero id to nil.
func (n flexInt) optional() *int64 {
	if n == 0 {
		return nil
	}
	v := int64(n)

	return &v
}

// flexBool accepts booleans, 0/1 and their string forms.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(s.String()) {
	case "true", "1", "t", "yes", "si", "sí":
		*b = true
	default:
		*b = false
	}

	return nil
}

type clientDTO struct {
	ID            flexInt    `json:"id"`
	RazonSocial   flexString `json:"razon_social"`
	Nombre        flexString `json:"nombre"`
	Apellido      flexString `json:"apellido"`
	Cuit          flexString `json:"cuit"`
	Telefono      flexString `json:"telefono"`
	Correo        flexString `json:"correo"`
	Email         flexString `json:"email"`
	Direccion     flexString `json:"direccion"`
	Numero        flexString `json:"numero"`
	Localidad     flexString `json:"localidad_nombre"`
	Barrio        flexString `json:"barrio_nombre"`
	Zona          flexString `json:"zona_nombre"`
	CondicionPago flexString `json:"condicion_pago"`
	Estado        flexString `json:"estado"`
}

func (d clientDTO) toModel() client.Client {
	email := d.Correo.String()
	if email == "" {
		email = d.Email.String()
	}

	return client.Client{
		ID:           int64(d.ID),
		BusinessName: d.RazonSocial.String(),
		FirstName:    d.Nombre.String(),
		LastName:     d.Apellido.String(),
		TaxID:        d.Cuit.String(),
		Phone:        d.Telefono.String(),
		Email:        email,
		Address:      strings.TrimSpace(d.Direccion.String() + " " + d.Numero.String()),
		Locality:     d.Localidad.String(),
		Neighborhood: d.Barrio.String(),
		Zone:         d.Zona.String(),
		PaymentTerms: d.CondicionPago.String(),
		Status:       d.Estado.String(),
	}
}

type productDTO struct {
	ID               flexInt     `json:"id"`
	SKU              flexString  `json:"sku"`
	Name             flexString  `json:"name"`
	Price            flexDecimal `json:"price"`
	Stock            flexInt     `json:"stock"`
	RubroID          flexInt     `json:"rubro_id"`
	MarcaID          flexInt     `json:"marca_id"`
	PermiteDescuento flexBool    `json:"permite_descuento"`
	ProviderID       flexInt     `json:"provider_id"`
	ProviderName     flexString  `json:"provider_name"`
}

func (d productDTO) toModel() product.Product {
	return product.Product{
		ID:              int64(d.ID),
		SKU:             d.SKU.String(),
		Name:            d.Name.String(),
		Price:           d.Price.Decimal,
		Stock:           max(int64(d.Stock), 0),
		CategoryID:      d.RubroID.optional(),
		BrandID:         d.MarcaID.optional(),
		DiscountAllowed: bool(d.PermiteDescuento),
		ProviderID:      d.ProviderID.optional(),
		ProviderName:    d.ProviderName.String(),
	}
}

type courierDTO struct {
	ID                  flexInt    `json:"id"`
	Nombre              flexString `json:"nombre"`
	Apellido            flexString `json:"apellido"`
	LicenciaConducir    flexString `json:"licencia_conducir"`
	VencimientoLicencia flexString `json:"vencimiento_licencia"`
	Estado              flexString `json:"estado"`
}

func (d courierDTO) toModel() courier.Courier {
	return courier.Courier{
		ID:            int64(d.ID),
		FirstName:     d.Nombre.String(),
		LastName:      d.Apellido.String(),
		License:       d.LicenciaConducir.String(),
		LicenseExpiry: d.VencimientoLicencia.String(),
		Status:        courier.Status(d.Estado.String()),
	}
}

type categoryDTO struct {
	ID          flexInt    `json:"id_rubro"`
	Descripcion flexString `json:"descripcion"`
}

func (d categoryDTO) toModel() catalog.Category {
	return catalog.Category{ID: int64(d.ID), Description: d.Descripcion.String()}
}

type brandDTO struct {
	ID          flexInt    `json:"id_marca"`
	Descripcion flexString `json:"descripcion"`
}

func (d brandDTO) toModel() catalog.Brand {
	return catalog.Brand{ID: int64(d.ID), Description: d.Descripcion.String()}
}

type orderItemDTO struct {
	ProductID flexInt     `json:"product_id"`
	Name      flexString  `json:"name"`
	SKU       flexString  `json:"sku"`
	Quantity  flexInt     `json:"quantity"`
	UnitPrice flexDecimal `json:"unit_price"`
}

func (d orderItemDTO) toModel() orderitem.Item {
	return orderitem.Item{
		ProductID: int64(d.ProductID),
		Name:      d.Name.String(),
		SKU:       d.SKU.String(),
		Quantity:  int(d.Quantity),
		UnitPrice: d.UnitPrice.Decimal,
	}
}

type orderDTO struct {
	ID           flexInt        `json:"id"`
	ClientID     flexInt        `json:"client_id"`
	ClientName   flexString     `json:"client_name"`
	Status       flexString     `json:"status"`
	DeliveryType flexString     `json:"delivery_type"`
	DeliveryDate flexString     `json:"delivery_date"`
	RepartidorID flexInt        `json:"repartidor_id"`
	CreatedAt    flexString     `json:"created_at"`
	TotalAmount  flexDecimal    `json:"total_amount"`
	Items        []orderItemDTO `json:"items"`
}

func (d orderDTO) toModel() order.Order {
	// unparseable dates are reported as missing
	deliveryDate, _ := order.ParseDate(d.DeliveryDate.String())

	o := order.Order{
		ID:           int64(d.ID),
		ClientID:     int64(d.ClientID),
		ClientName:   d.ClientName.String(),
		Status:       order.Status(d.Status.String()).OrDefault(),
		DeliveryType: order.DeliveryType(d.DeliveryType.String()),
		DeliveryDate: deliveryDate,
		CourierID:    d.RepartidorID.optional(),
		CreatedAt:    parseTimestamp(d.CreatedAt.String()),
		TotalAmount:  d.TotalAmount.Decimal,
	}
	if len(d.Items) > 0 {
		o.Items = make([]orderitem.Item, len(d.Items))
		for i, item := range d.Items {
			o.Items[i] = item.toModel()
		}
	}

	return o
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	return time.Time{}
}
