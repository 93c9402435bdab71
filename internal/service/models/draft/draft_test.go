package draft_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

func today() order.Date {
	return order.DateOf(now)
}

type fakeCatalog struct {
	products map[int64]product.Product
	couriers map[int64]courier.Courier
}

func newFakeCatalog(products ...product.Product) *fakeCatalog {
	c := &fakeCatalog{
		products: make(map[int64]product.Product),
		couriers: make(map[int64]courier.Courier),
	}
	for _, p := range products {
		c.products[p.ID] = p
	}

	return c
}

func (c *fakeCatalog) Product(id int64) (product.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

func (c *fakeCatalog) Courier(id int64) (courier.Courier, bool) {
	r, ok := c.couriers[id]
	return r, ok
}

func randomProduct() product.Product {
	return product.Product{
		ID:              int64(gofakeit.Number(1, 1_000_000)),
		SKU:             gofakeit.LetterN(8),
		Name:            gofakeit.BeerName(),
		Price:           decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Stock:           int64(gofakeit.Number(10, 100)),
		DiscountAllowed: true,
	}
}

func newDraft() *draft.Draft {
	return draft.New(uuid.New(), now)
}

// readyDraft has a client, one line and default delivery settings.
func readyDraft(t *testing.T, p product.Product) *draft.Draft {
	t.Helper()

	d := newDraft()
	require.NoError(t, d.SetClient(int64(gofakeit.Number(1, 1000))))
	require.NoError(t, d.AddLine(p))

	return d
}

func TestNew(t *testing.T) {
	d := newDraft()

	assert.Equal(t, draft.StateEmpty, d.State())
	assert.False(t, d.Editing())
	assert.Equal(t, order.DeliveryWarehouse, d.DeliveryType())
	assert.Equal(t, "2025-03-11", d.DeliveryDate().String())
	assert.Empty(t, d.Lines())
}

func TestAddLine(t *testing.T) {
	p1 := randomProduct()
	p2 := randomProduct()
	p2.ID = p1.ID + 1

	tests := []struct {
		name      string
		adds      []product.Product
		wantLines int
		wantQty   []int
	}{
		{
			name:      "single product: one line with quantity 1",
			adds:      []product.Product{p1},
			wantLines: 1,
			wantQty:   []int{1},
		},
		{
			name:      "same product twice: quantity incremented",
			adds:      []product.Product{p1, p1},
			wantLines: 1,
			wantQty:   []int{2},
		},
		{
			name:      "two products, first repeated: two lines",
			adds:      []product.Product{p1, p2, p1},
			wantLines: 2,
			wantQty:   []int{2, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDraft()
			for _, p := range tt.adds {
				require.NoError(t, d.AddLine(p))
			}

			lines := d.Lines()
			require.Len(t, lines, tt.wantLines)
			for i, qty := range tt.wantQty {
				assert.Equal(t, qty, lines[i].Quantity)
			}
			assert.True(t, lines[0].UnitPrice.Equal(p1.Price))
			assert.False(t, lines[0].PriceOverridden())
		})
	}
}

func TestAddLine_LineCountProperty(t *testing.T) {
	d := newDraft()
	products := []product.Product{randomProduct(), randomProduct(), randomProduct()}
	for i := range products {
		products[i].ID = int64(i + 1)
	}

	for i := 0; i < 50; i++ {
		p := products[gofakeit.Number(0, len(products)-1)]
		before := len(d.Lines())
		present := false
		for _, l := range d.Lines() {
			if l.ProductID == p.ID {
				present = true
			}
		}

		require.NoError(t, d.AddLine(p))

		if present {
			assert.Len(t, d.Lines(), before)
		} else {
			assert.Len(t, d.Lines(), before+1)
		}
	}
}

func TestUpdateLine(t *testing.T) {
	tests := []struct {
		name         string
		noDiscount   bool
		field        draft.Field
		value        string
		wantError    error
		wantQty      int
		wantPrice    string
		wantDiscount string
	}{
		{
			name:         "quantity: ok",
			field:        draft.FieldQuantity,
			value:        "7",
			wantQty:      7,
			wantPrice:    "10",
			wantDiscount: "0",
		},
		{
			name:         "quantity with decimals: truncated",
			field:        draft.FieldQuantity,
			value:        "3.9",
			wantQty:      3,
			wantPrice:    "10",
			wantDiscount: "0",
		},
		{
			name:      "quantity zero: rejected",
			field:     draft.FieldQuantity,
			value:     "0",
			wantError: draft.ErrInvalidQuantity,
		},
		{
			name:      "quantity not a number: rejected",
			field:     draft.FieldQuantity,
			value:     "abc",
			wantError: draft.ErrInvalidQuantity,
		},
		{
			name:      "quantity beyond uint64: rejected",
			field:     draft.FieldQuantity,
			value:     "18446744073709551617",
			wantError: draft.ErrInvalidQuantity,
		},
		{
			name:      "quantity in exponent form: rejected",
			field:     draft.FieldQuantity,
			value:     "1e30",
			wantError: draft.ErrInvalidQuantity,
		},
		{
			name:         "quantity at the cap: ok",
			field:        draft.FieldQuantity,
			value:        "2147483647",
			wantQty:      2147483647,
			wantPrice:    "10",
			wantDiscount: "0",
		},
		{
			name:      "quantity just above the cap: rejected",
			field:     draft.FieldQuantity,
			value:     "2147483648",
			wantError: draft.ErrInvalidQuantity,
		},
		{
			name:         "discount above 100: clamped",
			field:        draft.FieldDiscount,
			value:        "150",
			wantQty:      1,
			wantPrice:    "10",
			wantDiscount: "100",
		},
		{
			name:         "negative discount: clamped",
			field:        draft.FieldDiscount,
			value:        "-10",
			wantQty:      1,
			wantPrice:    "10",
			wantDiscount: "0",
		},
		{
			name:         "discount on product without discounts: ignored",
			noDiscount:   true,
			field:        draft.FieldDiscount,
			value:        "25",
			wantQty:      1,
			wantPrice:    "10",
			wantDiscount: "0",
		},
		{
			name:         "unit price with comma: ok",
			field:        draft.FieldUnitPrice,
			value:        "12,5",
			wantQty:      1,
			wantPrice:    "12.5",
			wantDiscount: "0",
		},
		{
			name:         "unit price not a number: zero",
			field:        draft.FieldUnitPrice,
			value:        "n/a",
			wantQty:      1,
			wantPrice:    "0",
			wantDiscount: "0",
		},
		{
			name:      "negative unit price: rejected",
			field:     draft.FieldUnitPrice,
			value:     "-1",
			wantError: draft.ErrNegativePrice,
		},
		{
			name:      "unknown field: rejected",
			field:     draft.Field("color"),
			value:     "red",
			wantError: draft.ErrInvalidField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := randomProduct()
			p.Price = decimal.NewFromInt(10)
			p.DiscountAllowed = !tt.noDiscount

			d := newDraft()
			require.NoError(t, d.AddLine(p))
			before := d.Lines()[0]

			err := d.UpdateLine(0, tt.field, tt.value)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.Equal(t, before, d.Lines()[0])
				return
			}
			require.NoError(t, err)

			line := d.Lines()[0]
			assert.Equal(t, tt.wantQty, line.Quantity)
			assert.Equal(t, tt.wantPrice, line.UnitPrice.String())
			assert.Equal(t, tt.wantDiscount, line.Discount.String())
		})
	}
}

func TestUpdateLine_OutOfRange(t *testing.T) {
	d := newDraft()
	require.NoError(t, d.AddLine(randomProduct()))

	require.ErrorIs(t, d.UpdateLine(1, draft.FieldQuantity, "2"), draft.ErrLineNotFound)
	require.ErrorIs(t, d.UpdateLine(-1, draft.FieldQuantity, "2"), draft.ErrLineNotFound)
}

func TestUpdateLine_PriceOverride(t *testing.T) {
	p := randomProduct()
	p.Price = decimal.NewFromInt(10)

	d := newDraft()
	require.NoError(t, d.AddLine(p))
	require.NoError(t, d.UpdateLine(0, draft.FieldUnitPrice, "8"))

	line := d.Lines()[0]
	assert.True(t, line.PriceOverridden())
	assert.Equal(t, "10", line.CatalogPrice.String())
}

func TestRemoveLine(t *testing.T) {
	p1, p2 := randomProduct(), randomProduct()
	p2.ID = p1.ID + 1

	d := newDraft()
	require.NoError(t, d.AddLine(p1))
	require.NoError(t, d.AddLine(p2))

	require.NoError(t, d.RemoveLine(0))
	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p2.ID, lines[0].ProductID)

	require.NoError(t, d.RemoveLine(0))
	assert.Empty(t, d.Lines())
	require.ErrorIs(t, d.RemoveLine(0), draft.ErrLineNotFound)
}

func TestSubtotalAndTotal(t *testing.T) {
	p1 := randomProduct()
	p1.Price = decimal.NewFromInt(100)
	p2 := p1
	p2.ID = p1.ID + 1

	d := newDraft()
	for _, p := range []product.Product{p1, p2} {
		require.NoError(t, d.AddLine(p))
	}
	for i := range 2 {
		require.NoError(t, d.UpdateLine(i, draft.FieldQuantity, "3"))
		require.NoError(t, d.UpdateLine(i, draft.FieldDiscount, "10"))
	}

	lines := d.Lines()
	assert.Equal(t, "270.00", lines[0].Subtotal().StringFixed(2))
	assert.Equal(t, "540.00", d.Total().StringFixed(2))
}

func TestSubtotal_KeepsFullPrecision(t *testing.T) {
	line := draft.Line{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("33.33"),
		Discount:  decimal.RequireFromString("15"),
	}

	assert.Equal(t, "84.9915", line.Subtotal().String())
	assert.Equal(t, "84.99", line.Subtotal().StringFixed(2))
}

func TestStateTransitions(t *testing.T) {
	p := randomProduct()
	d := newDraft()
	assert.Equal(t, draft.StateEmpty, d.State())

	require.NoError(t, d.SetClient(1))
	assert.Equal(t, draft.StateComposing, d.State())

	require.NoError(t, d.AddLine(p))
	assert.Equal(t, draft.StateReadyToSubmit, d.State())

	require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
	assert.Equal(t, draft.StateComposing, d.State())

	require.NoError(t, d.SetCourier(9))
	assert.Equal(t, draft.StateReadyToSubmit, d.State())

	require.NoError(t, d.RemoveLine(0))
	assert.Equal(t, draft.StateComposing, d.State())

	require.NoError(t, d.SetClient(0))
	assert.Equal(t, draft.StateEmpty, d.State())

	require.NoError(t, d.Cancel())
	assert.Equal(t, draft.StateCancelled, d.State())
	require.ErrorIs(t, d.AddLine(p), draft.ErrDraftClosed)
	require.ErrorIs(t, d.Cancel(), draft.ErrDraftClosed)
}

func TestMarkSubmitted(t *testing.T) {
	d := newDraft()
	require.ErrorIs(t, d.MarkSubmitted(), draft.ErrNotReady)

	d = readyDraft(t, randomProduct())
	require.NoError(t, d.MarkSubmitted())
	assert.Equal(t, draft.StateSubmitted, d.State())
	require.ErrorIs(t, d.SetClient(2), draft.ErrDraftClosed)
}

func TestSetDeliveryType_Invalid(t *testing.T) {
	d := newDraft()
	require.ErrorIs(t, d.SetDeliveryType("drone"), order.ErrInvalidDeliveryType)
	assert.Equal(t, order.DeliveryWarehouse, d.DeliveryType())
}

func TestValidate(t *testing.T) {
	activeCourier := courier.Courier{ID: 7, FirstName: "Ana", Status: courier.StatusActive}
	suspendedCourier := courier.Courier{ID: 8, FirstName: "Luis", Status: courier.StatusSuspended}

	tests := []struct {
		name      string
		prepare   func(t *testing.T, d *draft.Draft, p product.Product)
		stock     int64
		editing   bool
		wantCodes []draft.Code
	}{
		{
			name:    "complete draft: ok",
			prepare: func(*testing.T, *draft.Draft, product.Product) {},
			stock:   5,
		},
		{
			name: "empty draft: client and lines required",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetClient(0))
				require.NoError(t, d.RemoveLine(0))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeClientRequired, draft.CodeLinesRequired},
		},
		{
			name: "quantity above stock: stock error",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.UpdateLine(0, draft.FieldQuantity, "6"))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeStockInsufficient},
		},
		{
			name: "quantity above stock while editing: ok",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.UpdateLine(0, draft.FieldQuantity, "6"))
			},
			stock:   5,
			editing: true,
		},
		{
			name: "product missing from catalog: stock not checked",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.AddLine(product.Product{ID: -1, Name: "gone"}))
				require.NoError(t, d.UpdateLine(1, draft.FieldQuantity, "1000"))
			},
			stock: 5,
		},
		{
			name: "route delivery without courier: courier required",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeCourierRequired},
		},
		{
			name: "route delivery with suspended courier: courier inactive",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
				require.NoError(t, d.SetCourier(suspendedCourier.ID))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeCourierInactive},
		},
		{
			name: "route delivery with active courier: ok",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
				require.NoError(t, d.SetCourier(activeCourier.ID))
			},
			stock: 5,
		},
		{
			name: "no delivery date: date required",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryDate(order.Date{}))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeDeliveryDateRequired},
		},
		{
			name: "delivery date yesterday: date past",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryDate(today().AddDays(-1)))
			},
			stock:     5,
			wantCodes: []draft.Code{draft.CodeDeliveryDatePast},
		},
		{
			name: "delivery date today: ok",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetDeliveryDate(today()))
			},
			stock: 5,
		},
		{
			name: "several problems: all collected in order",
			prepare: func(t *testing.T, d *draft.Draft, _ product.Product) {
				require.NoError(t, d.SetClient(0))
				require.NoError(t, d.UpdateLine(0, draft.FieldQuantity, "9"))
				require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
			},
			stock: 5,
			wantCodes: []draft.Code{
				draft.CodeClientRequired,
				draft.CodeStockInsufficient,
				draft.CodeCourierRequired,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := randomProduct()
			p.Stock = tt.stock
			catalog := newFakeCatalog(p)
			catalog.couriers[activeCourier.ID] = activeCourier
			catalog.couriers[suspendedCourier.ID] = suspendedCourier

			d := readyDraft(t, p)
			if tt.editing {
				d = draft.FromOrder(uuid.New(), now, order.Order{
					ID:           42,
					ClientID:     d.ClientID(),
					DeliveryType: order.DeliveryWarehouse,
					DeliveryDate: today().AddDays(1),
					Items: []orderitem.Item{
						{ProductID: p.ID, Name: p.Name, Quantity: 1, UnitPrice: p.Price},
					},
				}, catalog.Product)
			}
			tt.prepare(t, d, p)

			errs := d.Validate(catalog, today())

			gotCodes := make([]draft.Code, 0, len(errs))
			for _, e := range errs {
				gotCodes = append(gotCodes, e.Code)
			}
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, gotCodes)
				return
			}
			assert.Equal(t, tt.wantCodes, gotCodes)
		})
	}
}

func TestValidate_StockMessage(t *testing.T) {
	p := randomProduct()
	p.Name = "Quilmes 1L"
	p.Stock = 5

	d := readyDraft(t, p)
	require.NoError(t, d.UpdateLine(0, draft.FieldQuantity, "6"))

	errs := d.Validate(newFakeCatalog(p), today())
	require.True(t, errs.Has(draft.CodeStockInsufficient))
	assert.Contains(t, errs.Error(), "Quilmes 1L")
	assert.Contains(t, errs.Error(), "5")
	assert.Contains(t, errs.Error(), "6")
}

func TestValidate_StockShortCircuits(t *testing.T) {
	p1, p2 := randomProduct(), randomProduct()
	p2.ID = p1.ID + 1
	p1.Stock, p2.Stock = 1, 1

	d := readyDraft(t, p1)
	require.NoError(t, d.AddLine(p2))
	require.NoError(t, d.UpdateLine(0, draft.FieldQuantity, "2"))
	require.NoError(t, d.UpdateLine(1, draft.FieldQuantity, "2"))

	errs := d.Validate(newFakeCatalog(p1, p2), today())
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, p1.Name)
}

func TestValidate_CourierErrorClears(t *testing.T) {
	p := randomProduct()
	catalog := newFakeCatalog(p)
	catalog.couriers[3] = courier.Courier{ID: 3, Status: courier.StatusActive}

	d := readyDraft(t, p)
	require.NoError(t, d.SetDeliveryType(order.DeliveryRoute))
	require.True(t, d.Validate(catalog, today()).Has(draft.CodeCourierRequired))

	require.NoError(t, d.SetCourier(3))
	assert.False(t, d.Validate(catalog, today()).Has(draft.CodeCourierRequired))
	assert.Empty(t, d.Validate(catalog, today()))
}

func TestFromOrder(t *testing.T) {
	p := randomProduct()
	courierID := int64(12)
	o := order.Order{
		ID:           99,
		ClientID:     5,
		DeliveryType: order.DeliveryRoute,
		DeliveryDate: today(),
		CourierID:    &courierID,
		Items: []orderitem.Item{
			{ProductID: p.ID, Quantity: 4, UnitPrice: decimal.RequireFromString("19.99")},
		},
	}

	d := draft.FromOrder(uuid.New(), now, o, newFakeCatalog(p).Product)

	assert.True(t, d.Editing())
	id, ok := d.OrderID()
	assert.True(t, ok)
	assert.Equal(t, int64(99), id)
	assert.Equal(t, draft.StateComposing, d.State())
	assert.Equal(t, int64(5), d.ClientID())
	assert.Equal(t, courierID, d.CourierID())

	lines := d.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p.Name, lines[0].ProductName)
	assert.Equal(t, p.DiscountAllowed, lines[0].DiscountAllowed)
	assert.Equal(t, "19.99", lines[0].UnitPrice.String())
}

func TestClone_IsIndependent(t *testing.T) {
	d := readyDraft(t, randomProduct())
	c := d.Clone()

	require.NoError(t, c.UpdateLine(0, draft.FieldQuantity, "9"))
	require.NoError(t, c.SetClient(0))

	assert.Equal(t, 1, d.Lines()[0].Quantity)
	assert.NotZero(t, d.ClientID())
}
