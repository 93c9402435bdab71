package httptransport_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/repositories/draft/memory"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/restapi"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/draftsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/ordersvc"
	httptransport "github.com/corray333/backend-labs/orderdesk/internal/transport/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var now = time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

// fakeBackend serves the subset of the distributor API the desk uses.
type fakeBackend struct {
	mu         sync.Mutex
	orders     []map[string]any
	posted     []json.RawMessage
	authHeader []string
	rejectWith string
}

func (b *fakeBackend) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			b.mu.Lock()
			b.authHeader = append(b.authHeader, req.Header.Get("Authorization"))
			b.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/clients", b.static(`[{"id": 1, "razon_social": "Almacen Don Pepe"}, {"id": "2", "nombre": "Maria"}]`))
	r.Get("/products", b.static(`[
		{"id": 10, "sku": "QL-1000", "name": "Quilmes 1L", "price": "1250.00", "stock": 2, "rubro_id": 1, "marca_id": 100},
		{"id": 11, "sku": "BR-473", "name": "Brahma Lata", "price": 900, "stock": "50", "rubro_id": 1, "marca_id": 101, "permite_descuento": true}
	]`))
	r.Get("/repartidores", b.static(`[{"id": 5, "nombre": "Ana", "estado": "Activo"}, {"id": 6, "nombre": "Luis", "estado": "Suspendido"}]`))
	r.Get("/rubros", b.static(`[{"id_rubro": 1, "descripcion": "Cervezas"}]`))
	r.Get("/marcas", b.static(`{"data": "not a list"}`))
	r.Get("/orders", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.orders)
	})
	r.Post("/orders", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)

		b.mu.Lock()
		defer b.mu.Unlock()
		if b.rejectWith != "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error": "` + b.rejectWith + `"}`))

			return
		}
		b.posted = append(b.posted, body)
		created := map[string]any{
			"id":            501,
			"client_id":     1,
			"client_name":   "Almacen Don Pepe",
			"status":        "Pendiente",
			"delivery_date": "2025-03-11",
			"total_amount":  2500,
		}
		b.orders = append(b.orders, created)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	})

	return r
}

func (b *fakeBackend) static(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

type httpFlowSuite struct {
	suite.Suite

	backend *fakeBackend
	api     *httptest.Server
	desk    http.Handler
}

// entry point to run the tests in the suite
func TestHTTPFlowSuite(t *testing.T) {
	suite.Run(t, new(httpFlowSuite))
}

// before each test
func (suite *httpFlowSuite) SetupTest() {
	suite.backend = &fakeBackend{orders: []map[string]any{
		{"id": 400, "client_name": "Kiosco Central", "status": "Completado", "delivery_date": "2025-03-01"},
	}}
	suite.api = httptest.NewServer(suite.backend.handler())

	client := restapi.NewClient(suite.api.URL, restapi.WithToken("service-token"))
	clock := ordersvc.WithClock(func() time.Time { return now })

	catalogSvc := catalogsvc.MustNewCatalogService(catalogsvc.WithCatalogClient(client))
	catalogSvc.LoadAll(suite.T().Context())

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderClient(client),
		ordersvc.WithProductRefresher(catalogSvc),
		clock,
	)
	draftSvc := draftsvc.MustNewDraftService(
		draftsvc.WithRepository(memory.NewDraftRepository()),
		draftsvc.WithCatalog(catalogSvc),
		draftsvc.WithOrderFetcher(client),
		draftsvc.WithSubmitter(orderSvc),
		draftsvc.WithClock(func() time.Time { return now }),
	)

	transport := httptransport.NewHTTPTransport(catalogSvc, draftSvc, orderSvc, currency.CurrencyARS)
	transport.RegisterRoutes()
	suite.desk = transport.Handler()
}

func (suite *httpFlowSuite) TearDownTest() {
	suite.api.Close()
}

func (suite *httpFlowSuite) TestComposeAndSubmit() {
	var d struct {
		ID           string `json:"id"`
		State        string `json:"state"`
		DeliveryDate string `json:"deliveryDate"`
		TotalDisplay string `json:"totalDisplay"`
	}

	rec := suite.do(http.MethodPost, "/api/drafts", "")
	suite.Require().Equal(http.StatusCreated, rec.Code)
	suite.decode(rec, &d)
	suite.Equal("empty", d.State)
	suite.Equal("2025-03-11", d.DeliveryDate)
	base := "/api/drafts/" + d.ID

	rec = suite.do(http.MethodPost, base+"/lines", `{"productId": 10}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decode(rec, &d)
	suite.Equal("composing", d.State)

	rec = suite.do(http.MethodPut, base+"/header", `{"clientId": 1}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decode(rec, &d)
	suite.Equal("ready_to_submit", d.State)

	rec = suite.do(http.MethodPatch, base+"/lines/0", `{"field": "quantity", "value": "5"}`)
	suite.Require().Equal(http.StatusOK, rec.Code)

	rec = suite.do(http.MethodPost, base+"/submit", "")
	suite.Require().Equal(http.StatusUnprocessableEntity, rec.Code)
	suite.Contains(rec.Body.String(), `"code":"stock_insufficient"`)
	suite.Empty(suite.backend.posted)

	rec = suite.do(http.MethodPatch, base+"/lines/0", `{"field": "quantity", "value": "2"}`)
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.decode(rec, &d)
	suite.Equal("ARS 2500.00", d.TotalDisplay)

	rec = suite.do(http.MethodGet, base+"/validation", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"valid": true, "errors": []}`, rec.Body.String())

	rec = suite.do(http.MethodPost, base+"/submit", "")
	suite.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	suite.Require().Len(suite.backend.posted, 1)
	suite.JSONEq(`{
		"client_id": 1,
		"items": [{"product_id": 10, "quantity": 2, "unit_price": 1250}],
		"delivery_type": "deposito",
		"delivery_date": "2025-03-11",
		"repartidor_id": null
	}`, string(suite.backend.posted[0]))

	rec = suite.do(http.MethodGet, base, "")
	suite.Equal(http.StatusNotFound, rec.Code)

	rec = suite.do(http.MethodGet, "/api/orders", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	var orders []struct {
		ID      int64 `json:"id"`
		Expired bool  `json:"expired"`
	}
	suite.decode(rec, &orders)
	suite.Require().Len(orders, 1)
	suite.Equal(int64(501), orders[0].ID)

	rec = suite.do(http.MethodGet, "/api/orders?expired=true", "")
	suite.decode(rec, &orders)
	suite.Require().Len(orders, 1)
	suite.Equal(int64(400), orders[0].ID)
	suite.True(orders[0].Expired)
}

func (suite *httpFlowSuite) TestBackendRejectionIsMirrored() {
	suite.backend.rejectWith = "Cliente inhabilitado"

	var d struct {
		ID string `json:"id"`
	}
	rec := suite.do(http.MethodPost, "/api/drafts", "")
	suite.decode(rec, &d)
	base := "/api/drafts/" + d.ID
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, base+"/lines", `{"productId": 11}`).Code)
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPut, base+"/header", `{"clientId": 1}`).Code)

	rec = suite.do(http.MethodPost, base+"/submit", "")
	suite.Equal(http.StatusBadRequest, rec.Code)
	suite.JSONEq(`{"error": "Cliente inhabilitado"}`, rec.Body.String())

	rec = suite.do(http.MethodGet, base, "")
	suite.Equal(http.StatusOK, rec.Code)
}

func (suite *httpFlowSuite) TestBadInput() {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "malformed draft id", method: http.MethodGet, path: "/api/drafts/nope", wantStatus: http.StatusBadRequest},
		{
			name:       "unknown draft",
			method:     http.MethodGet,
			path:       "/api/drafts/7f1b1c1e-2a4b-4c1d-9e8f-000000000000",
			wantStatus: http.StatusNotFound,
		},
		{name: "bad order id", method: http.MethodGet, path: "/api/orders/abc/lines", wantStatus: http.StatusBadRequest},
		{name: "bad category", method: http.MethodGet, path: "/api/catalog/products?categoryId=x", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			rec := suite.do(tt.method, tt.path, tt.body)
			suite.Equal(tt.wantStatus, rec.Code)
		})
	}
}

func (suite *httpFlowSuite) TestLineEditRejections() {
	var d struct {
		ID string `json:"id"`
	}
	suite.decode(suite.do(http.MethodPost, "/api/drafts", ""), &d)
	base := "/api/drafts/" + d.ID
	suite.Require().Equal(http.StatusOK, suite.do(http.MethodPost, base+"/lines", `{"productId": 10}`).Code)

	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPost, base+"/lines", `{"productId": 999}`).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPatch, base+"/lines/0", `{"field": "quantity", "value": "0"}`).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPatch, base+"/lines/0", `{"field": "color", "value": "red"}`).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPatch, base+"/lines/3", `{"field": "quantity", "value": "1"}`).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPut, base+"/header", `{"deliveryDate": "someday"}`).Code)
	suite.Equal(http.StatusBadRequest, suite.do(http.MethodPut, base+"/header", `{"deliveryType": "drone"}`).Code)

	suite.Equal(http.StatusNoContent, suite.do(http.MethodDelete, base, "").Code)
	suite.Equal(http.StatusNotFound, suite.do(http.MethodGet, base, "").Code)
}

func (suite *httpFlowSuite) TestCatalog() {
	rec := suite.do(http.MethodGet, "/api/catalog/products", "")
	suite.Require().Equal(http.StatusOK, rec.Code)
	suite.JSONEq(`{"filtersApplied": false, "products": []}`, rec.Body.String())

	rec = suite.do(http.MethodGet, "/api/catalog/products?q=brahma", "")
	suite.Contains(rec.Body.String(), `"filtersApplied":true`)
	suite.Contains(rec.Body.String(), `"Brahma Lata"`)

	rec = suite.do(http.MethodGet, "/api/catalog/couriers", "")
	var couriers []struct {
		ID       int64  `json:"id"`
		FullName string `json:"fullName"`
	}
	suite.decode(rec, &couriers)
	suite.Require().Len(couriers, 1)
	suite.Equal(int64(5), couriers[0].ID)

	rec = suite.do(http.MethodGet, "/api/catalog/brands", "")
	suite.JSONEq(`[]`, rec.Body.String())

	rec = suite.do(http.MethodGet, "/api/catalog/clients?q=pepe", "")
	suite.Contains(rec.Body.String(), `"displayName":"Almacen Don Pepe"`)
}

func TestBearerIsForwarded(t *testing.T) {
	backend := &fakeBackend{}
	api := httptest.NewServer(backend.handler())
	defer api.Close()

	client := restapi.NewClient(api.URL, restapi.WithToken("service-token"))
	orderSvc := ordersvc.MustNewOrderService(ordersvc.WithOrderClient(client))
	catalogSvc := catalogsvc.MustNewCatalogService(catalogsvc.WithCatalogClient(client))
	draftSvc := draftsvc.MustNewDraftService(
		draftsvc.WithRepository(memory.NewDraftRepository()),
		draftsvc.WithCatalog(catalogSvc),
		draftsvc.WithOrderFetcher(client),
		draftsvc.WithSubmitter(orderSvc),
	)
	transport := httptransport.NewHTTPTransport(catalogSvc, draftSvc, orderSvc, currency.CurrencyARS)
	transport.RegisterRoutes()

	req := httptest.NewRequest(http.MethodGet, "/api/orders?refresh=true", nil)
	req.Header.Set("Authorization", "Bearer operator-token")
	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, backend.authHeader, 1)
	assert.Equal(t, "Bearer operator-token", backend.authHeader[0])
}

func TestDisplayCurrency(t *testing.T) {
	backend := &fakeBackend{orders: []map[string]any{
		{"id": 401, "client_name": "Kiosco Central", "status": "Pendiente", "total_amount": 1500},
	}}
	api := httptest.NewServer(backend.handler())
	defer api.Close()

	client := restapi.NewClient(api.URL, restapi.WithToken("service-token"))
	orderSvc := ordersvc.MustNewOrderService(ordersvc.WithOrderClient(client))
	catalogSvc := catalogsvc.MustNewCatalogService(catalogsvc.WithCatalogClient(client))
	draftSvc := draftsvc.MustNewDraftService(
		draftsvc.WithRepository(memory.NewDraftRepository()),
		draftsvc.WithCatalog(catalogSvc),
		draftsvc.WithOrderFetcher(client),
		draftsvc.WithSubmitter(orderSvc),
	)
	transport := httptransport.NewHTTPTransport(catalogSvc, draftSvc, orderSvc, currency.MustParseCurrency("usd"))
	transport.RegisterRoutes()

	rec := httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/drafts", nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	var d struct {
		TotalDisplay string `json:"totalDisplay"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "USD 0.00", d.TotalDisplay)

	rec = httptest.NewRecorder()
	transport.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders?refresh=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []struct {
		TotalDisplay string `json:"totalDisplay"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, "USD 1500.00", orders[0].TotalDisplay)
}

func (suite *httpFlowSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	suite.desk.ServeHTTP(rec, req)

	return rec
}

func (suite *httpFlowSuite) decode(rec *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}
