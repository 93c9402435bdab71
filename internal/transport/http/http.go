package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/restapi"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/draft"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/order"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/orderitem"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/draftsvc"
	catalogapi "github.com/corray333/backend-labs/orderdesk/internal/transport/http/catalog"
	createorder "github.com/corray333/backend-labs/orderdesk/internal/transport/http/create_order"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/drafts"
	listorders "github.com/corray333/backend-labs/orderdesk/internal/transport/http/list_orders"
	markdelivered "github.com/corray333/backend-labs/orderdesk/internal/transport/http/mark_delivered"
	"github.com/corray333/backend-labs/orderdesk/pkg/http/middleware/trace"
	"github.com/corray333/backend-labs/orderdesk/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type catalogService interface {
	SearchClients(query string) []client.Client
	FilterProducts(filter catalogsvc.ProductFilter) catalogsvc.ProductResult
	AvailableBrands(categoryID *int64) []catalog.Brand
	Categories() []catalog.Category
	ActiveCouriers() []courier.Courier
	LoadAll(ctx context.Context)
}

type draftService interface {
	Start(ctx context.Context) (*draft.Draft, error)
	StartEdit(ctx context.Context, orderID int64) (*draft.Draft, error)
	Get(ctx context.Context, id uuid.UUID) (*draft.Draft, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, upd draftsvc.HeaderUpdate) (*draft.Draft, error)
	AddLine(ctx context.Context, id uuid.UUID, productID int64) (*draft.Draft, error)
	UpdateLine(ctx context.Context, id uuid.UUID, index int, field draft.Field, value string) (*draft.Draft, error)
	RemoveLine(ctx context.Context, id uuid.UUID, index int) (*draft.Draft, error)
	Validate(ctx context.Context, id uuid.UUID) (draft.ValidationErrors, error)
	Submit(ctx context.Context, id uuid.UUID) (order.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) error
}

type orderService interface {
	List(query order.ListQuery) []order.Order
	RefreshOrders(ctx context.Context) error
	LineDetail(ctx context.Context, id int64) ([]orderitem.Item, error)
	MarkDelivered(ctx context.Context, id int64) (order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	catalog catalogService
	drafts  draftService
	orders  orderService
}

// NewHTTPTransport renders money amounts in display.
func NewHTTPTransport(catalog catalogService, drafts draftService, orders orderService, display currency.Currency) *HTTPTransport {
	router := newRouter(display)
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		catalog: catalog,
		drafts:  drafts,
		orders:  orders,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (h *HTTPTransport) Handler() http.Handler {
	return h.router
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/clients", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.SearchClients(w, r, h.catalog)
			})
			r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.FilterProducts(w, r, h.catalog)
			})
			r.Get("/brands", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.ListBrands(w, r, h.catalog)
			})
			r.Get("/categories", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.ListCategories(w, r, h.catalog)
			})
			r.Get("/couriers", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.ListCouriers(w, r, h.catalog)
			})
			r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
				catalogapi.Refresh(w, r, h.catalog)
			})
		})

		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.startDraft)
			r.Post("/edit/{orderID}", h.startEdit)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.getDraft)
				r.Delete("/", h.cancelDraft)
				r.Put("/header", h.updateHeader)
				r.Post("/lines", h.addLine)
				r.Patch("/lines/{index}", h.updateLine)
				r.Delete("/lines/{index}", h.removeLine)
				r.Get("/validation", h.validateDraft)
				r.Post("/submit", h.submit)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.getOrders)
			r.Get("/{id}/lines", h.getOrderLines)
			r.Post("/{id}/delivered", h.markDelivered)
		})
	})
}

func (h *HTTPTransport) startDraft(w http.ResponseWriter, r *http.Request) {
	drafts.Start(w, r, h.drafts)
}

func (h *HTTPTransport) startEdit(w http.ResponseWriter, r *http.Request) {
	drafts.StartEdit(w, r, h.drafts)
}

func (h *HTTPTransport) getDraft(w http.ResponseWriter, r *http.Request) {
	drafts.Get(w, r, h.drafts)
}

func (h *HTTPTransport) cancelDraft(w http.ResponseWriter, r *http.Request) {
	drafts.Cancel(w, r, h.drafts)
}

func (h *HTTPTransport) updateHeader(w http.ResponseWriter, r *http.Request) {
	drafts.UpdateHeader(w, r, h.drafts)
}

func (h *HTTPTransport) addLine(w http.ResponseWriter, r *http.Request) {
	drafts.AddLine(w, r, h.drafts)
}

func (h *HTTPTransport) updateLine(w http.ResponseWriter, r *http.Request) {
	drafts.UpdateLine(w, r, h.drafts)
}

func (h *HTTPTransport) removeLine(w http.ResponseWriter, r *http.Request) {
	drafts.RemoveLine(w, r, h.drafts)
}

func (h *HTTPTransport) validateDraft(w http.ResponseWriter, r *http.Request) {
	drafts.Validate(w, r, h.drafts)
}

func (h *HTTPTransport) submit(w http.ResponseWriter, r *http.Request) {
	createorder.Submit(w, r, h.drafts)
}

func (h *HTTPTransport) getOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.orders)
}

func (h *HTTPTransport) getOrderLines(w http.ResponseWriter, r *http.Request) {
	listorders.ListLines(w, r, h.orders)
}

func (h *HTTPTransport) markDelivered(w http.ResponseWriter, r *http.Request) {
	markdelivered.MarkDelivered(w, r, h.orders)
}

// forwardBearer lets backend calls made for this request authenticate as the
// operator that sent it.
func forwardBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && strings.TrimSpace(token) != "" {
			r = r.WithContext(restapi.ContextWithToken(r.Context(), strings.TrimSpace(token)))
		}

		next.ServeHTTP(w, r)
	})
}

func displayCurrency(display currency.Currency) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(currency.ContextWithDisplay(r.Context(), display)))
		})
	}
}

func newRouter(display currency.Currency) *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(middleware.Recoverer)
	router.Use(forwardBearer)
	router.Use(displayCurrency(display))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
