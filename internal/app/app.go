package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/iauditrepo"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/repositories/audit"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/repositories/draft/memory"
	"github.com/corray333/backend-labs/orderdesk/internal/dal/restapi"
	"github.com/corray333/backend-labs/orderdesk/internal/otel"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/currency"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/draftsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/ordersvc"
	grpctransport "github.com/corray333/backend-labs/orderdesk/internal/transport/grpc"
	httptransport "github.com/corray333/backend-labs/orderdesk/internal/transport/http"
	"github.com/corray333/backend-labs/orderdesk/internal/worker/refresh"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const preloadTimeout = 30 * time.Second

// App represents the application.
type App struct {
	catalogSvc    *catalogsvc.CatalogService
	orderSvc      *ordersvc.OrderService
	transport     *httptransport.HTTPTransport
	grpcTransport *grpctransport.GRPCTransport
	refresher     *refresh.Worker
	otel          *otel.OtelController
	rabbitClient  *rabbitmq.Client
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	apiClient := restapi.MustNewClient()

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithCatalogClient(apiClient),
		catalogsvc.WithClientSearchLimit(viper.GetInt("catalog.client_search_limit")),
	)

	var (
		rabbitClient *rabbitmq.Client
		auditor      iauditrepo.IAuditorRepository
	)
	if viper.GetBool("audit.enabled") {
		rabbitClient = rabbitmq.MustNewClient()
		auditor = audit.NewAuditRabbitMQRepository(rabbitClient, viper.GetString("audit.queue"))
	}

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderClient(apiClient),
		ordersvc.WithProductRefresher(catalogSvc),
		ordersvc.WithAuditor(auditor),
	)

	draftSvc := draftsvc.MustNewDraftService(
		draftsvc.WithRepository(memory.NewDraftRepository()),
		draftsvc.WithCatalog(catalogSvc),
		draftsvc.WithOrderFetcher(apiClient),
		draftsvc.WithSubmitter(orderSvc),
	)

	display := currency.MustParseCurrency(viper.GetString("display.currency"))
	transport := httptransport.NewHTTPTransport(catalogSvc, draftSvc, orderSvc, display)
	transport.RegisterRoutes()

	return &App{
		catalogSvc:    catalogSvc,
		orderSvc:      orderSvc,
		transport:     transport,
		grpcTransport: grpctransport.NewGRPCTransport(),
		refresher:     refresh.NewWorker(catalogSvc, orderSvc, 0),
		otel:          otelController,
		rabbitClient:  rabbitClient,
	}
}

// preload fills the catalog and order caches before serving. Failures are
// logged and leave the affected data empty until the next refresh.
func (a *App) preload() {
	ctx, cancel := context.WithTimeout(context.Background(), preloadTimeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		a.catalogSvc.LoadAll(ctx)
		return nil
	})
	g.Go(func() error {
		if err := a.orderSvc.RefreshOrders(ctx); err != nil {
			slog.Warn("Failed to preload orders", "error", err)
		}
		return nil
	})
	_ = g.Wait()
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := a.grpcTransport.Run(); err != nil {
			slog.Error("gRPC server error", "error", err)
		}
	}()

	a.preload()
	a.grpcTransport.SetServing(true)

	go a.refresher.Start(context.Background())

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")
	a.grpcTransport.SetServing(false)
	a.refresher.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.grpcTransport.Shutdown(ctx); err != nil {
		slog.Error("gRPC server shutdown error", "error", err)
	} else {
		slog.Info("gRPC server stopped gracefully")
	}

	if a.rabbitClient != nil {
		if err := a.rabbitClient.Close(); err != nil {
			slog.Error("RabbitMQ connection close error", "error", err)
		} else {
			slog.Info("RabbitMQ connection closed gracefully")
		}
	}

	if err := a.otel.Shutdown(ctx); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
