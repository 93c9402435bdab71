package icatalogclient

import (
	"context"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
)

// CatalogClient reads the reference data served by the backend.
type CatalogClient interface {
	ListClients(ctx context.Context) ([]client.Client, error)
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListCouriers(ctx context.Context) ([]courier.Courier, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListBrands(ctx context.Context) ([]catalog.Brand, error)
}
