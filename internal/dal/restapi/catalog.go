package restapi

import (
	"context"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/samber/lo"
)

// ListClients returns GET /clients.
func (c *Client) ListClients(ctx context.Context) ([]client.Client, error) {
	dtos, err := getList[clientDTO](ctx, c, "/clients")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d clientDTO, _ int) (client.Client, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}

// ListProducts returns GET /products.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	dtos, err := getList[productDTO](ctx, c, "/products")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d productDTO, _ int) (product.Product, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}

// ListCouriers returns GET /repartidores.
func (c *Client) ListCouriers(ctx context.Context) ([]courier.Courier, error) {
	dtos, err := getList[courierDTO](ctx, c, "/repartidores")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d courierDTO, _ int) (courier.Courier, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}

// ListCategories returns GET /rubros.
func (c *Client) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	dtos, err := getList[categoryDTO](ctx, c, "/rubros")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d categoryDTO, _ int) (catalog.Category, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}

// ListBrands returns GET /marcas.
func (c *Client) ListBrands(ctx context.Context) ([]catalog.Brand, error) {
	dtos, err := getList[brandDTO](ctx, c, "/marcas")
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(dtos, func(d brandDTO, _ int) (catalog.Brand, bool) {
		return d.toModel(), d.ID != 0
	}), nil
}
