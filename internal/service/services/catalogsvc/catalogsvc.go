package catalogsvc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/corray333/backend-labs/orderdesk/internal/dal/interfaces/icatalogclient"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/product"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const defaultClientSearchLimit = 50

// CatalogService holds the last-known reference data used to compose orders.
// Each slice is refreshed independently and read without calling the backend.
type CatalogService struct {
	client      icatalogclient.CatalogClient
	searchLimit int

	mu         sync.RWMutex
	clients    []client.Client
	products   []product.Product
	couriers   []courier.Courier
	categories []catalog.Category
	brands     []catalog.Brand
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	s := &CatalogService{
		searchLimit: defaultClientSearchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		panic("catalog service requires a catalog client")
	}

	return s
}

// WithCatalogClient sets the backend client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCatalogClient(c icatalogclient.CatalogClient) option {
	return func(s *CatalogService) {
		s.client = c
	}
}

// WithClientSearchLimit caps the number of clients returned by a search.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithClientSearchLimit(limit int) option {
	return func(s *CatalogService) {
		if limit > 0 {
			s.searchLimit = limit
		}
	}
}

// LoadAll refreshes every slice concurrently. A failing slice is logged and
// keeps its previous contents, which are empty before the first success.
func (s *CatalogService) LoadAll(ctx context.Context) {
	refreshers := map[string]func(context.Context) error{
		"clients":    s.RefreshClients,
		"products":   s.RefreshProducts,
		"couriers":   s.RefreshCouriers,
		"categories": s.RefreshCategories,
		"brands":     s.RefreshBrands,
	}

	var g errgroup.Group
	for name, refresh := range refreshers {
		g.Go(func() error {
			if err := refresh(ctx); err != nil {
				slog.WarnContext(ctx, "Failed to refresh catalog", "catalog", name, "error", err)
			}

			return nil
		})
	}
	_ = g.Wait()
}

func (s *CatalogService) RefreshClients(ctx context.Context) error {
	clients, err := s.client.ListClients(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clients: %w", err)
	}

	return s.store(ctx, func() { s.clients = clients })
}

func (s *CatalogService) RefreshProducts(ctx context.Context) error {
	products, err := s.client.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	return s.store(ctx, func() { s.products = products })
}

func (s *CatalogService) RefreshCouriers(ctx context.Context) error {
	couriers, err := s.client.ListCouriers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list couriers: %w", err)
	}

	return s.store(ctx, func() { s.couriers = couriers })
}

func (s *CatalogService) RefreshCategories(ctx context.Context) error {
	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	return s.store(ctx, func() { s.categories = categories })
}

func (s *CatalogService) RefreshBrands(ctx context.Context) error {
	brands, err := s.client.ListBrands(ctx)
	if err != nil {
		return fmt.Errorf("failed to list brands: %w", err)
	}

	return s.store(ctx, func() { s.brands = brands })
}

// store applies a fetched result unless the caller gave up on it meanwhile.
func (s *CatalogService) store(ctx context.Context, apply func()) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("discarding refresh result: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	apply()

	return nil
}

// SearchClients matches query case-insensitively against name, tax id,
// address, phone, locality and id. An empty query matches everyone.
// Results keep catalog order and are capped at the search limit.
func (s *CatalogService) SearchClients(query string) []client.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	result := make([]client.Client, 0, min(len(s.clients), s.searchLimit))
	for _, c := range s.clients {
		if len(result) == s.searchLimit {
			break
		}
		if needle == "" || lo.SomeBy(c.SearchFields(), func(field string) bool {
			return containsFold(field, needle)
		}) {
			result = append(result, c)
		}
	}

	return result
}

// ProductFilter narrows the product list. Unset fields do not filter.
type ProductFilter struct {
	Query      string
	CategoryID *int64
	BrandID    *int64
}

// Empty reports whether no filter is set.
func (f ProductFilter) Empty() bool {
	return strings.TrimSpace(f.Query) == "" && f.CategoryID == nil && f.BrandID == nil
}

// ProductResult separates "no filters set" from "filters set, nothing matched".
type ProductResult struct {
	FiltersApplied bool              `json:"filtersApplied"`
	Products       []product.Product `json:"products"`
}

// FilterProducts AND-combines name-or-SKU, category and brand filters.
func (s *CatalogService) FilterProducts(filter ProductFilter) ProductResult {
	if filter.Empty() {
		return ProductResult{FiltersApplied: false, Products: []product.Product{}}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.Query))
	products := lo.Filter(s.products, func(p product.Product, _ int) bool {
		if needle != "" && !containsFold(p.Name, needle) && !containsFold(p.SKU, needle) {
			return false
		}
		if filter.CategoryID != nil && !p.InCategory(*filter.CategoryID) {
			return false
		}
		if filter.BrandID != nil && !p.OfBrand(*filter.BrandID) {
			return false
		}

		return true
	})

	return ProductResult{FiltersApplied: true, Products: products}
}

// AvailableBrands restricts brands to those with a product in the category.
// Without a category all brands are returned.
func (s *CatalogService) AvailableBrands(categoryID *int64) []catalog.Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if categoryID == nil {
		return snapshot(s.brands)
	}

	brandIDs := make(map[int64]struct{})
	for _, p := range s.products {
		if p.InCategory(*categoryID) && p.BrandID != nil {
			brandIDs[*p.BrandID] = struct{}{}
		}
	}

	return lo.Filter(s.brands, func(b catalog.Brand, _ int) bool {
		_, ok := brandIDs[b.ID]
		return ok
	})
}

// ActiveCouriers lists couriers that may take route deliveries.
func (s *CatalogService) ActiveCouriers() []courier.Courier {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Filter(s.couriers, func(c courier.Courier, _ int) bool {
		return c.IsActive()
	})
}

func (s *CatalogService) Categories() []catalog.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot(s.categories)
}

func (s *CatalogService) Products() []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot(s.products)
}

func (s *CatalogService) Client(id int64) (client.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.clients, func(c client.Client) bool {
		return c.ID == id
	})
}

func (s *CatalogService) Product(id int64) (product.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.products, func(p product.Product) bool {
		return p.ID == id
	})
}

func (s *CatalogService) Courier(id int64) (courier.Courier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return lo.Find(s.couriers, func(c courier.Courier) bool {
		return c.ID == id
	})
}

// containsFold expects needle already lower-cased.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// snapshot copies s, returning an empty slice rather than nil.
func snapshot[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}
