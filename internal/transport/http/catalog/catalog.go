package catalog

import (
	"context"
	"net/http"

	"github.com/corray333/backend-labs/orderdesk/internal/service/models/catalog"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/client"
	"github.com/corray333/backend-labs/orderdesk/internal/service/models/courier"
	"github.com/corray333/backend-labs/orderdesk/internal/service/services/catalogsvc"
	"github.com/corray333/backend-labs/orderdesk/internal/transport/http/respond"
)

type service interface {
	SearchClients(query string) []client.Client
	FilterProducts(filter catalogsvc.ProductFilter) catalogsvc.ProductResult
	AvailableBrands(categoryID *int64) []catalog.Brand
	Categories() []catalog.Category
	ActiveCouriers() []courier.Courier
	LoadAll(ctx context.Context)
}

type clientsQuery struct {
	Query string `schema:"q"`
}

type clientView struct {
	client.Client
	DisplayName string `json:"displayName"`
}

func SearchClients(w http.ResponseWriter, r *http.Request, service service) {
	var query clientsQuery
	if err := respond.DecodeQuery(r, &query); err != nil {
		respond.Error(w, r, err)

		return
	}

	clients := service.SearchClients(query.Query)
	views := make([]clientView, 0, len(clients))
	for _, c := range clients {
		views = append(views, clientView{Client: c, DisplayName: c.DisplayName()})
	}

	respond.JSON(w, r, http.StatusOK, views)
}

type productsQuery struct {
	Query      string `schema:"q"`
	CategoryID *int64 `schema:"categoryId"`
	BrandID    *int64 `schema:"brandId"`
}

// FilterProducts answers with filtersApplied=false and no products when no
// filter is set, so the UI can tell it apart from an empty match.
func FilterProducts(w http.ResponseWriter, r *http.Request, service service) {
	var query productsQuery
	if err := respond.DecodeQuery(r, &query); err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, service.FilterProducts(catalogsvc.ProductFilter{
		Query:      query.Query,
		CategoryID: query.CategoryID,
		BrandID:    query.BrandID,
	}))
}

type brandsQuery struct {
	CategoryID *int64 `schema:"categoryId"`
}

func ListBrands(w http.ResponseWriter, r *http.Request, service service) {
	var query brandsQuery
	if err := respond.DecodeQuery(r, &query); err != nil {
		respond.Error(w, r, err)

		return
	}

	respond.JSON(w, r, http.StatusOK, service.AvailableBrands(query.CategoryID))
}

func ListCategories(w http.ResponseWriter, r *http.Request, service service) {
	respond.JSON(w, r, http.StatusOK, service.Categories())
}

type courierView struct {
	courier.Courier
	FullName string `json:"fullName"`
}

// ListCouriers lists only couriers that can be assigned.
func ListCouriers(w http.ResponseWriter, r *http.Request, service service) {
	couriers := service.ActiveCouriers()
	views := make([]courierView, 0, len(couriers))
	for _, c := range couriers {
		views = append(views, courierView{Courier: c, FullName: c.FullName()})
	}

	respond.JSON(w, r, http.StatusOK, views)
}

func Refresh(w http.ResponseWriter, r *http.Request, service service) {
	service.LoadAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
