package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/rj/api"
	"github.com/shopspring/decimal"
)

// ProductCatalog 商品目錄唯讀查詢
type ProductCatalog interface {
	Products() []model.Product
	ProductByID(id int) (*model.Product, bool)
	Search(q catalog.Query) []model.Product
	Categories() []catalog.Category
	Brands() []catalog.Brand
	PriceRanges() []catalog.PriceRange
}

var _ ProductCatalog = (*catalog.Catalog)(nil)

type ProductHandler struct {
	catalog ProductCatalog
}

func NewProductHandler(c ProductCatalog) *ProductHandler {
	if c == nil {
		panic("catalog cannot be nil")
	}
	return &ProductHandler{catalog: c}
}

func decimalQuery(values url.Values, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidQuery, name, raw)
	}
	return &d, nil
}

/*
ParseProductQuery 商品列表的 query string

	search, category, brand, price(價格區間 id), minPrice, maxPrice, isNew, sort
	未知的 sort 視為 default，未知的價格區間不篩選
*/
func ParseProductQuery(values url.Values) (catalog.Query, error) {
	q := catalog.Query{
		Search:   strings.TrimSpace(values.Get("search")),
		Category: values.Get("category"),
		Brand:    values.Get("brand"),
		Price:    values.Get("price"),
		Sort:     catalog.SortOption(values.Get("sort")),
	}
	if !q.Sort.IsValid() {
		q.Sort = catalog.SortDefault
	}

	var err error
	if q.MinPrice, err = decimalQuery(values, "minPrice"); err != nil {
		return catalog.Query{}, err
	}
	if q.MaxPrice, err = decimalQuery(values, "maxPrice"); err != nil {
		return catalog.Query{}, err
	}
	if q.MinPrice != nil && q.MaxPrice != nil && q.MaxPrice.LessThan(*q.MinPrice) {
		return catalog.Query{}, fmt.Errorf("%w: maxPrice < minPrice", ErrInvalidQuery)
	}

	if raw := values.Get("isNew"); raw != "" {
		q.NewOnly, err = strconv.ParseBool(raw)
		if err != nil {
			return catalog.Query{}, fmt.Errorf("%w: isNew=%q", ErrInvalidQuery, raw)
		}
	}
	return q, nil
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := ParseProductQuery(r.URL.Query())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.catalog.Search(q), nil)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	product, ok := h.catalog.ProductByID(id)
	if !ok {
		writeServiceError(w, ErrProductNotFound)
		return
	}
	api.SuccessJSON(w, product, nil)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.catalog.Categories(), nil)
}

func (h *ProductHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.catalog.Brands(), nil)
}

func (h *ProductHandler) ListPriceRanges(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.catalog.PriceRanges(), nil)
}
