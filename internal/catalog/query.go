package catalog

import (
	"sort"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOption string

const (
	SortDefault   SortOption = "default"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortNameAsc   SortOption = "name-asc"
	SortRating    SortOption = "rating"
)

// IsValid 空字串視為 default
func (s SortOption) IsValid() bool {
	switch s {
	case "", SortDefault, SortPriceAsc, SortPriceDesc, SortNameAsc, SortRating:
		return true
	default:
		return false
	}
}

/*
Query 商品列表的篩選條件，零值代表不篩選

	Search   : 名稱、描述、分類包含關鍵字（不分大小寫）
	Category : 分類 id，"all" 等同空字串
	Brand    : 品牌 slug，"all" 等同空字串
	Price    : 價格區間 id，未知的 id 不篩選
	MinPrice / MaxPrice : 額外的價格上下限，包含
*/
type Query struct {
	Search   string
	Category string
	Brand    string
	Price    string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	NewOnly  bool
	Sort     SortOption
}

func isAll(v string) bool {
	return v == "" || v == "all"
}

func (q Query) match(p *model.Product, priceRange *PriceRange) bool {
	if q.Search != "" {
		needle := strings.ToLower(strings.TrimSpace(q.Search))
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			return false
		}
	}
	if !isAll(q.Category) && p.Category != q.Category {
		return false
	}
	if !isAll(q.Brand) && BrandSlug(p.Brand) != q.Brand {
		return false
	}
	if priceRange != nil {
		if p.Price.LessThan(priceRange.Min) || (priceRange.Max != nil && p.Price.GreaterThan(*priceRange.Max)) {
			return false
		}
	}
	if q.MinPrice != nil && p.Price.LessThan(*q.MinPrice) {
		return false
	}
	if q.MaxPrice != nil && p.Price.GreaterThan(*q.MaxPrice) {
		return false
	}
	if q.NewOnly && !p.IsNew {
		return false
	}
	return true
}

// Search 依條件篩選並排序，結果為複本
// 預設排序：新品在前，其次依 id
func (c *Catalog) Search(q Query) []model.Product {
	var priceRange *PriceRange
	if !isAll(q.Price) {
		if pr, ok := c.PriceRangeByID(q.Price); ok {
			priceRange = &pr
		}
	}

	out := []model.Product{}
	for i := range c.products {
		if q.match(&c.products[i], priceRange) {
			out = append(out, cloneProduct(c.products[i]))
		}
	}
	sortProducts(out, q.Sort)
	return out
}

func sortProducts(products []model.Product, option SortOption) {
	switch option {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.LessThan(products[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price.GreaterThan(products[j].Price) })
	case SortNameAsc:
		// collator 不能跨 goroutine 共用
		col := collate.New(language.French)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Name, products[j].Name) < 0
		})
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	default:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].IsNew != products[j].IsNew {
				return products[i].IsNew
			}
			return products[i].ID < products[j].ID
		})
	}
}
