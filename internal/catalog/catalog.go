package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	ErrDuplicateProduct  = errors.New("duplicate product id")
	ErrInvalidProduct    = errors.New("invalid product")
	ErrInvalidPriceRange = errors.New("invalid price range")
)

type Category struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// yaml 用的中介結構，價格以字串保存避免浮點誤差
type productRecord struct {
	ID          int      `yaml:"id"`
	Name        string   `yaml:"name"`
	Price       string   `yaml:"price"`
	Category    string   `yaml:"category"`
	Brand       string   `yaml:"brand"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Colors      []string `yaml:"colors"`
	Stock       int      `yaml:"stock"`
	IsNew       bool     `yaml:"isNew"`
	Rating      float64  `yaml:"rating"`
}

type Brand struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// PriceRange 價格區間，Max 為 nil 代表沒有上限，兩端都包含
type PriceRange struct {
	ID   string           `json:"id"`
	Name string           `json:"name"`
	Min  decimal.Decimal  `json:"min"`
	Max  *decimal.Decimal `json:"max"`
}

type priceRangeRecord struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Min  string `yaml:"min"`
	Max  string `yaml:"max"`
}

type catalogFile struct {
	Products    []productRecord    `yaml:"products"`
	Categories  []Category         `yaml:"categories"`
	Brands      []Brand            `yaml:"brands"`
	PriceRanges []priceRangeRecord `yaml:"priceRanges"`
}

// Catalog 唯讀商品目錄，載入後不再變動，可共用於多個 goroutine
type Catalog struct {
	products    []model.Product
	byID        map[int]int
	categories  []Category
	brands      []Brand
	priceRanges []PriceRange
}

// BrandSlug 品牌名稱轉成篩選用的 id，例如 "Flora Beauty" -> "flora-beauty"
func BrandSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{
		products:   make([]model.Product, 0, len(file.Products)),
		byID:       make(map[int]int, len(file.Products)),
		categories: file.Categories,
		brands:     file.Brands,
	}
	for _, rec := range file.Products {
		if rec.ID <= 0 || strings.TrimSpace(rec.Name) == "" {
			return nil, fmt.Errorf("%w: id %d", ErrInvalidProduct, rec.ID)
		}
		if _, ok := c.byID[rec.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateProduct, rec.ID)
		}
		price, err := decimal.NewFromString(rec.Price)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: id %d price %q", ErrInvalidProduct, rec.ID, rec.Price)
		}

		c.byID[rec.ID] = len(c.products)
		c.products = append(c.products, model.Product{
			ID:          rec.ID,
			Name:        rec.Name,
			Price:       price,
			Category:    rec.Category,
			Brand:       rec.Brand,
			Description: rec.Description,
			Image:       rec.Image,
			Colors:      append([]string{}, rec.Colors...),
			Stock:       rec.Stock,
			IsNew:       rec.IsNew,
			Rating:      rec.Rating,
		})
	}

	// 沒有宣告分類時由商品推導
	if len(c.categories) == 0 {
		seen := map[string]bool{}
		for _, p := range c.products {
			if p.Category != "" && !seen[p.Category] {
				seen[p.Category] = true
				c.categories = append(c.categories, Category{ID: p.Category, Name: p.Category})
			}
		}
		sort.Slice(c.categories, func(i, j int) bool { return c.categories[i].ID < c.categories[j].ID })
	}

	if len(c.brands) == 0 {
		seen := map[string]bool{}
		for _, p := range c.products {
			slug := BrandSlug(p.Brand)
			if slug != "" && !seen[slug] {
				seen[slug] = true
				c.brands = append(c.brands, Brand{ID: slug, Name: p.Brand})
			}
		}
		sort.Slice(c.brands, func(i, j int) bool { return c.brands[i].ID < c.brands[j].ID })
	}

	for _, rec := range file.PriceRanges {
		pr, err := parsePriceRange(rec)
		if err != nil {
			return nil, err
		}
		c.priceRanges = append(c.priceRanges, pr)
	}
	return c, nil
}

func parsePriceRange(rec priceRangeRecord) (PriceRange, error) {
	if rec.ID == "" {
		return PriceRange{}, fmt.Errorf("%w: price range without id", ErrInvalidPriceRange)
	}
	pr := PriceRange{ID: rec.ID, Name: rec.Name, Min: decimal.Zero}
	if rec.Min != "" {
		lo, err := decimal.NewFromString(rec.Min)
		if err != nil {
			return PriceRange{}, fmt.Errorf("%w: %s min %q", ErrInvalidPriceRange, rec.ID, rec.Min)
		}
		pr.Min = lo
	}
	if rec.Max != "" {
		hi, err := decimal.NewFromString(rec.Max)
		if err != nil || hi.LessThan(pr.Min) {
			return PriceRange{}, fmt.Errorf("%w: %s max %q", ErrInvalidPriceRange, rec.ID, rec.Max)
		}
		pr.Max = &hi
	}
	return pr, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Default 內嵌的示範目錄
func Default() *Catalog {
	c, err := Load(strings.NewReader(string(defaultCatalog)))
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

func cloneProduct(p model.Product) model.Product {
	p.Colors = append([]string{}, p.Colors...)
	return p
}

func (c *Catalog) Products() []model.Product {
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, cloneProduct(p))
	}
	return out
}

func (c *Catalog) ProductByID(id int) (*model.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	p := cloneProduct(c.products[i])
	return &p, true
}

// ByCategory 空字串或 "all" 回傳全部
func (c *Catalog) ByCategory(category string) []model.Product {
	if category == "" || category == "all" {
		return c.Products()
	}
	var out []model.Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, cloneProduct(p))
		}
	}
	return out
}

func (c *Catalog) Categories() []Category {
	return append([]Category{}, c.categories...)
}

func (c *Catalog) Brands() []Brand {
	return append([]Brand{}, c.brands...)
}

func (c *Catalog) PriceRanges() []PriceRange {
	out := make([]PriceRange, 0, len(c.priceRanges))
	for _, pr := range c.priceRanges {
		if pr.Max != nil {
			hi := *pr.Max
			pr.Max = &hi
		}
		out = append(out, pr)
	}
	return out
}

// PriceRangeByID 找不到回傳 false
func (c *Catalog) PriceRangeByID(id string) (PriceRange, bool) {
	for _, pr := range c.priceRanges {
		if pr.ID == id {
			return pr, true
		}
	}
	return PriceRange{}, false
}
