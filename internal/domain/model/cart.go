package model

import "github.com/shopspring/decimal"

// CartItem 購物車單行
// 唯一鍵為 (ID, SelectedColor)，SelectedColor 為空字串代表未選顏色
// 顯示欄位在加入購物車時從商品複製，不再參照 catalog
type CartItem struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Image         string          `json:"image"`
	Brand         string          `json:"brand"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selectedColor"`
}

func (c *CartItem) Matches(productID int, selectedColor string) bool {
	return c.ID == productID && c.SelectedColor == selectedColor
}

// LineTotal price * quantity
func (c *CartItem) LineTotal() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

func NewCartItem(product *Product, quantity int, selectedColor string) CartItem {
	return CartItem{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		Image:         product.Image,
		Brand:         product.Brand,
		Quantity:      quantity,
		SelectedColor: selectedColor,
	}
}
