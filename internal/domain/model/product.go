package model

import "github.com/shopspring/decimal"

// Product 商品目錄資料，唯讀，由 catalog 提供
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Colors      []string        `json:"colors"`
	Stock       int             `json:"stock"`
	IsNew       bool            `json:"isNew"`
	Rating      float64         `json:"rating"`
}

// HasColor 商品沒有顏色選項時只接受空字串
func (p *Product) HasColor(color string) bool {
	if len(p.Colors) == 0 {
		return color == ""
	}
	for _, c := range p.Colors {
		if c == color {
			return true
		}
	}
	return false
}
