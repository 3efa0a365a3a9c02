package pricing

import (
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	DefaultFreeShippingThreshold = decimal.NewFromInt(100)
	DefaultShippingCost          = decimal.NewFromInt(7)
)

var hundred = decimal.NewFromInt(100)

// Calculator 購物車 / 結帳 / 訂單共用的金額計算，無狀態
type Calculator struct {
	FreeShippingThreshold decimal.Decimal
	ShippingCost          decimal.Decimal
}

func NewCalculator(freeShippingThreshold, shippingCost decimal.Decimal) Calculator {
	return Calculator{
		FreeShippingThreshold: freeShippingThreshold,
		ShippingCost:          shippingCost,
	}
}

func DefaultCalculator() Calculator {
	return NewCalculator(DefaultFreeShippingThreshold, DefaultShippingCost)
}

// Summary 金額明細
type Summary struct {
	Subtotal             decimal.Decimal  `json:"subtotal"`
	Discount             decimal.Decimal  `json:"discount"`
	Shipping             decimal.Decimal  `json:"shipping"`
	Total                decimal.Decimal  `json:"total"`
	FreeShipping         bool             `json:"freeShipping"`
	AmountToFreeShipping decimal.Decimal  `json:"amountToFreeShipping"`
	Promo                *model.PromoCode `json:"promo,omitempty"`
}

func Subtotal(items []model.CartItem) decimal.Decimal {
	amount := decimal.Zero
	for i := range items {
		amount = amount.Add(items[i].LineTotal())
	}
	return amount
}

// Discount 折扣金額，限制在 [0, subtotal]
// free_shipping 不產生折扣金額，由運費計算處理
func (c Calculator) Discount(subtotal decimal.Decimal, promo *model.PromoCode) decimal.Decimal {
	if promo == nil {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.Kind {
	case model.PromoKindPercentage:
		discount = subtotal.Mul(promo.Value).Div(hundred)
	case model.PromoKindFixed:
		discount = promo.Value
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	return discount
}

func (c Calculator) IsFreeShipping(subtotal, discount decimal.Decimal, promo *model.PromoCode) bool {
	if promo != nil && promo.Kind == model.PromoKindFreeShipping {
		return true
	}
	return subtotal.Sub(discount).GreaterThanOrEqual(c.FreeShippingThreshold)
}

func (c Calculator) Shipping(subtotal, discount decimal.Decimal, promo *model.PromoCode) decimal.Decimal {
	if c.IsFreeShipping(subtotal, discount, promo) {
		return decimal.Zero
	}
	return c.ShippingCost
}

func (c Calculator) Total(subtotal, discount, shipping decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(discount).Add(shipping)
}

// Summarize promo 可為 nil
func (c Calculator) Summarize(items []model.CartItem, promo *model.PromoCode) Summary {
	subtotal := Subtotal(items)
	discount := c.Discount(subtotal, promo)
	shipping := c.Shipping(subtotal, discount, promo)

	toFree := decimal.Zero
	if !shipping.IsZero() {
		toFree = c.FreeShippingThreshold.Sub(subtotal.Sub(discount))
	}

	return Summary{
		Subtotal:             subtotal,
		Discount:             discount,
		Shipping:             shipping,
		Total:                c.Total(subtotal, discount, shipping),
		FreeShipping:         shipping.IsZero(),
		AmountToFreeShipping: toFree,
		Promo:                promo,
	}
}
