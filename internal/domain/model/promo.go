package model

import "github.com/shopspring/decimal"

type PromoKind string

const (
	PromoKindPercentage   PromoKind = "percentage"
	PromoKindFixed        PromoKind = "fixed"
	PromoKindFreeShipping PromoKind = "free_shipping"
)

// PromoCode 靜態折扣碼，不屬於任何 store
type PromoCode struct {
	Code        string          `json:"code"`
	Kind        PromoKind       `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Description string          `json:"description"`
	MinOrder    decimal.Decimal `json:"minOrder"`
}
