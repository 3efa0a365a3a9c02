package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/shopspring/decimal"
)

var (
	ErrPromoCodeEmpty    = errors.New("promo code is empty")
	ErrPromoCodeNotFound = errors.New("promo code does not exist or has expired")
	ErrPromoMinOrder     = errors.New("promo code requires a minimum order")
)

// PromoTable 靜態折扣碼表，key 為大寫 code
type PromoTable map[string]model.PromoCode

func DefaultPromoTable() PromoTable {
	return NewPromoTable(
		model.PromoCode{
			Code:        "FLORA10",
			Kind:        model.PromoKindPercentage,
			Value:       decimal.NewFromInt(10),
			Description: "10% de réduction",
			MinOrder:    decimal.Zero,
		},
		model.PromoCode{
			Code:        "FLORA20",
			Kind:        model.PromoKindPercentage,
			Value:       decimal.NewFromInt(20),
			Description: "20% de réduction",
			MinOrder:    decimal.NewFromInt(150),
		},
		model.PromoCode{
			Code:        "BIENVENUE",
			Kind:        model.PromoKindFixed,
			Value:       decimal.NewFromInt(15),
			Description: "15 DT de réduction",
			MinOrder:    decimal.NewFromInt(50),
		},
		model.PromoCode{
			Code:        "LIVRAISON",
			Kind:        model.PromoKindFreeShipping,
			Value:       decimal.Zero,
			Description: "Livraison gratuite",
			MinOrder:    decimal.Zero,
		},
	)
}

func NewPromoTable(codes ...model.PromoCode) PromoTable {
	t := make(PromoTable, len(codes))
	for _, c := range codes {
		t[normalizeCode(c.Code)] = c
	}
	return t
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup 不分大小寫
func (t PromoTable) Lookup(code string) (model.PromoCode, bool) {
	p, ok := t[normalizeCode(code)]
	return p, ok
}

// Validate 套用折扣碼前的檢查，通過才回傳 promo
func (t PromoTable) Validate(code string, subtotal decimal.Decimal) (*model.PromoCode, error) {
	if normalizeCode(code) == "" {
		return nil, ErrPromoCodeEmpty
	}
	promo, ok := t.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPromoCodeNotFound, normalizeCode(code))
	}
	if subtotal.LessThan(promo.MinOrder) {
		return nil, fmt.Errorf("%w of %s, current cart is %s", ErrPromoMinOrder, promo.MinOrder.StringFixed(2), subtotal.StringFixed(2))
	}
	return &promo, nil
}
