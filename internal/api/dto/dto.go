package dto

import (
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/shopspring/decimal"
)

type AddCartItemDTO struct {
	ProductID     int    `json:"productId" validate:"required,gt=0"`
	Quantity      int    `json:"quantity" validate:"required,gte=1"`
	SelectedColor string `json:"selectedColor"`
}

// UpdateCartItemDTO quantity <= 0 移除該行
type UpdateCartItemDTO struct {
	Quantity      int    `json:"quantity"`
	SelectedColor string `json:"selectedColor"`
}

type CartDTO struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total decimal.Decimal  `json:"total"`
}

type CartSummaryDTO struct {
	pricing.Summary
	PromoError string `json:"promoError,omitempty"`
}

type CheckoutDTO struct {
	CustomerInfo    model.CustomerInfo    `json:"customerInfo"`
	ShippingAddress model.ShippingAddress `json:"shippingAddress"`
}

// Normalize 去掉前後空白再驗證
func (c *CheckoutDTO) Normalize() {
	ci := &c.CustomerInfo
	ci.FirstName = strings.TrimSpace(ci.FirstName)
	ci.LastName = strings.TrimSpace(ci.LastName)
	ci.Email = strings.TrimSpace(ci.Email)
	ci.Phone = strings.TrimSpace(ci.Phone)

	sa := &c.ShippingAddress
	sa.Address = strings.TrimSpace(sa.Address)
	sa.City = strings.TrimSpace(sa.City)
	sa.State = strings.TrimSpace(sa.State)
	sa.PostalCode = strings.TrimSpace(sa.PostalCode)
	sa.Notes = strings.TrimSpace(sa.Notes)
}

type UpdateStatusDTO struct {
	Status model.OrderStatus `json:"status" validate:"required"`
	Note   string            `json:"note"`
}

type CancelOrderDTO struct {
	Cancelled bool         `json:"cancelled"`
	Order     *model.Order `json:"order,omitempty"`
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Rule
}

// CheckoutResultDTO Warning 不為空代表訂單已成立但購物車沒清掉
type CheckoutResultDTO struct {
	Order   *model.Order `json:"order"`
	Warning string       `json:"warning,omitempty"`
}

// CustomerIdentityDTO 顧客操作自己的訂單時需帶的姓名，規則同 TrackOrder
type CustomerIdentityDTO struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (c *CustomerIdentityDTO) Normalize() {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
}
