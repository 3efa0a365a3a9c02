package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 訂單狀態
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"   // 待確認
	OrderStatusConfirmed OrderStatus = "confirmed" // 已確認
	OrderStatusShipping  OrderStatus = "shipping"  // 配送中
	OrderStatusShipped   OrderStatus = "shipped"   // 已送達
	OrderStatusCancelled OrderStatus = "cancelled" // 已取消
)

const PaymentMethodCashOnDelivery = "cash_on_delivery"

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipping, OrderStatusShipped, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal shipped 與 cancelled 之後不再有合法轉換
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// 訂單建立後只有 Status, StatusHistory, UpdatedAt 會變動
type Order struct {
	ID              string          `json:"id"`
	Items           []OrderItem     `json:"items"`
	CustomerInfo    CustomerInfo    `json:"customerInfo"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Shipping        decimal.Decimal `json:"shipping"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	StatusHistory   []StatusEntry   `json:"statusHistory"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type OrderItem struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selectedColor"`
	Image         string          `json:"image"`
}

type CustomerInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
}

type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required,governorate"`
	PostalCode string `json:"postalCode"`
	Notes      string `json:"notes"`
}

// StatusEntry 狀態歷程，只能附加
type StatusEntry struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note"`
}

// Clone 深拷貝，避免呼叫端改到 store 內部的 slice
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	c.StatusHistory = append([]StatusEntry(nil), o.StatusHistory...)
	return &c
}

// OrderItemFromCartItem 建立訂單快照
func OrderItemFromCartItem(item CartItem) OrderItem {
	return OrderItem{
		ID:            item.ID,
		Name:          item.Name,
		Price:         item.Price,
		Quantity:      item.Quantity,
		SelectedColor: item.SelectedColor,
		Image:         item.Image,
	}
}
