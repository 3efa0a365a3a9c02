package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/util"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	OrderStorageKey = "flora-orders"

	NoteOrderCreated        = "created"
	NoteCancelledByCustomer = "cancelled by customer"

	maxOrderIDAttempts = 5
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotExist     = errors.New("order is not exist")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrOrderIDExhausted  = errors.New("failed to generate unique order id")
)

// 合法的狀態轉換
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusConfirmed, model.OrderStatusCancelled},
	model.OrderStatusConfirmed: {model.OrderStatusShipping},
	model.OrderStatusShipping:  {model.OrderStatusShipped},
}

func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type OrderRequest struct {
	CartItems       []model.CartItem
	CustomerInfo    model.CustomerInfo
	ShippingAddress model.ShippingAddress
}

type IOrderService interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*model.Order, error)
	GetOrderByID(id string) *model.Order
	TrackOrder(orderNumber, firstName, lastName string) *model.Order
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus, note string) error
	CancelOrder(ctx context.Context, id string) (bool, error)
	GetAllOrders() []model.Order
	GetStatusDetails(status model.OrderStatus) (model.StatusDetails, bool)
}

// OrderService 訂單清單，新的在前
// 訂單建立後只有狀態欄位會變動，金額不再重算
type OrderService struct {
	mu                sync.RWMutex
	orders            []*model.Order
	storage           storage.Storage
	calculator        pricing.Calculator
	logger            *zerolog.Logger
	now               func() time.Time
	generateID        func(time.Time) (string, error)
	strictTransitions bool
}

type OrderServiceOption func(*OrderService)

// WithPermissiveTransitions 不檢查狀態轉換，只拒絕未知狀態
func WithPermissiveTransitions() OrderServiceOption {
	return func(o *OrderService) {
		o.strictTransitions = false
	}
}

func WithClock(now func() time.Time) OrderServiceOption {
	return func(o *OrderService) {
		o.now = now
	}
}

func WithOrderIDGenerator(gen func(time.Time) (string, error)) OrderServiceOption {
	return func(o *OrderService) {
		o.generateID = gen
	}
}

func NewOrderService(ctx context.Context, s storage.Storage, calculator pricing.Calculator, logger *zerolog.Logger, opts ...OrderServiceOption) *OrderService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	o := &OrderService{
		orders:            []*model.Order{},
		storage:           s,
		calculator:        calculator,
		logger:            logger,
		now:               time.Now,
		generateID:        util.GenerateOrderID,
		strictTransitions: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	var orders []*model.Order
	found, err := storage.LoadJSON(ctx, s, OrderStorageKey, &orders)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("key", OrderStorageKey).Msg("saved orders unreadable, starting with empty order list")
	case found:
		for _, order := range orders {
			if order != nil {
				o.orders = append(o.orders, order)
			}
		}
	}
	return o
}

// commit 需持有寫鎖
func (o *OrderService) commit(ctx context.Context, next []*model.Order) error {
	if err := storage.SaveJSON(ctx, o.storage, OrderStorageKey, next); err != nil {
		o.logger.Error().Err(err).Msg("failed to persist orders")
		return err
	}
	o.orders = next
	return nil
}

func (o *OrderService) indexOf(id string) int {
	for i, order := range o.orders {
		if order.ID == id {
			return i
		}
	}
	return -1
}

func (o *OrderService) newOrderID(now time.Time) (string, error) {
	for i := 0; i < maxOrderIDAttempts; i++ {
		id, err := o.generateID(now)
		if err != nil {
			return "", err
		}
		if o.indexOf(id) < 0 {
			return id, nil
		}
		o.logger.Warn().Str("order_id", id).Msg("order id collision, regenerating")
	}
	return "", ErrOrderIDExhausted
}

/*
CreateOrder 將購物車快照成訂單

	subtotal = sum(price * quantity)
	shipping = 0 (subtotal >= 門檻) 否則固定運費
	total    = subtotal + shipping，訂單不記錄折扣
*/
func (o *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*model.Order, error) {
	if len(req.CartItems) == 0 {
		return nil, ErrEmptyCart
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.now().UTC()
	id, err := o.newOrderID(now)
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(req.CartItems))
	for _, item := range req.CartItems {
		items = append(items, model.OrderItemFromCartItem(item))
	}

	subtotal := pricing.Subtotal(req.CartItems)
	shipping := o.calculator.Shipping(subtotal, decimal.Zero, nil)

	customer := req.CustomerInfo
	address := req.ShippingAddress
	order := &model.Order{
		ID:    id,
		Items: items,
		CustomerInfo: model.CustomerInfo{
			FirstName: customer.FirstName,
			LastName:  customer.LastName,
			Email:     customer.Email,
			Phone:     customer.Phone,
		},
		ShippingAddress: model.ShippingAddress{
			Address:    address.Address,
			City:       address.City,
			State:      address.State,
			PostalCode: address.PostalCode,
			Notes:      address.Notes,
		},
		PaymentMethod: model.PaymentMethodCashOnDelivery,
		Subtotal:      subtotal,
		Shipping:      shipping,
		Total:         o.calculator.Total(subtotal, decimal.Zero, shipping),
		Status:        model.OrderStatusPending,
		StatusHistory: []model.StatusEntry{
			{Status: model.OrderStatusPending, Timestamp: now, Note: NoteOrderCreated},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := make([]*model.Order, 0, len(o.orders)+1)
	next = append(next, order)
	next = append(next, o.orders...)
	if err := o.commit(ctx, next); err != nil {
		return nil, fmt.Errorf("create order %s: %w", id, err)
	}

	o.logger.Info().
		Str("order_id", id).
		Int("items", len(items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created")
	return order.Clone(), nil
}

// GetOrderByID 找不到回傳 nil
func (o *OrderService) GetOrderByID(id string) *model.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if i := o.indexOf(id); i >= 0 {
		return o.orders[i].Clone()
	}
	return nil
}

// TrackOrder 訂單編號與姓名三者都要符合（不分大小寫）才回傳
// 客戶查詢自己訂單的唯一驗證方式
func (o *OrderService) TrackOrder(orderNumber, firstName, lastName string) *model.Order {
	orderNumber = strings.TrimSpace(orderNumber)
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if orderNumber == "" || firstName == "" || lastName == "" {
		return nil
	}

	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, order := range o.orders {
		if strings.EqualFold(order.ID, orderNumber) &&
			strings.EqualFold(order.CustomerInfo.FirstName, firstName) &&
			strings.EqualFold(order.CustomerInfo.LastName, lastName) {
			return order.Clone()
		}
	}
	return nil
}

// UpdateOrderStatus 附加一筆歷程並更新目前狀態
func (o *OrderService) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus, note string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	i := o.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrOrderNotExist, id)
	}
	return o.updateStatusLocked(ctx, i, status, note)
}

func (o *OrderService) updateStatusLocked(ctx context.Context, i int, status model.OrderStatus, note string) error {
	current := o.orders[i]
	if o.strictTransitions && !CanTransition(current.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, status)
	}

	now := o.now().UTC()
	updated := current.Clone()
	updated.Status = status
	updated.StatusHistory = append(updated.StatusHistory, model.StatusEntry{
		Status:    status,
		Timestamp: now,
		Note:      note,
	})
	updated.UpdatedAt = now

	next := append([]*model.Order(nil), o.orders...)
	next[i] = updated
	if err := o.commit(ctx, next); err != nil {
		return fmt.Errorf("update order %s: %w", current.ID, err)
	}

	o.logger.Info().
		Str("order_id", current.ID).
		Str("from", string(current.Status)).
		Str("to", string(status)).
		Msg("order status updated")
	return nil
}

// CancelOrder 只有 pending 可以取消，其餘狀態回傳 false 且不變動
func (o *OrderService) CancelOrder(ctx context.Context, id string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	i := o.indexOf(id)
	if i < 0 || o.orders[i].Status != model.OrderStatusPending {
		return false, nil
	}
	if err := o.updateStatusLocked(ctx, i, model.OrderStatusCancelled, NoteCancelledByCustomer); err != nil {
		return false, err
	}
	return true, nil
}

// GetAllOrders 新的在前
func (o *OrderService) GetAllOrders() []model.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]model.Order, 0, len(o.orders))
	for _, order := range o.orders {
		out = append(out, *order.Clone())
	}
	return out
}

func (o *OrderService) GetStatusDetails(status model.OrderStatus) (model.StatusDetails, bool) {
	return model.LookupStatusDetails(status)
}

var _ IOrderService = (*OrderService)(nil)
