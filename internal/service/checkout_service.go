package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/rs/zerolog"
)

const DefaultCheckoutDelay = 1500 * time.Millisecond

// ErrCartNotCleared 訂單已建立，但購物車沒有清空
var ErrCartNotCleared = errors.New("cart could not be cleared")

type ICheckoutService interface {
	Preview() pricing.Summary
	PlaceOrder(ctx context.Context, customer model.CustomerInfo, address model.ShippingAddress) (*model.Order, error)
}

// CheckoutService 結帳流程：模擬延遲 -> 建立訂單 -> 從購物車扣掉已下單的行
// 輸入資料驗證由呼叫端負責
type CheckoutService struct {
	cart       ICartService
	orders     IOrderService
	calculator pricing.Calculator
	delay      time.Duration
	logger     *zerolog.Logger
}

func NewCheckoutService(cart ICartService, orders IOrderService, calculator pricing.Calculator, delay time.Duration, logger *zerolog.Logger) *CheckoutService {
	if cart == nil {
		panic("NewCheckoutService: cart service cannot be nil")
	}
	if orders == nil {
		panic("NewCheckoutService: order service cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CheckoutService{cart: cart, orders: orders, calculator: calculator, delay: delay, logger: logger}
}

// Preview 結帳頁的金額，不套用折扣碼
func (s *CheckoutService) Preview() pricing.Summary {
	return s.calculator.Summarize(s.cart.GetCartItems(), nil)
}

// PlaceOrder ctx 在延遲期間結束時不建立訂單
func (s *CheckoutService) PlaceOrder(ctx context.Context, customer model.CustomerInfo, address model.ShippingAddress) (*model.Order, error) {
	if len(s.cart.GetCartItems()) == 0 {
		return nil, ErrEmptyCart
	}

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info().Err(ctx.Err()).Msg("checkout aborted before order creation")
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	// 延遲結束後重新取購物車快照
	items := s.cart.GetCartItems()
	order, err := s.orders.CreateOrder(ctx, OrderRequest{
		CartItems:       items,
		CustomerInfo:    customer,
		ShippingAddress: address,
	})
	if err != nil {
		return nil, err
	}

	// 只扣掉已下單的數量
	if err := s.cart.RemoveLines(ctx, items); err != nil {
		// 訂單已經成立，購物車清不掉只記錄
		s.logger.Error().Err(err).Str("order_id", order.ID).Msg("order created but cart could not be cleared")
		return order, fmt.Errorf("%w: order %s: %v", ErrCartNotCleared, order.ID, err)
	}
	return order, nil
}

var _ ICheckoutService = (*CheckoutService)(nil)
