package service

import (
	"context"
	"errors"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/storage"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const CartStorageKey = "flora-cart"

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrNilProduct        = errors.New("product is nil")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ICartService interface {
	AddToCart(ctx context.Context, product *model.Product, quantity int, selectedColor string) error
	AddToCartWithinStock(ctx context.Context, product *model.Product, quantity int, selectedColor string) error
	RemoveFromCart(ctx context.Context, productID int, selectedColor string) error
	UpdateQuantity(ctx context.Context, productID int, quantity int, selectedColor string) error
	UpdateQuantityWithinStock(ctx context.Context, product *model.Product, quantity int, selectedColor string) error
	RemoveLines(ctx context.Context, lines []model.CartItem) error
	ClearCart(ctx context.Context) error
	GetCartItems() []model.CartItem
	GetCartTotal() decimal.Decimal
	GetCartItemsCount() int
}

// CartService 目前購物者的購物車
// 每次異動都把整份購物車寫回 storage
// 先在複本上修改，寫入成功才替換記憶體內容
type CartService struct {
	mu      sync.RWMutex
	items   []model.CartItem
	storage storage.Storage
	logger  *zerolog.Logger
}

// NewCartService 從 storage 還原購物車，資料不存在或損毀時以空購物車開始
func NewCartService(ctx context.Context, s storage.Storage, logger *zerolog.Logger) *CartService {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	c := &CartService{storage: s, logger: logger, items: []model.CartItem{}}

	var items []model.CartItem
	found, err := storage.LoadJSON(ctx, s, CartStorageKey, &items)
	switch {
	case err != nil:
		logger.Warn().Err(err).Str("key", CartStorageKey).Msg("saved cart unreadable, starting with empty cart")
	case found:
		c.items = sanitizeCartItems(items)
	}
	return c
}

// 去掉 quantity <= 0 的行並合併重複的 (id, color)
func sanitizeCartItems(items []model.CartItem) []model.CartItem {
	out := make([]model.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i := indexOf(out, item.ID, item.SelectedColor); i >= 0 {
			out[i].Quantity += item.Quantity
			continue
		}
		out = append(out, item)
	}
	return out
}

func indexOf(items []model.CartItem, productID int, selectedColor string) int {
	for i := range items {
		if items[i].Matches(productID, selectedColor) {
			return i
		}
	}
	return -1
}

func (c *CartService) snapshot() []model.CartItem {
	return append(make([]model.CartItem, 0, len(c.items)), c.items...)
}

// commit 需持有寫鎖
func (c *CartService) commit(ctx context.Context, next []model.CartItem) error {
	if err := storage.SaveJSON(ctx, c.storage, CartStorageKey, next); err != nil {
		c.logger.Error().Err(err).Msg("failed to persist cart")
		return err
	}
	c.items = next
	return nil
}

// AddToCart 相同 (id, color) 累加數量，否則新增一行
// 不檢查庫存
func (c *CartService) AddToCart(ctx context.Context, product *model.Product, quantity int, selectedColor string) error {
	return c.add(ctx, product, quantity, selectedColor, false)
}

// AddToCartWithinStock 同 AddToCart，累加後超過 product.Stock 回傳 ErrInsufficientStock
// 檢查與累加在同一把鎖內
func (c *CartService) AddToCartWithinStock(ctx context.Context, product *model.Product, quantity int, selectedColor string) error {
	return c.add(ctx, product, quantity, selectedColor, true)
}

func (c *CartService) add(ctx context.Context, product *model.Product, quantity int, selectedColor string, checkStock bool) error {
	if product == nil {
		return ErrNilProduct
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	i := indexOf(next, product.ID, selectedColor)
	existing := 0
	if i >= 0 {
		existing = next[i].Quantity
	}
	if checkStock && existing+quantity > product.Stock {
		return ErrInsufficientStock
	}

	if i >= 0 {
		next[i].Quantity += quantity
	} else {
		next = append(next, model.NewCartItem(product, quantity, selectedColor))
	}
	return c.commit(ctx, next)
}

// RemoveFromCart 不存在時不做任何事
func (c *CartService) RemoveFromCart(ctx context.Context, productID int, selectedColor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.removeLocked(ctx, productID, selectedColor)
}

func (c *CartService) removeLocked(ctx context.Context, productID int, selectedColor string) error {
	i := indexOf(c.items, productID, selectedColor)
	if i < 0 {
		return nil
	}
	next := c.snapshot()
	next = append(next[:i], next[i+1:]...)
	return c.commit(ctx, next)
}

// UpdateQuantity quantity <= 0 等同 RemoveFromCart，否則直接設定數量
func (c *CartService) UpdateQuantity(ctx context.Context, productID int, quantity int, selectedColor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateLocked(ctx, productID, quantity, selectedColor)
}

// UpdateQuantityWithinStock quantity 超過 product.Stock 時回傳 ErrInsufficientStock
func (c *CartService) UpdateQuantityWithinStock(ctx context.Context, product *model.Product, quantity int, selectedColor string) error {
	if product == nil {
		return ErrNilProduct
	}
	if quantity > product.Stock {
		return ErrInsufficientStock
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateLocked(ctx, product.ID, quantity, selectedColor)
}

func (c *CartService) updateLocked(ctx context.Context, productID int, quantity int, selectedColor string) error {
	if quantity <= 0 {
		return c.removeLocked(ctx, productID, selectedColor)
	}

	i := indexOf(c.items, productID, selectedColor)
	if i < 0 {
		return nil
	}
	next := c.snapshot()
	next[i].Quantity = quantity
	return c.commit(ctx, next)
}

/*
RemoveLines 從購物車扣掉 lines 的數量，扣到 <= 0 的行移除

	結帳後使用，只扣掉已下單的快照，期間新加入的商品保留
*/
func (c *CartService) RemoveLines(ctx context.Context, lines []model.CartItem) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.snapshot()
	changed := false
	for _, line := range lines {
		i := indexOf(next, line.ID, line.SelectedColor)
		if i < 0 || line.Quantity <= 0 {
			continue
		}
		changed = true
		next[i].Quantity -= line.Quantity
		if next[i].Quantity <= 0 {
			next = append(next[:i], next[i+1:]...)
		}
	}
	if !changed {
		return nil
	}
	return c.commit(ctx, next)
}

func (c *CartService) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.commit(ctx, []model.CartItem{})
}

// GetCartItems 回傳複本，依加入順序
func (c *CartService) GetCartItems() []model.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.snapshot()
}

func (c *CartService) GetCartTotal() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return pricing.Subtotal(c.items)
}

// GetCartItemsCount 數量加總，不是行數
func (c *CartService) GetCartItemsCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

var _ ICartService = (*CartService)(nil)
