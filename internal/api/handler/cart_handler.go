package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/lab/storefront/internal/service/pricing"
	"github.com/RoyceAzure/rj/api"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cart       service.ICartService
	catalog    ProductCatalog
	calculator pricing.Calculator
	promos     pricing.PromoTable
	validate   *validator.Validate
}

func NewCartHandler(cart service.ICartService, c ProductCatalog, calculator pricing.Calculator, promos pricing.PromoTable) *CartHandler {
	if cart == nil {
		panic("cart service cannot be nil")
	}
	if c == nil {
		panic("catalog cannot be nil")
	}
	return &CartHandler{
		cart:       cart,
		catalog:    c,
		calculator: calculator,
		promos:     promos,
		validate:   NewValidator(),
	}
}

func (h *CartHandler) cartDTO() dto.CartDTO {
	return dto.CartDTO{
		Items: h.cart.GetCartItems(),
		Count: h.cart.GetCartItemsCount(),
		Total: h.cart.GetCartTotal(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.cartDTO(), nil)
}

// AddItem 檢查商品存在與顏色，庫存由 cart service 在加入時檢查
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	product, ok := h.catalog.ProductByID(req.ProductID)
	if !ok {
		writeServiceError(w, ErrProductNotFound)
		return
	}
	// 未選顏色可以加入
	if req.SelectedColor != "" && !product.HasColor(req.SelectedColor) {
		writeServiceError(w, ErrColorNotOffered)
		return
	}

	if err := h.cart.AddToCartWithinStock(r.Context(), product, req.Quantity, req.SelectedColor); err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.cartDTO(), nil)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID, err := intParam(r, "productID")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	var req dto.UpdateCartItemDTO
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	// 已下架的商品不檢查庫存
	product, ok := h.catalog.ProductByID(productID)
	if ok {
		err = h.cart.UpdateQuantityWithinStock(r.Context(), product, req.Quantity, req.SelectedColor)
	} else {
		err = h.cart.UpdateQuantity(r.Context(), productID, req.Quantity, req.SelectedColor)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.cartDTO(), nil)
}

// RemoveItem ?color= 指定顏色
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := intParam(r, "productID")
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.cart.RemoveFromCart(r.Context(), productID, r.URL.Query().Get("color")); err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.cartDTO(), nil)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.cartDTO(), nil)
}

/*
Summary 購物車金額明細

	?promo= 折扣碼，無效時回傳不含折扣的明細與 promoError
*/
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	items := h.cart.GetCartItems()
	code := strings.TrimSpace(r.URL.Query().Get("promo"))
	if code == "" {
		api.SuccessJSON(w, dto.CartSummaryDTO{Summary: h.calculator.Summarize(items, nil)}, nil)
		return
	}

	promo, err := h.promos.Validate(code, pricing.Subtotal(items))
	if err != nil {
		if !errors.Is(err, pricing.ErrPromoCodeNotFound) && !errors.Is(err, pricing.ErrPromoMinOrder) {
			writeServiceError(w, err)
			return
		}
		api.SuccessJSON(w, dto.CartSummaryDTO{
			Summary:    h.calculator.Summarize(items, nil),
			PromoError: err.Error(),
		}, nil)
		return
	}
	api.SuccessJSON(w, dto.CartSummaryDTO{Summary: h.calculator.Summarize(items, promo)}, nil)
}
