package handler

import (
	"errors"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/rj/api"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkout service.ICheckoutService
	validate *validator.Validate
}

func NewCheckoutHandler(checkout service.ICheckoutService) *CheckoutHandler {
	if checkout == nil {
		panic("checkout service cannot be nil")
	}
	return &CheckoutHandler{checkout: checkout, validate: NewValidator()}
}

func (h *CheckoutHandler) Summary(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.checkout.Preview(), nil)
}

// PlaceOrder 驗證客戶與地址後建立訂單，成功回傳 201
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutDTO
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), req.CustomerInfo, req.ShippingAddress)
	if err != nil {
		// 訂單已成立，只是購物車沒清掉
		if errors.Is(err, service.ErrCartNotCleared) && order != nil {
			created(w, dto.CheckoutResultDTO{Order: order, Warning: service.ErrCartNotCleared.Error()})
			return
		}
		writeServiceError(w, err)
		return
	}
	created(w, dto.CheckoutResultDTO{Order: order})
}

func (h *CheckoutHandler) ListGovernorates(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, model.Governorates(), nil)
}
