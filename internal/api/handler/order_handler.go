package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api/dto"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

/*
OrderHandler 顧客端只能以訂單編號 + 姓名存取自己的訂單
ListOrders 與 UpdateStatus 只掛在 admin 路由
*/
type OrderHandler struct {
	orders   service.IOrderService
	validate *validator.Validate
}

func NewOrderHandler(orders service.IOrderService) *OrderHandler {
	if orders == nil {
		panic("order service cannot be nil")
	}
	return &OrderHandler{orders: orders, validate: NewValidator()}
}

// 姓名不符與訂單不存在一律 404
func (h *OrderHandler) ownedOrder(id, firstName, lastName string) (*model.Order, error) {
	if firstName == "" || lastName == "" {
		return nil, ErrMissingIdentity
	}
	order := h.orders.TrackOrder(id, firstName, lastName)
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// TrackOrder ?orderNumber=&firstName=&lastName= 三者皆必填
func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderNumber := q.Get("orderNumber")
	if orderNumber == "" {
		api.ErrorJSON(w, int(er.BadRequestCode), er.New(er.BadRequestCode, "orderNumber, firstName and lastName are required"), er.ErrStrMap[er.BadRequestCode])
		return
	}

	order, err := h.ownedOrder(orderNumber, q.Get("firstName"), q.Get("lastName"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// GetOrder ?firstName=&lastName= 必填
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	order, err := h.ownedOrder(chi.URLParam(r, "id"), q.Get("firstName"), q.Get("lastName"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, order, nil)
}

// CancelOrder body 帶 firstName、lastName，只有 pending 可以取消，其他狀態回 409
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerIdentityDTO
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	order, err := h.ownedOrder(chi.URLParam(r, "id"), req.FirstName, req.LastName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	cancelled, err := h.orders.CancelOrder(r.Context(), order.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !cancelled {
		writeServiceError(w, ErrOrderNotCancel)
		return
	}
	api.SuccessJSON(w, dto.CancelOrderDTO{Cancelled: true, Order: h.orders.GetOrderByID(order.ID)}, nil)
}

func (h *OrderHandler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, model.AllStatusDetails(), nil)
}

func (h *OrderHandler) GetStatusDetails(w http.ResponseWriter, r *http.Request) {
	details, ok := h.orders.GetStatusDetails(model.OrderStatus(chi.URLParam(r, "status")))
	if !ok {
		api.ErrorJSON(w, int(er.NotFoundCode), er.New(er.NotFoundCode, "unknown order status"), er.ErrStrMap[er.NotFoundCode])
		return
	}
	api.SuccessJSON(w, details, nil)
}

// ListOrders admin 用
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	api.SuccessJSON(w, h.orders.GetAllOrders(), nil)
}

// UpdateStatus admin 用
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusDTO
	if err := decodeJSON(r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.orders.UpdateOrderStatus(r.Context(), id, req.Status, req.Note); err != nil {
		writeServiceError(w, err)
		return
	}
	api.SuccessJSON(w, h.orders.GetOrderByID(id), nil)
}
