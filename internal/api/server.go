package api

import "net/http"

type ProductHandler interface {
	ListProducts(w http.ResponseWriter, r *http.Request)
	GetProduct(w http.ResponseWriter, r *http.Request)
	ListCategories(w http.ResponseWriter, r *http.Request)
	ListBrands(w http.ResponseWriter, r *http.Request)
	ListPriceRanges(w http.ResponseWriter, r *http.Request)
}

type CartHandler interface {
	GetCart(w http.ResponseWriter, r *http.Request)
	AddItem(w http.ResponseWriter, r *http.Request)
	UpdateItem(w http.ResponseWriter, r *http.Request)
	RemoveItem(w http.ResponseWriter, r *http.Request)
	ClearCart(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
}

type CheckoutHandler interface {
	Summary(w http.ResponseWriter, r *http.Request)
	PlaceOrder(w http.ResponseWriter, r *http.Request)
	ListGovernorates(w http.ResponseWriter, r *http.Request)
}

// OrderHandler 顧客端，需帶訂單編號與姓名
type OrderHandler interface {
	TrackOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	ListStatuses(w http.ResponseWriter, r *http.Request)
	GetStatusDetails(w http.ResponseWriter, r *http.Request)
}

// AdminOrderHandler 只掛在 admin 路由
type AdminOrderHandler interface {
	ListOrders(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type OrderHandlers interface {
	OrderHandler
	AdminOrderHandler
}

// Server 各 handler 的集合，由 router 掛到路由上
type Server struct {
	ProductHandler    ProductHandler
	CartHandler       CartHandler
	CheckoutHandler   CheckoutHandler
	OrderHandler      OrderHandler
	AdminOrderHandler AdminOrderHandler
}

func NewServer(product ProductHandler, cart CartHandler, checkout CheckoutHandler, order OrderHandlers) *Server {
	return &Server{
		ProductHandler:    product,
		CartHandler:       cart,
		CheckoutHandler:   checkout,
		OrderHandler:      order,
		AdminOrderHandler: order,
	}
}
