package router

import (
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	m "github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/constants"
	rjapi "github.com/RoyceAzure/rj/api"
	er "github.com/RoyceAzure/rj/util/rj_error"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

type options struct {
	adminToken    string
	checkoutLimit func(http.Handler) http.Handler
	trackLimit    func(http.Handler) http.Handler
}

type Option func(*options)

// WithAdmin 掛載 /admin 路由，token 為空時不掛載
func WithAdmin(token string) Option {
	return func(o *options) {
		o.adminToken = token
	}
}

// WithCheckoutLimit 套用在 POST /checkout
func WithCheckoutLimit(mw func(http.Handler) http.Handler) Option {
	return func(o *options) {
		o.checkoutLimit = mw
	}
}

// WithTrackLimit 套用在顧客查詢、取消訂單
func WithTrackLimit(mw func(http.Handler) http.Handler) Option {
	return func(o *options) {
		o.trackLimit = mw
	}
}

func passThrough(next http.Handler) http.Handler { return next }

func health(w http.ResponseWriter, r *http.Request) {
	rjapi.SuccessJSON(w, map[string]string{"status": "ok"}, nil)
}

func SetupRouter(server *api.Server, logger *zerolog.Logger, opts ...Option) *chi.Mux {
	o := options{checkoutLimit: passThrough, trackLimit: passThrough}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rjapi.ErrorJSON(w, int(er.NotFoundCode), nil, er.ErrStrMap[er.NotFoundCode])
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rjapi.ErrorJSON(w, int(er.MethodNotAllowedCode), nil, er.ErrStrMap[er.MethodNotAllowedCode])
	})

	r.Get("/health", health)

	// API 路由
	r.Route(constants.APIPrefix, func(r chi.Router) {
		r.Get("/health", health)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", server.ProductHandler.ListProducts)
			r.Get("/{id}", server.ProductHandler.GetProduct)
		})
		r.Get("/categories", server.ProductHandler.ListCategories)
		r.Get("/brands", server.ProductHandler.ListBrands)
		r.Get("/price-ranges", server.ProductHandler.ListPriceRanges)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", server.CartHandler.GetCart)
			r.Delete("/", server.CartHandler.ClearCart)
			r.Get("/summary", server.CartHandler.Summary)
			r.Post("/items", server.CartHandler.AddItem)
			r.Put("/items/{productID}", server.CartHandler.UpdateItem)
			r.Delete("/items/{productID}", server.CartHandler.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/summary", server.CheckoutHandler.Summary)
			r.With(o.checkoutLimit).Post("/", server.CheckoutHandler.PlaceOrder)
		})
		r.Get("/governorates", server.CheckoutHandler.ListGovernorates)

		// 顧客只能以訂單編號 + 姓名存取
		r.Route("/orders", func(r chi.Router) {
			r.Use(o.trackLimit)
			r.Get("/track", server.OrderHandler.TrackOrder)
			r.Get("/{id}", server.OrderHandler.GetOrder)
			r.Post("/{id}/cancel", server.OrderHandler.CancelOrder)
		})

		r.Route("/order-statuses", func(r chi.Router) {
			r.Get("/", server.OrderHandler.ListStatuses)
			r.Get("/{status}", server.OrderHandler.GetStatusDetails)
		})

		if o.adminToken != "" && server.AdminOrderHandler != nil {
			r.Route("/admin", func(r chi.Router) {
				r.Use(m.AdminTokenMiddleware(o.adminToken))
				r.Get("/orders", server.AdminOrderHandler.ListOrders)
				r.Put("/orders/{id}/status", server.AdminOrderHandler.UpdateStatus)
			})
		}
	})
	return r
}

// Routes 列出所有路由，給 CLI 印出用
func Routes(r chi.Routes) ([]string, error) {
	var out []string
	err := chi.Walk(r, func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
		out = append(out, method+" "+route)
		return nil
	})
	return out, err
}
