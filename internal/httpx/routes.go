package httpx

import (
	"github.com/go-chi/chi/v5"
)

// API bundles every HTTP handler and registers them under /api/v1.
type API struct {
	Payments      *PaymentsHandler
	Transactions  *TransactionsHandler
	Carts         *CartsHandler
	Catalog       *CatalogHandler
	Promos        *PromosHandler
	Notifications *NotificationsHandler
}

func (a *API) Register(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		// public: gateway callbacks and the catalog
		r.Post("/payments/notification", a.Payments.webhookHandler)
		r.Get("/products", a.Catalog.list)
		r.Get("/products/{productId}", a.Catalog.get)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Post("/payments/checkout", a.Payments.checkoutHandler)
			r.Post("/transactions/{transactionId}/session", a.Payments.retrySessionHandler)

			r.Get("/transactions", a.Transactions.listMine)
			r.Get("/transactions/{transactionId}", a.Transactions.detail)

			r.Post("/carts", a.Carts.create)
			r.Get("/carts", a.Carts.list)
			r.Get("/carts/{cartId}", a.Carts.detail)
			r.Put("/carts/{cartId}", a.Carts.update)
			r.Delete("/carts/{cartId}", a.Carts.remove)

			r.Get("/promos", a.Promos.list)

			r.Get("/notifications", a.Notifications.listMine)
			r.Put("/notifications/{notificationId}/read", a.Notifications.markRead)
			r.Delete("/notifications/{notificationId}", a.Notifications.remove)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireUser, RequireAdmin)

			r.Post("/promos", a.Promos.create)
			r.Post("/stocks", a.Catalog.stockIn)
			r.Get("/admin/transactions", a.Transactions.listAll)
			r.Put("/admin/transactions/{transactionId}/shipping", a.Transactions.updateShipping)
		})
	})
}
