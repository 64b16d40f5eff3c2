package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bluebook-erp/bluebook/internal/auth"
	"github.com/bluebook-erp/bluebook/internal/business"
	"github.com/bluebook-erp/bluebook/internal/categories"
	"github.com/bluebook-erp/bluebook/internal/contacts"
	"github.com/bluebook-erp/bluebook/internal/products"
	"github.com/bluebook-erp/bluebook/internal/purchasing"
	"github.com/bluebook-erp/bluebook/internal/services"
	"github.com/bluebook-erp/bluebook/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware

	ContactHandler         *contacts.Handler
	ProductHandler         *products.Handler
	ServiceHandler         *services.Handler
	ProductCategoryHandler *categories.Handler
	ServiceCategoryHandler *categories.Handler
	BusinessHandler        *business.Handler
	PurchasingHandler      *purchasing.Handler
	JobHandler             *jobs.Handler
}

// NewRouter constructs the chi.Router.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Group(func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireAuth)

		r.Route("/contacts", params.ContactHandler.MountRoutes)
		r.Route("/products", params.ProductHandler.MountRoutes)
		r.Route("/services", params.ServiceHandler.MountRoutes)
		r.Route("/product_categories", params.ProductCategoryHandler.MountRoutes)
		r.Route("/service_categories", params.ServiceCategoryHandler.MountRoutes)
		r.Route("/my_busineses", params.BusinessHandler.MountRoutes)
		r.Route("/purchase_orders", params.PurchasingHandler.MountRoutes)
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
