package router

import (
	"log"
	"net/http"

	"github.com/baancha/pos/internal/cartstore"
	"github.com/baancha/pos/internal/config"
	"github.com/baancha/pos/internal/database"
	"github.com/baancha/pos/internal/enum"
	"github.com/baancha/pos/internal/handler"
	mw "github.com/baancha/pos/internal/middleware"
	"github.com/baancha/pos/internal/service"
	"github.com/baancha/pos/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, carts cartstore.Store, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Vite dev server
			"https://pos.baancha.example.com",
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
		authHandler.RegisterRoutes(r)

		// Theme and store settings are public reads: the login screen is
		// already branded before anyone signs in.
		themeHandler := handler.NewThemeHandler(queries, hub)
		r.Route("/theme", themeHandler.RegisterRoutes)

		settingHandler := handler.NewSettingHandler(queries)
		r.Route("/settings", settingHandler.RegisterRoutes)

		// Catalog reads are public too: the menu board shows products and
		// options without a session.
		productHandler := handler.NewProductHandler(queries)
		r.Route("/products", productHandler.RegisterRoutes)

		optionHandler := handler.NewOptionHandler(queries)
		r.Route("/options", optionHandler.RegisterRoutes)

		// Protected routes (require authentication)
		r.Group(func(r chi.Router) {
			r.Use(mw.Authenticate(cfg.JWTSecret))

			orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
				return database.New(db)
			})
			orderHandler := handler.NewOrderHandler(queries, orderService, hub)
			r.Route("/orders", orderHandler.RegisterRoutes)

			cartHandler := handler.NewCartHandler(carts)
			r.Route("/carts", cartHandler.RegisterRoutes)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireRole(enum.UserRoleAdmin))

				r.Route("/admin/products", productHandler.RegisterAdminRoutes)
				r.Route("/admin/options", optionHandler.RegisterAdminRoutes)
				r.Route("/admin/settings", settingHandler.RegisterAdminRoutes)
				r.Route("/admin/theme", themeHandler.RegisterAdminRoutes)
			})
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
