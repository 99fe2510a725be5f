package http

import (
	"net/http"
	"time"

	middleware_http "toy-catalog/internal/middleware/http"
	"toy-catalog/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	Products       *ProductHandler
	Auth           *AuthHandler
	Health         *HealthHandler
	Verifier       middleware_http.TokenVerifier
	CORSOrigin     string
	RequestTimeout time.Duration
}

// NewRouter binds every catalog route.
func NewRouter(cfg RouterConfig) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware_http.Trace)
	router.Use(middleware.Recoverer)
	router.Use(middleware_http.CORS(cfg.CORSOrigin))
	if cfg.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	router.Get("/", greet)
	router.Get("/healthz", cfg.Health.Check)

	p := cfg.Products
	router.Get("/cars", p.ListCategory(model.CategoryCars))
	router.Get("/trucks", p.ListCategory(model.CategoryTrucks))
	router.Get("/airplane", p.ListCategory(model.CategoryAirplanes))
	router.Get("/bikes", p.ListCategory(model.CategoryBikes))

	router.Get("/product/{id}", p.GetByPathID)
	router.Get("/product-id", p.GetByQueryID)
	router.Post("/addnewtoy", p.Create)
	router.Patch("/product-id-update", p.Update)
	router.Delete("/products-delete", p.Delete)

	router.Get("/totalproduct", p.Count)
	router.Get("/products", p.GetPage)
	router.Get("/all-products", p.GetAll)

	router.With(middleware_http.Authenticate(cfg.Verifier)).Get("/mytoys", p.MyListings)

	router.Post("/jwt", cfg.Auth.IssueToken)

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return router
}

func greet(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello World!"))
}
