// internal/adapters/in/http/router.go
package httpin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopcart/internal/adapters/in/http/handlers"
	"shopcart/internal/adapters/in/http/middleware"
	usecase "shopcart/internal/application/usecase"
)

// RouterDeps collects the dependencies injected from the DI container.
type RouterDeps struct {
	ShoppingUC *usecase.ShoppingService
	Logger     *zap.Logger

	// Optional
	Metrics        middleware.RequestObserver
	MetricsHandler http.Handler
	CORSOrigins    []string
}

// NewRouter sets up HTTP routing.
// チェーン順: CORS → RequestID → Recover → Metrics → handler
func NewRouter(deps RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(
		middleware.CORS(deps.CORSOrigins),
		middleware.RequestID,
		middleware.Recover(log),
		middleware.Metrics(deps.Metrics),
	)

	// Health check (always on)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// Usecase が存在する場合のみマウントする
	if deps.ShoppingUC != nil {
		handlers.NewShoppingHandler(deps.ShoppingUC, log).Mount(r)
	}

	return r
}
