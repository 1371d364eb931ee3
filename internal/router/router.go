package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GregMSThompson/goalaura-backend/internal/handlers"
	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	ush := handlers.NewUserHandlers(deps)
	txh := handlers.NewTransactionHandlers(deps)
	peh := handlers.NewPeerHandlers(deps)
	rmh := handlers.NewRoadmapHandlers(deps)
	goh := handlers.NewGoalHandlers(deps)
	plh := handlers.NewPlaidHandlers(deps)

	auth := middleware.NewMiddleware(deps.Firebase, deps.ResponseHandler)
	r.Group(func(r chi.Router) {
		r.Use(auth.FirebaseAuth)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/transactions", txh.TransactionRoutes())
		r.Mount("/peers", peh.PeerRoutes())
		r.Mount("/roadmaps", rmh.RoadmapRoutes())
		r.Mount("/goals", goh.GoalRoutes())
		r.Mount("/banks", plh.BankRoutes())
	})
	return r
}
