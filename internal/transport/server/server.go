package server

import (
	"context"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/cbrief/chain-daily/internal/application"
	"github.com/cbrief/chain-daily/internal/transport/handler"
	"github.com/cbrief/chain-daily/internal/transport/middleware"
)

// NewRouter builds the HTTP routes for an already-wired application.
func NewRouter(app *application.Application) http.Handler {
	authMiddleware := middleware.Auth(app.Config.WebhookAuthToken)

	router := mux.NewRouter()
	router.Handle("/healthz", handler.NewHealth()).Methods(http.MethodGet)
	router.Handle("/run", authMiddleware(handler.NewRun(app.Pipeline))).Methods(http.MethodPost)
	router.Handle("/runs", authMiddleware(handler.NewRuns(app.Archive))).Methods(http.MethodGet)
	return router
}

// CreateHandler creates the main HTTP handler for the application
func CreateHandler(ctx context.Context) (http.Handler, func(), error) {
	// Create application (handles all DI and business logic)
	app, err := application.New(ctx)
	if err != nil {
		log.Printf("Error creating application: %v\nStack:\n%s", err, debug.Stack())
		return nil, nil, err
	}

	cleanup := func() {
		app.Close()
	}

	return NewRouter(app), cleanup, nil
}

// HandleRequest handles a single HTTP request (for Cloud Functions)
func HandleRequest(w http.ResponseWriter, r *http.Request) {
	h, cleanup, err := CreateHandler(r.Context())
	if err != nil {
		log.Printf("Failed to create handler: %v\nStack:\n%s", err, debug.Stack())
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer cleanup()

	h.ServeHTTP(w, r)
}
