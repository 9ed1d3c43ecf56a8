package api

import (
	"context"
	"net/http"

	"github.com/eaugusto/registry/internal/api/auth"
	"github.com/eaugusto/registry/internal/client"
	"github.com/eaugusto/registry/internal/config"
	"github.com/eaugusto/registry/internal/product"
	"github.com/eaugusto/registry/internal/session"
	"github.com/eaugusto/registry/pkg/logging"
	"github.com/eaugusto/registry/pkg/monitoring"
	"github.com/gorilla/mux"
)

var log = logging.GetLogger("api")

const (
	BasePath     = "/api/v1"
	HealthPath   = "/health"
	VersionPath  = "/version"
	MetricsPath  = "/metrics"
	ClientsPath  = "/clients"
	ProductsPath = "/products"
	DialogPath   = "/dialog"
	EntityIDKey  = "id"
)

// NewRouter returns a *mux.Router which can be
// used by the net/http package to serve the routes of our API.
// All routes read and write the stores of the passed session.
// Open websocket dialogs are closed when ctx is done.
func NewRouter(ctx context.Context, s *session.Session) *mux.Router {
	router := mux.NewRouter()
	configureV1Router(ctx, router, s)
	router.Use(logging.HTTPLoggingMiddleware)
	router.Use(monitoring.InfluxDB2Middleware)
	return router
}

// configureV1Router configures a given router with the routes of version 1 of the registry API.
func configureV1Router(ctx context.Context, router *mux.Router, s *session.Session) {
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithField("request", logging.RemoveNewlineSymbol(r.URL.Path)).Debug("Not Found Handler")
		w.WriteHeader(http.StatusNotFound)
	})
	v1 := router.PathPrefix(BasePath).Subrouter()
	v1.HandleFunc(HealthPath, Health).Methods(http.MethodGet).Name(HealthPath)
	v1.HandleFunc(VersionPath, Version).Methods(http.MethodGet).Name(VersionPath)
	v1.Handle(MetricsPath, monitoring.MetricsHandler()).Methods(http.MethodGet).Name(MetricsPath)

	clientController := &entityController[*client.Client]{
		path:      ClientsPath,
		noun:      "client",
		store:     s.Clients,
		newEntity: func() *client.Client { return &client.Client{} },
		setIdentifier: func(c *client.Client, id string) {
			c.CPF = id
		},
	}
	productController := &entityController[*product.Product]{
		path:      ProductsPath,
		noun:      "product",
		store:     s.Products,
		newEntity: func() *product.Product { return &product.Product{} },
		setIdentifier: func(p *product.Product, id string) {
			p.Code = id
		},
	}
	dialogController := &DialogController{ctx: ctx, session: s, answerTimeout: config.Config.Server.DialogTimeout}

	configureRoutes := func(router *mux.Router) {
		clientController.ConfigureRoutes(router)
		productController.ConfigureRoutes(router)
		dialogController.ConfigureRoutes(router)
	}

	if auth.InitializeAuthentication() {
		// Create new authenticated subrouter.
		// All routes added to v1 after this require authentication.
		authenticatedV1Router := v1.PathPrefix("").Subrouter()
		authenticatedV1Router.Use(auth.HTTPAuthenticationMiddleware)
		configureRoutes(authenticatedV1Router)
	} else {
		configureRoutes(v1)
	}
}

// Version handles the version route.
// It responds the release information stored in the configuration.
func Version(writer http.ResponseWriter, request *http.Request) {
	release := config.Config.Sentry.Release
	if len(release) > 0 {
		sendJSON(request.Context(), writer, release, http.StatusOK)
	} else {
		writer.WriteHeader(http.StatusNotFound)
	}
}
