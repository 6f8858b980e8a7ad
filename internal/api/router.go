package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/sups/practice-server/docs"
	"github.com/sups/practice-server/internal/api/handler"
	"github.com/sups/practice-server/internal/api/middleware"
	"github.com/sups/practice-server/internal/core/ports"
	infrahttp "github.com/sups/practice-server/internal/infrastructure/http"
	"github.com/sups/practice-server/internal/infrastructure/http/handlers"
)

// Deps carries the services the router exposes.
type Deps struct {
	Auth ports.AuthService
	Data ports.DataService
	Util ports.UtilService
	// JSONStore backs the rule-free /jsonstore tree.
	JSONStore ports.JSONStoreService
	// Identity names the login field of /users requests.
	Identity string
	// Checks are the readiness checks of the configured external dependencies.
	Checks map[string]handlers.Check
	// Registry receives the HTTP metrics; nil selects the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			"X-Requested-With", "X-HTTP-Method-Override", echo.HeaderContentType, echo.HeaderAccept,
			middleware.HeaderAuthorization, middleware.HeaderAdmin,
		},
		MaxAge: 86400,
	}))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "practice",
		Registerer: registerer,
	}))
	e.Use(middleware.Throttle(d.Util, nil))

	// --- Operational endpoints (no auth required) ---
	infrahttp.RegisterOps(e, d.Checks, gatherer)

	actor := middleware.Actor(d.Auth)

	// --- Users ---
	usersHandler := handler.NewUsersHandler(d.Auth, d.Identity)
	users := e.Group("/users", actor)
	users.POST("/register", usersHandler.Register)
	users.POST("/login", usersHandler.Login)
	users.GET("/logout", usersHandler.Logout)
	users.GET("/me", usersHandler.Me)

	// --- Data ---
	dataHandler := handler.NewDataHandler(d.Data)
	data := e.Group("/data", actor)
	data.GET("", dataHandler.Collections)
	for _, path := range []string{"/:collection", "/:collection/*"} {
		data.GET(path, dataHandler.Get)
		data.POST(path, dataHandler.Create)
		data.PUT(path, dataHandler.Replace)
		data.PATCH(path, dataHandler.Merge)
		data.DELETE(path, dataHandler.Delete)
	}

	// --- JSON store (no auth) ---
	jsonStoreHandler := handler.NewJSONStoreHandler(d.JSONStore)
	jsonStore := e.Group("/jsonstore")
	for _, path := range []string{"/:collection", "/:collection/*"} {
		jsonStore.GET(path, jsonStoreHandler.Get)
		jsonStore.POST(path, jsonStoreHandler.Create)
		jsonStore.PUT(path, jsonStoreHandler.Replace)
		jsonStore.PATCH(path, jsonStoreHandler.Merge)
		jsonStore.DELETE(path, jsonStoreHandler.Delete)
	}

	// --- Util ---
	utilHandler := handler.NewUtilHandler(d.Util)
	e.GET("/util/:service", utilHandler.Status)
	e.POST("/util", utilHandler.Toggle)

	return e
}

// requestLogger logs one line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
