package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
	"github.com/labstack/echo/v4"

	"github.com/jsamuelsen/httpcontext-service/internal/adapters/binding"
	appcontext "github.com/jsamuelsen/httpcontext-service/internal/app/context"
)

// ErrUnknownFramework is returned by NewDispatcher for an unsupported framework name.
var ErrUnknownFramework = errors.New("unknown dispatch framework")

// Frameworks lists the names accepted by NewDispatcher.
var Frameworks = []string{
	binding.FrameworkChi,
	binding.FrameworkMux,
	binding.FrameworkEcho,
	binding.FrameworkStdLib,
}

// NewDispatcher builds the framework dispatcher: one http.Handler, built once
// at startup, that routes with the named framework and binds the request
// context through that framework's middleware. Every framework serves the
// same routes:
//   - GET /resources/{name}
//   - GET / and everything below it
//
// All routes are served by resources.
func NewDispatcher(framework string, reg *appcontext.Registry, resources http.Handler) (http.Handler, error) {
	switch framework {
	case binding.FrameworkChi:
		return chiDispatcher(reg, resources), nil
	case binding.FrameworkMux:
		return muxDispatcher(reg, resources), nil
	case binding.FrameworkEcho:
		return echoDispatcher(reg, resources), nil
	case binding.FrameworkStdLib:
		return stdlibDispatcher(reg, resources), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFramework, framework)
	}
}

func chiDispatcher(reg *appcontext.Registry, resources http.Handler) http.Handler {
	r := chi.NewRouter()
	bound := r.With(binding.Chi(reg))

	bound.Method(http.MethodGet, "/resources/{name}", resources)
	bound.Method(http.MethodGet, "/", resources)
	bound.Method(http.MethodGet, "/*", resources)

	return r
}

func muxDispatcher(reg *appcontext.Registry, resources http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Use(binding.Mux(reg))

	r.Handle("/resources/{name}", resources).Methods(http.MethodGet)
	r.PathPrefix("/").Handler(resources).Methods(http.MethodGet)

	return r
}

func echoDispatcher(reg *appcontext.Registry, resources http.Handler) http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(binding.Echo(reg))

	h := echo.WrapHandler(resources)
	e.GET("/resources/:name", h)
	e.GET("/", h)
	e.GET("/*", h)

	return e
}

func stdlibDispatcher(reg *appcontext.Registry, resources http.Handler) http.Handler {
	bind := binding.StdLib(reg)

	m := http.NewServeMux()
	m.Handle("GET /resources/{name}", bind(resources))
	m.Handle("GET /", bind(resources))

	return m
}
