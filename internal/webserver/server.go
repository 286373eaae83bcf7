// Package webserver hosts the admin HTTP API. Handlers register their
// routes with ApiGET and friends before the server is built.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/storefront/internal/app"
	"github.com/talkincode/storefront/internal/store"
	"github.com/talkincode/storefront/pkg/metrics"
)

const (
	ApiPrefix     = "/api"
	AppContextKey = "appctx"
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	mws     []echo.MiddlewareFunc
}

var (
	routesMu sync.Mutex
	routes   []route
)

func addRoute(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, route{method: method, path: path, handler: h, mws: m})
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodGet, path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPost, path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodPut, path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	addRoute(http.MethodDelete, path, h, m...)
}

// Validator adapts go-playground/validator to echo.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type AdminServer struct {
	root   *echo.Echo
	appCtx app.AppContext
}

// NewAdminServer builds the echo instance and mounts every registered
// route under ApiPrefix.
func NewAdminServer(appCtx app.AppContext) *AdminServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()
	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(appContextMiddleware(appCtx))

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/ready", func(c echo.Context) error {
		if !appCtx.Store().Mounted() {
			return c.String(http.StatusServiceUnavailable, "loading")
		}
		return c.String(http.StatusOK, "ok")
	})

	api := e.Group(ApiPrefix)
	routesMu.Lock()
	for _, r := range routes {
		api.Add(r.method, r.path, r.handler, r.mws...)
	}
	routesMu.Unlock()

	return &AdminServer{root: e, appCtx: appCtx}
}

// Echo exposes the underlying instance (used in tests).
func (s *AdminServer) Echo() *echo.Echo {
	return s.root
}

// Start serves until ctx is done, then shuts down gracefully.
func (s *AdminServer) Start(ctx context.Context) error {
	cfg := s.appCtx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infof("Starting admin server on %s", addr)
		if err := s.root.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return errors.Wrap(err, "admin server")
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.root.Shutdown(shutdownCtx)
}

func appContextMiddleware(appCtx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appCtx)
			req := c.Request()
			c.SetRequest(req.WithContext(store.NewContext(req.Context(), appCtx.Store())))
			return next(c)
		}
	}
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				zap.L().Warn("request", fields...)
				return nil
			}
			zap.L().Debug("request", fields...)
			metrics.IncCounter("http_requests")
			return nil
		},
	})
}
