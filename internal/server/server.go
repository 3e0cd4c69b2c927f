package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inmovalia/catalogo/internal/catalog"
	catalogdomain "github.com/inmovalia/catalogo/internal/catalog/domain"
	"github.com/inmovalia/catalogo/internal/config"
	"github.com/inmovalia/catalogo/internal/observability"
	obsmiddleware "github.com/inmovalia/catalogo/internal/observability/logger"
	obsmetrics "github.com/inmovalia/catalogo/internal/observability/metrics"
	obstracing "github.com/inmovalia/catalogo/internal/observability/tracing"
	"github.com/inmovalia/catalogo/internal/tenant"
	tenantdomain "github.com/inmovalia/catalogo/internal/tenant/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tenant.Module,
	catalog.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	tenants  tenantdomain.Service
	catalogs catalogdomain.Service
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Tenants  tenantdomain.Service
	Catalogs catalogdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		tenants:  p.Tenants,
		catalogs: p.Catalogs,
	}

	svc.registerTenantRoutes()
	svc.registerCatalogRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerTenantRoutes() {
	s.engine.POST("/tenants", s.CreateTenant)
}

func (s *Server) registerCatalogRoutes() {
	tenant := s.engine.Group("/tenants/:tenant_id", s.TenantContext())

	tenant.GET("/locales", s.ListTenantLocales)

	// -------- Unified store --------
	catalogos := tenant.Group("/catalogos")
	{
		catalogos.GET("", s.ListCatalogs)
		catalogos.POST("", s.CreateCatalogItem)
		catalogos.PUT("/:id", s.UpdateCatalogItem)
		catalogos.DELETE("/:id", s.DeleteCatalogItem)
		// :id carries the kind here; gin requires one wildcard name per segment.
		catalogos.POST("/:id/toggle/:code", s.ToggleCatalogItem)
	}

	// -------- Dedicated tables --------
	separados := tenant.Group("/catalogos-separados")
	{
		separados.GET("/conteos", s.DomainItemCounts)
		separados.GET("/:kind", s.ListDomainItems)
		separados.POST("/:kind", s.CreateDomainItem)
		separados.PUT("/:kind/:id", s.UpdateDomainItem)
		separados.DELETE("/:kind/:id", s.DeleteDomainItem)
	}
}
