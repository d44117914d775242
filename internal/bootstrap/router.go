package bootstrap

import (
	"database/sql"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dateideas/date-ideas-api/config"
	httpapi "github.com/dateideas/date-ideas-api/internal/api/http"
	"github.com/dateideas/date-ideas-api/internal/api/http/middleware"
	ideashttp "github.com/dateideas/date-ideas-api/internal/ideas/http"
	ideasrepo "github.com/dateideas/date-ideas-api/internal/ideas/repository"
	"github.com/dateideas/date-ideas-api/internal/users"
)

type RouterDeps struct {
	Config *config.Config
	DB     *sql.DB
	// Health is pinged by /health; nil reports the database as disabled.
	Health httpapi.Pinger
	// Registry receives the HTTP and Go runtime collectors. A fresh one is
	// created when nil.
	Registry *prometheus.Registry
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	cfg := dep.Config

	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	metrics := middleware.NewMetrics(reg)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(cfg.CORS)))
	r.Use(metrics.Handler())

	healthHandler := httpapi.NewHealthHandler(cfg.App.ServiceName, cfg.App.Version, dep.Health)
	healthHandler.RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	api.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	ideasHandler := ideashttp.New(ideasrepo.NewIdeaRepository(dep.DB))
	ideasHandler.Register(api.Group("/ideas"))

	users.Register(api.Group("/users"), users.NewRepo(dep.DB))

	return r
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowMethods:  config.SplitList(c.AllowedMethods),
		AllowHeaders:  config.SplitList(c.AllowedHeaders),
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        c.MaxAge,
	}

	origins := config.SplitList(c.AllowedOrigins)
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
