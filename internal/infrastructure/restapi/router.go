package restapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

const swaggerSpecRoute = "/docs/swagger.yaml"

// RouterOptions carries the optional pieces of the HTTP surface.
type RouterOptions struct {
	AllowedOrigins []string
	// SwaggerSpecPath enables /swagger/*any when non-empty.
	SwaggerSpecPath string
	// WebSocketHandler enables GET /api/v1/pairs/ws when non-nil.
	WebSocketHandler gin.HandlerFunc
	AccessLogger     *zap.Logger
}

// SetupRouter builds the gin engine with all routes registered.
func SetupRouter(pairHandler *PairHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if opts.AccessLogger != nil {
		router.Use(RequestLogger(opts.AccessLogger))
	}
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/pairs", pairHandler.GetPairsHandler)
		v1.GET("/pairs/summary", pairHandler.GetSummaryHandler)
		v1.PATCH("/pairs/filter", pairHandler.PatchFilterHandler)
		v1.DELETE("/pairs/filter", pairHandler.ClearFilterHandler)
		v1.PUT("/pairs/sort", pairHandler.PutSortHandler)
		v1.POST("/pairs/refresh", pairHandler.RefreshHandler)
		v1.GET("/networks", pairHandler.ListNetworksHandler)
		if opts.WebSocketHandler != nil {
			v1.GET("/pairs/ws", opts.WebSocketHandler)
		}
	}

	if opts.SwaggerSpecPath != "" {
		router.StaticFile(swaggerSpecRoute, opts.SwaggerSpecPath)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(swaggerSpecRoute)))
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	cfg.MaxAge = 12 * time.Hour
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// RequestLogger writes one zap entry per request.
func RequestLogger(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			l.Error("HTTP request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			l.Warn("HTTP request", fields...)
		default:
			l.Debug("HTTP request", fields...)
		}
	}
}
