package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"library-desk/internal/catalog"
	"library-desk/internal/circulation"
	"library-desk/internal/directory"
	"library-desk/internal/docs"
	"library-desk/internal/platform/config"
	"library-desk/internal/platform/web"
)

func newRouter(cfg *config.Config, svc services, log *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), web.RequestID(), web.Logger(log))
	_ = r.SetTrustedProxies(nil)

	if len(cfg.HTTP.CORSOrigins) > 0 {
		// CORS（フロントを別オリジンで動かす場合のみ）
		r.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.HTTP.CORSOrigins,
			AllowHeaders:  []string{"Origin", "Content-Type", web.HeaderRequestID},
			ExposeHeaders: []string{"Content-Length", "Location", web.HeaderRequestID},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// /swagger/index.html
	docs.SwaggerInfo.Version = cfg.Version
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api/v1
	api := r.Group(docs.SwaggerInfo.BasePath)
	catalog.RegisterRoutes(api, svc.catalog)
	directory.RegisterRoutes(api, svc.directory)
	circulation.RegisterRoutes(api, svc.circulation)

	r.NoRoute(func(c *gin.Context) {
		web.Error(c, web.ErrRouteNotFound)
	})
	return r
}
