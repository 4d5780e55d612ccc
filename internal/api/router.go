package api

import (
	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"okeiko-booking-backend/config"
	"okeiko-booking-backend/internal/auth"
	"okeiko-booking-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, authSvc *auth.Service, cfg config.ServerConfig, cacheStore *cache.Cache) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst, cfg.RequestIPHeader)
	caching := mw.Cache(cacheStore, cfg.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/login", handler.Login)

		authed := api.Group("")
		authed.Use(mw.RequireSession(authSvc))
		{
			authed.POST("/logout", handler.Logout)
			authed.GET("/me", handler.Me)

			authed.GET("/appointments", caching, handler.ListAppointments)
			authed.POST("/appointments/:id/bookings", handler.Reserve)
			authed.DELETE("/appointments/:id/bookings", handler.Cancel)

			admin := authed.Group("")
			admin.Use(mw.RequireAdmin())
			{
				admin.POST("/slots", handler.CreateSlot)
				admin.DELETE("/slots/:id", handler.DeleteSlot)
			}
		}
	}

	return r
}
