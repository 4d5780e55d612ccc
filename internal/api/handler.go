package api

import (
	"net/http"

	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"okeiko-booking-backend/internal/auth"
	"okeiko-booking-backend/internal/engine"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	engine *engine.Engine
	auth   *auth.Service
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHandler creates a new API handler. The cache is the response cache used
// by the list endpoint; mutating handlers flush it so no stale availability
// outlives a write.
func NewHandler(eng *engine.Engine, authSvc *auth.Service, cacheStore *cache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		engine: eng,
		auth:   authSvc,
		cache:  cacheStore,
		logger: logger,
	}
}

func (h *Handler) flushCache() {
	if h.cache != nil {
		h.cache.Flush()
	}
}

// statusFor maps an engine outcome to an HTTP status.
func statusFor(res engine.Result) int {
	switch res.Kind {
	case engine.KindOK:
		return http.StatusOK
	case engine.KindSlotNotFound, engine.KindBookingNotFound:
		return http.StatusNotFound
	case engine.KindAlreadyBooked, engine.KindSlotFull:
		return http.StatusConflict
	case engine.KindSchemaError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
