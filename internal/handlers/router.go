package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/receipt-points/internal/validation"
)

// SetupRouter builds the API engine: recovery, the given middleware, validation
// error translation, the receipts routes and a JSON 404 for everything else.
func SetupRouter(cfg HandlerConfig, middleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(recovered(cfg)))
	r.Use(middleware...)
	r.Use(validation.Responder(ValidationOverrides()))

	RegisterReceiptsRoutes(r, cfg)
	r.NoRoute(NotFound)

	return r
}

// recovered answers a panicking request with the same 500 body as any other internal error.
func recovered(cfg HandlerConfig) gin.RecoveryFunc {
	return func(c *gin.Context, err interface{}) {
		if cfg.Logger != nil {
			cfg.Logger.Errorw("panic recovered", "method", c.Request.Method, "path", c.Request.URL.Path, "panic", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": detailInternal})
	}
}
