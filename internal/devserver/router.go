package devserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gebeyahub/profile-engine/internal/config"
)

// SetupRouter wires the devserver routes and middleware.
func SetupRouter(cfg *config.Config, h *Handler, tokens *TokenManager) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/auth/login", RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod), h.Login)

	me := api.Group("/users/me", AuthMiddleware(tokens))
	me.GET("/profile", h.GetProfile)
	me.PUT("/profile", h.UpdateProfile)
	me.POST("/password", h.ChangePassword)

	return r
}
