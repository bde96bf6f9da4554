package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopauth/internal/handlers"
	"shopauth/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	passwordHandler *handlers.PasswordHandler,
	auth middleware.TokenAuthenticator,
	metricsHandler http.Handler, // может быть nil
) *gin.Engine {

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	api := r.Group("/api/v1/auth")

	// ---- public
	api.POST("/signup", userHandler.Signup)
	api.POST("/login", authHandler.Login)
	api.GET("/password", passwordHandler.RequestCode)
	api.POST("/password", passwordHandler.Reset)
	api.PATCH("/password", passwordHandler.Change)

	// refresh/revoke сами проверяют тип токена, middleware для access тут не годится
	api.GET("/refresh", authHandler.Refresh)
	api.DELETE("/access-revoke", authHandler.RevokeAccess)
	api.DELETE("/refresh-revoke", authHandler.RevokeRefresh)

	// ---- protected
	protected := api.Group("/", middleware.AuthMiddleware(auth))
	{
		protected.GET("/", authHandler.Hello)
		protected.GET("/me", authHandler.Me)
		protected.GET("/users/:username", middleware.RequireStaff(), authHandler.GetUser)
	}

	return r
}
