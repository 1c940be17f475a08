package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/handlers"
	"campusmarket/internal/middleware"
	"campusmarket/internal/services"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	productHandler *handlers.ProductHandler,
	messageHandler *handlers.MessageHandler,
	wishlistHandler *handlers.WishlistHandler,
	sellHandler *handlers.SellHandler,
	userHandler *handlers.UserHandler,
	tokenService services.TokenService,
) *gin.Engine {
	api := r.Group("/api")

	api.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "api is working"})
	})

	// ---- public
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/verify-email", authHandler.VerifyEmail)
		auth.POST("/resend-code", authHandler.ResendCode)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}
	api.GET("/products", productHandler.List)
	api.GET("/products/:id", productHandler.Get)
	api.GET("/users/:user_id/products", productHandler.UserProducts)

	// ---- protected
	protected := api.Group("", middleware.AuthMiddleware(tokenService))
	{
		protected.GET("/auth/refresh-token", authHandler.RefreshToken)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.POST("/products", productHandler.Create)
		protected.DELETE("/products/:id", productHandler.Delete)
		protected.GET("/products/:id/user", productHandler.Owner)
		protected.GET("/my-products", productHandler.MyProducts)

		protected.GET("/messages", messageHandler.List)
		protected.POST("/messages", messageHandler.Send)

		protected.GET("/wishlist", wishlistHandler.List)
		protected.POST("/wishlist", wishlistHandler.Add)
		protected.DELETE("/wishlist/:product_id", wishlistHandler.Remove)
		protected.GET("/wishlist/check/:product_id", wishlistHandler.Check)

		protected.POST("/sells", sellHandler.Create)
		protected.GET("/sells", sellHandler.List)

		protected.GET("/users", userHandler.List)
	}

	return r
}
