package app

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"campusmarket/internal/config"
	"campusmarket/internal/handlers"
	"campusmarket/internal/middleware"
	"campusmarket/internal/repositories"
	"campusmarket/internal/routes"
	"campusmarket/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "campusmarket/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	wishlistRepo := repositories.NewWishlistRepository(db)
	sellRepo := repositories.NewSellRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(cfg.Email)
	userService := services.NewUserService(userRepo, authService)
	verificationService := services.NewVerificationService(
		userRepo,
		authService,
		time.Duration(cfg.Auth.CodeTTLMinutes)*time.Minute,
	)
	tokenService := services.NewTokenService(tokenRepo)
	productService := services.NewProductService(productRepo, userRepo)
	messageService := services.NewMessageService(messageRepo, userRepo)
	wishlistService := services.NewWishlistService(wishlistRepo, productRepo)
	sellService := services.NewSellService(sellRepo, productRepo, userRepo)

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(
		userService,
		authService,
		verificationService,
		tokenService,
		emailService,
		cfg.Auth.ExposeResetCode,
	)
	productHandler := handlers.NewProductHandler(productService)
	messageHandler := handlers.NewMessageHandler(messageService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	sellHandler := handlers.NewSellHandler(sellService)
	userHandler := handlers.NewUserHandler(userService)

	// === Gin ===
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		productHandler,
		messageHandler,
		wishlistHandler,
		sellHandler,
		userHandler,
		tokenService,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
