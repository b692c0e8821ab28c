package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/staybnb/staybnb-backend/internal/database"
	"github.com/staybnb/staybnb-backend/internal/handlers"
	"github.com/staybnb/staybnb-backend/internal/middleware"
	"github.com/staybnb/staybnb-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := services.InitRedis(); err != nil {
		log.Printf("Redis initialization warning: %v", err)
	}

	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	bookings := services.NewBookingService(db)

	hub := services.NewHub()
	go hub.Run()

	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "./uploads")

	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/signup", handlers.Signup(db))
			auth.POST("/login", handlers.Login(db))
		}

		properties := api.Group("/properties")
		{
			properties.GET("", handlers.GetProperties(db))
			properties.GET("/search", handlers.SearchProperties(db))
			properties.GET("/:id", handlers.GetProperty(db))
		}

		// WebSocket connection
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocketHandler(hub))

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			bookingRoutes := protected.Group("/bookings")
			{
				bookingRoutes.POST("", handlers.CreateBooking(db, bookings, hub))
				bookingRoutes.POST("/:id/confirm", handlers.ConfirmBooking(bookings, hub))
				bookingRoutes.POST("/:id/cancel", handlers.CancelBooking(bookings, hub))
				bookingRoutes.GET("/user", handlers.GetUserBookings(bookings))
			}

			protected.POST("/properties/:id/images", handlers.UploadPropertyImage(db))
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
