package main

import (
	"log"
	"net/http"
	"os"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}
	log.Println("MongoDB connection established successfully!")

	if err := models.EnsureUpvoteIndex(config.GetCollection("upvotes")); err != nil {
		log.Fatalf("Failed to ensure upvote index: %v", err)
	}

	// Redis is optional; without it the issue rate limiter is disabled.
	if os.Getenv("REDIS_ADDRESS") != "" {
		config.ConnectRedis()
		log.Println("Redis connection established successfully!")
	} else {
		log.Println("REDIS_ADDRESS not set, rate limiting disabled")
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = []string{origin}
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	routes.AuthRoutes(r)
	routes.IssueRoutes(r)
	routes.NotificationRoutes(r)
	routes.UserRoutes(r)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
