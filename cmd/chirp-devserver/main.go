package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"github.com/chirpsocial/chirp-go/internal/devserver"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	gin.SetMode(gin.ReleaseMode)
	server := devserver.New(os.Getenv("JWT_SECRET"))
	router := server.Router()

	log.Printf("dev server listening on :%s (API under /api)", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
