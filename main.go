package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("calorie-counter-api: ")
	log.SetFlags(0)

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set")
		os.Exit(1)
	}

	h := &Handler{
		db:            getDBPool(),
		hub:           newRealtimeHub(),
		jwtSecret:     []byte(secret),
		openAIBaseURL: "https://api.openai.com",
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// gin.Engine is an http.Handler, so the CORS layer wraps it directly.
	corsLayer := cors.New(cors.Options{
		AllowedOrigins:   []string{frontendOrigin()},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Listening on :%s\n", port)
	if err := http.ListenAndServe(":"+port, corsLayer.Handler(router)); err != nil {
		log.Fatal(err)
	}
}

// frontendOrigin returns the origin allowed to call the API with credentials.
func frontendOrigin() string {
	if o := os.Getenv("FRONTEND_ORIGIN"); o != "" {
		return o
	}
	return "http://localhost:3000"
}
