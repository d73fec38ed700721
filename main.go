package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialapp/config"
	"socialapp/database"
	"socialapp/handlers"
	"socialapp/media"
	"socialapp/routes"
	"socialapp/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	var client *mongo.Client
	var err error
	for i := 1; i <= 3; i++ {
		client, err = database.Connect(cfg.MongoURI)
		if err == nil {
			break
		}
		log.Printf("MongoDB connection attempt %d failed: %v", i, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer func() {
		if err := database.Disconnect(client); err != nil {
			log.Printf("MongoDB disconnect error: %v", err)
		}
	}()
	log.Println("MongoDB connected successfully")

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	uploader, err := media.NewCloudinaryUploader(cfg.CloudinaryURL, "social-app")
	if err != nil {
		log.Fatal("Cloudinary configuration error: ", err)
	}

	db := client.Database(cfg.MongoDatabase)

	userStore := store.NewUserStore(db)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := userStore.EnsureIndexes(indexCtx); err != nil {
		indexCancel()
		log.Fatal("Failed to create user indexes: ", err)
	}
	indexCancel()

	router := routes.SetupRouter(routes.Deps{
		Cfg:   cfg,
		Posts: handlers.NewPostHandler(store.NewPostStore(db), uploader),
		Auth:  handlers.NewAuthHandler(userStore, cfg.JWTSecret),
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
		// Media uploads need headroom.
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}

	log.Println("Server stopped")
}
