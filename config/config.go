package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment. It is
// built once in main and passed down; nothing else touches os.Getenv.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	CloudinaryURL string
	ClientURL     string
	GinMode       string
}

// Load reads configuration from the environment. A .env file is applied
// first when present so local runs match deployed env vars.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          getenv("PORT", "8080"),
		MongoURI:      getenv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getenv("MONGODB_DATABASE", "socialapp"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		ClientURL:     getenv("CLIENT_URL", "http://localhost:3000"),
		GinMode:       os.Getenv("GIN_MODE"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
