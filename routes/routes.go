package routes

import (
	"net/http"
	"strings"
	"time"

	"socialapp/config"
	"socialapp/handlers"
	"socialapp/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps is everything the router wires together.
type Deps struct {
	Cfg   config.Config
	Posts *handlers.PostHandler
	Auth  *handlers.AuthHandler
}

func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{deps.Cfg.ClientURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Social App API is running!"})
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := router.Group("/api")
	api.Use(middleware.NewIPRateLimiter(60, time.Minute).Middleware())

	api.POST("/auth/signup", deps.Auth.Signup)
	api.POST("/auth/login", deps.Auth.Login)

	// Reads are public, mutations require a token.
	api.GET("/posts", deps.Posts.GetPosts)
	api.GET("/posts/:id/comments", deps.Posts.GetComments)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(deps.Cfg.JWTSecret))
	authed.POST("/posts", deps.Posts.CreatePost)
	authed.POST("/posts/:id/like", deps.Posts.LikePost)
	authed.POST("/posts/:id/comment", deps.Posts.AddComment)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
		}
	})

	return router
}
