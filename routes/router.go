package routes

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"polls-service/config"
	"polls-service/handlers"
	"polls-service/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server for graceful shutdown.
type Server struct {
	*http.Server
}

// SetupRouter configures the Gin engine: CORS, request ids, optional rate
// limiting, and the versioned API routes. Write endpoints sit behind the
// bearer-token middleware; reads are open.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestID())

	if cfg.RateLimitEnabled {
		router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Disallowed methods get an explicit 405 instead of a 404.
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed,
			gin.H{"detail": fmt.Sprintf("Method %q not allowed.", c.Request.Method)})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	})

	auth := middleware.RequireAuth(cfg.JWTSecret)

	api := router.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		// Poll CRUD; writes require authentication.
		api.GET("/poll/", handlers.ListPolls)
		api.POST("/poll/", auth, handlers.CreatePoll)
		api.GET("/poll/:poll_id/", handlers.GetPoll)
		api.PUT("/poll/:poll_id/", auth, handlers.UpdatePoll)
		api.PATCH("/poll/:poll_id/", auth, handlers.UpdatePoll)
		api.DELETE("/poll/:poll_id/", auth, handlers.DeletePoll)

		// Question CRUD scoped to a poll.
		api.GET("/poll/:poll_id/question/", handlers.ListQuestions)
		api.POST("/poll/:poll_id/question/", auth, handlers.CreateQuestion)
		api.GET("/poll/:poll_id/question/:id/", handlers.GetQuestion)
		api.PUT("/poll/:poll_id/question/:id/", auth, handlers.UpdateQuestion)
		api.PATCH("/poll/:poll_id/question/:id/", auth, handlers.UpdateQuestion)
		api.DELETE("/poll/:poll_id/question/:id/", auth, handlers.DeleteQuestion)

		// Submissions: list and create only, immutable afterwards.
		api.GET("/answer/", handlers.ListAnswers)
		api.POST("/answer/", handlers.SubmitAnswers)
	}

	return router
}

// StartServer starts the HTTP server in a goroutine and returns the wrapper
// so main can shut it down gracefully.
func StartServer(router *gin.Engine, cfg *config.Config) *Server {
	addr := ":" + cfg.ServerPort

	srv := &Server{
		&http.Server{
			Addr:    addr,
			Handler: router,
		},
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	return srv
}
