package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
)

// NewRouter wires the REST API. Handler errors never leak internals: panics
// become a generic 500 body, unknown routes a generic 404.
func NewRouter(service *app.TriviaService, issuer *auth.Issuer) *gin.Engine {
	h := &Handler{service: service, issuer: issuer}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	{
		api.POST("/login", h.Login)

		player := api.Group("", requireCredential(issuer.Verify))
		{
			player.GET("/questions/random", h.RandomQuestion)
			player.POST("/answers", h.SubmitAnswer)
		}

		admin := api.Group("/metrics", requireCredential(issuer.VerifyAdmin))
		{
			admin.GET("/users", h.UserMetrics)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})
	return r
}
