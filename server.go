package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/parcops/parc_backend/config"
	"github.com/parcops/parc_backend/handlers"
	"github.com/parcops/parc_backend/middlewares"
	"github.com/parcops/parc_backend/models"
)

const defaultPort = "8080"

func main() {
	godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	// Connect dependencies after the HTTP server is listening; the container
	// must bind $PORT quickly. Health reports readiness in the meantime.
	go func() {
		config.ConnectDatabaseWithRetry()
		models.MigrateTable()
		config.ConnectRedisWithRetry()
	}()

	if err := handlers.RegisterBindingValidations(); err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	r.Use(cors.New(corsConfig()))
	r.Use(middlewares.CorrelationMiddleware())
	r.Use(middlewares.AuthMiddleware())

	r.GET("/health", func(c *gin.Context) {
		if config.GetDB() == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/login", handlers.LoginHandler())
		api.POST("/movements", middlewares.RequireUser(), handlers.ExecuteMovementHandler())
		api.GET("/attributions", handlers.ListAttributionsHandler())
		api.GET("/attributions/:id", handlers.GetAttributionHandler())
		api.GET("/attributions/:id/history", handlers.GetAttributionHistoryHandler())
		api.GET("/resources/:kind/:id/history", handlers.GetResourceHistoriesHandler())
	}

	log.Printf("listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Correlation-Id")
	return corsCfg
}
