package routes

import (
	"net/http"

	"testline/handlers"
	"testline/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	subjectHandler *handlers.SubjectHandler,
	testHandler *handlers.TestHandler,
	randomHandler *handlers.RandomHandler,
	resultHandler *handlers.ResultHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		api.POST("/auth/login", authHandler.Login)

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Subject routes
			subjects := protected.Group("/subjects")
			{
				subjects.GET("", subjectHandler.ListSubjects)
				subjects.GET("/:id/tests", subjectHandler.GetSubjectTests)

				// Random test routes
				subjects.POST("/:id/random", randomHandler.BuildRandom)
				subjects.GET("/:id/random", randomHandler.GetPendingRandom)
				subjects.POST("/:id/random/submit", randomHandler.SubmitRandom)
			}

			// Test routes
			tests := protected.Group("/tests")
			{
				tests.GET("/:id", testHandler.GetTest)
				tests.POST("/:id/submit", testHandler.SubmitTest)
				tests.POST("/:id/retake", testHandler.RetakeTest)
			}

			// Result routes
			protected.GET("/attempts/:id/result", resultHandler.GetResult)
			protected.GET("/profile", resultHandler.GetSummary)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
