package routes

import (
	"time"

	"bookreview/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers signup, login and logout.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.SignupHandler)
		api.POST("/login", hb.LoginHandler)
		api.POST("/logout", hb.AuthMiddleware, hb.LogoutHandler)
	}
}

// RegisterBookRoutes registers book endpoints and review submission.
func RegisterBookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/books")
	{
		api.GET("", hb.ListBooksHandler)
		api.GET("/search", hb.SearchBooksHandler)
		api.GET("/:id", hb.GetBookHandler)

		// Protected routes (Require Authentication)
		protected := api.Group("")
		protected.Use(hb.AuthMiddleware)
		protected.POST("", hb.CreateBookHandler)
		protected.PUT("/:id", hb.UpdateBookHandler)
		protected.DELETE("/:id", hb.DeleteBookHandler)
		protected.POST("/:id/reviews", hb.AddReviewHandler)
	}
}

// RegisterReviewRoutes registers owner-only review edits.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.Use(hb.AuthMiddleware)
		api.PUT("/:id", hb.UpdateReviewHandler)
		api.DELETE("/:id", hb.DeleteReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterBookRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
