package handlers

import (
	"database/sql"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/taskforge/task-manager-api/internal/constants"
	"github.com/taskforge/task-manager-api/internal/middleware"
	"github.com/taskforge/task-manager-api/internal/services"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Logger         zerolog.Logger
	SessionStore   sessions.Store
	DB             *sql.DB
	Redis          redis.UniversalClient
	AuthService    *services.AuthService
	UserService    *services.UserService
	TaskService    *services.TaskService
	CommentService *services.CommentService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(sessions.Sessions(constants.SessionCookieName, deps.SessionStore))

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	taskHandler := NewTaskHandler(deps.TaskService)
	commentHandler := NewCommentHandler(deps.CommentService)
	healthHandler := NewHealthHandler(deps.DB, deps.Redis)

	r.GET("/health", healthHandler.Liveness)
	r.GET("/health/ready", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireAuth := middleware.RequireAuth(deps.AuthService)

	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Registration is public, listing is not
		users := api.Group("/users")
		{
			users.POST("", userHandler.Register)
			users.GET("", requireAuth, userHandler.ListUsers)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth, middleware.RequireTaskAPIRole())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/generate", taskHandler.GenerateTasks)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		comments := api.Group("/task-comments")
		comments.Use(requireAuth, middleware.RequireTaskAPIRole())
		{
			comments.GET("", commentHandler.ListComments)
			comments.POST("", commentHandler.CreateComment)
			comments.GET("/:id", commentHandler.GetComment)
			comments.PATCH("/:id", commentHandler.UpdateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	return r
}
