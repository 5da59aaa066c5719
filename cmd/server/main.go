package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/taskforge/task-manager-api/internal/config"
	"github.com/taskforge/task-manager-api/internal/database"
	"github.com/taskforge/task-manager-api/internal/handlers"
	"github.com/taskforge/task-manager-api/internal/repository"
	"github.com/taskforge/task-manager-api/internal/services"
	"github.com/taskforge/task-manager-api/internal/tokens"
	"github.com/taskforge/task-manager-api/pkg/logger"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	createSuperuser := flag.Bool("create-superuser", false, "create an admin superuser and exit")
	promote := flag.String("promote", "", "flag an existing user as superuser and exit")
	username := flag.String("username", "", "superuser username")
	email := flag.String("email", "", "superuser email")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.Init(logger.Options{})
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	gin.SetMode(cfg.GinMode)

	// Connect to database
	gormLevel := gormlogger.Warn
	if logger.ParseLevel(cfg.LogLevel) <= zerolog.DebugLevel {
		gormLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.DB, gormLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx := context.Background()

	// Redis backs token revocation and sessions. Without it logout cannot
	// revoke tokens and sessions fall back to signed cookies.
	var (
		rdb      *redis.Client
		denylist tokens.Denylist
	)
	if client, err := tokens.Connect(ctx, cfg.Redis); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, token revocation disabled")
	} else {
		rdb = client
		denylist = tokens.NewRedisDenylist(client)
		defer rdb.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authService := services.NewAuthService(userRepo, denylist, cfg.Auth)
	userService := services.NewUserService(userRepo, authService)

	switch {
	case *createSuperuser:
		user, err := userService.CreateSuperuser(ctx, services.SuperuserInput{
			Username: *username,
			Email:    *email,
			Password: *password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create superuser")
		}
		log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("superuser created")
		return
	case *promote != "":
		user, err := userService.PromoteToSuperuser(ctx, *promote)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to promote user")
		}
		log.Info().Uint64("user_id", user.ID).Str("username", user.Username).Msg("user promoted to superuser")
		return
	}

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access sql.DB")
	}

	deps := handlers.RouterDeps{
		Logger:         log,
		SessionStore:   newSessionStore(cfg, rdb != nil, log),
		DB:             sqlDB,
		AuthService:    authService,
		UserService:    userService,
		TaskService:    services.NewTaskService(taskRepo, userRepo, aiService),
		CommentService: services.NewCommentService(commentRepo, taskRepo),
	}
	// A nil *redis.Client must not become a non-nil interface.
	if rdb != nil {
		deps.Redis = rdb
	}
	r := handlers.NewRouter(deps)

	// Start server
	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("server starting")
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// newSessionStore returns the redis session store, or a cookie store when
// redis is not reachable.
func newSessionStore(cfg *config.Config, useRedis bool, log zerolog.Logger) sessions.Store {
	secret := []byte(cfg.Auth.SessionSecret)

	var store sessions.Store
	if useRedis {
		rs, err := redisStore.NewStoreWithDB(
			10,             // Redis pool size
			"tcp",          // network type
			cfg.Redis.Addr, // Redis address from config
			cfg.Redis.Password,
			strconv.Itoa(cfg.Redis.DB),
			secret,
		)
		if err != nil {
			log.Warn().Err(err).Msg("redis session store unavailable, using cookie sessions")
		} else {
			store = rs
		}
	}
	if store == nil {
		store = cookie.NewStore(secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store
}
