package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizmaster-service/internal/app"
	"quizmaster-service/internal/auth"
	"quizmaster-service/internal/config"
	"quizmaster-service/internal/infra/memory"
	"quizmaster-service/internal/infra/postgres"
	infraredis "quizmaster-service/internal/infra/redis"
	"quizmaster-service/internal/lib/slogx"
	transport "quizmaster-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := slog.New(slogx.NewHandler(os.Stdout, slog.LevelInfo))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *goredis.Client
	if cfg.Redis.Addr != "" {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		users     app.UserRepository
		userStore auth.UserStore
		quizzes   app.QuizRepository
		results   app.ResultRepository
	)
	if pool != nil {
		userRepo := postgres.NewUserRepository(pool)
		users, userStore = userRepo, userRepo
		quizzes = postgres.NewQuizRepository(pool)
		results = postgres.NewResultRepository(pool)
	} else {
		userRepo := memory.NewUserRepository()
		quizRepo := memory.NewQuizRepository()
		users, userStore = userRepo, userRepo
		quizzes = quizRepo
		results = memory.NewResultRepository(userRepo, quizRepo)
	}

	if redisClient != nil {
		quizTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
		quizzes = infraredis.NewQuizCache(redisClient, quizzes, quizTTL)
	}

	var leaderboard app.LeaderboardSource = app.NewStatsLeaderboard(users, results, cfg.Leaderboard.Size)
	if redisClient != nil {
		lbTTL := config.TTLDuration(cfg.Leaderboard.CacheTTL, 15*time.Second)
		leaderboard = infraredis.NewLeaderboardSource(redisClient, leaderboard, lbTTL)
	}

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = "dev-secret-change-me"
		logger.Warn("auth secret not configured, using insecure default")
	}
	authService := auth.NewService(userStore, secret, config.TTLDuration(cfg.Auth.TokenTTL, 30*24*time.Hour))

	feed := app.NewLeaderboardFeed()
	service := app.NewQuizService(users, quizzes, results, leaderboard, feed)

	if pool == nil {
		// In-memory runs start empty; seed the demo content so the API is usable.
		if err := seedDemoData(ctx, authService, service); err != nil {
			return err
		}
	}

	api := transport.NewAPI(authService, service, logger)
	wsHandler := transport.NewWSHandler(service, logger)

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("GET /ws/leaderboard", wsHandler.ServeLeaderboard)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quizmaster service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
