package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/config"
	"trivia-service/internal/infra/file"
	"trivia-service/internal/infra/memory"
	"trivia-service/internal/infra/postgres"
	infraredis "trivia-service/internal/infra/redis"
	transport "trivia-service/internal/transport/http"
)

// devSecret keeps a fresh checkout runnable; any real deployment sets
// JWT_SECRET or auth.secret in the config file.
const devSecret = "trivia-dev-secret-do-not-deploy"

const defaultQuestionsPath = "data/questions.json"

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
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

	secret := cfg.Auth.Secret
	if secret == "" {
		log.Printf("auth.secret not configured, using built-in dev secret")
		secret = devSecret
	}
	tokenTTL := config.TokenTTL(cfg.Auth.TokenTTL, time.Hour)

	questionsPath := cfg.Questions.Path
	if questionsPath == "" {
		questionsPath = defaultQuestionsPath
	}
	questions := file.NewQuestionStore(questionsPath)

	var users app.UserStore
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		users = postgres.NewUserStore(pool)
		log.Printf("using postgres user store")
	case cfg.Redis.Addr != "":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		users = infraredis.NewUserStore(client)
		log.Printf("using redis user store")
	default:
		users = memory.NewUserStore()
		log.Printf("no postgres or redis configured, records are in-memory only")
	}

	issuer := auth.NewIssuer(secret, tokenTTL, users)
	service := app.NewTriviaService(questions, users)
	router := transport.NewRouter(service, issuer)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
