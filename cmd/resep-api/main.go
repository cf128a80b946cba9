package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	authapi "github.com/dapur-gratis/resep-api/delivery/auth-api"
	"github.com/dapur-gratis/resep-api/delivery/helper"
	notificationapi "github.com/dapur-gratis/resep-api/delivery/notification-api"
	recipeapi "github.com/dapur-gratis/resep-api/delivery/recipe-api"
	userapi "github.com/dapur-gratis/resep-api/delivery/user-api"
	"github.com/dapur-gratis/resep-api/lib/push"
	"github.com/dapur-gratis/resep-api/lib/push/fcm"
	"github.com/dapur-gratis/resep-api/repository/blob"
	blob_gcs "github.com/dapur-gratis/resep-api/repository/blob/gcs"
	blob_inmemory "github.com/dapur-gratis/resep-api/repository/blob/inmemory"
	blob_s3 "github.com/dapur-gratis/resep-api/repository/blob/s3"
	"github.com/dapur-gratis/resep-api/repository/limiter"
	limiter_redis "github.com/dapur-gratis/resep-api/repository/limiter/redis"
	notification_postgres "github.com/dapur-gratis/resep-api/repository/notification/postgres"
	password_postgres "github.com/dapur-gratis/resep-api/repository/password/postgres"
	recipe_postgres "github.com/dapur-gratis/resep-api/repository/recipe/postgres"
	user_postgres "github.com/dapur-gratis/resep-api/repository/user/postgres"
	"github.com/dapur-gratis/resep-api/usecase/attachment"
	"github.com/dapur-gratis/resep-api/usecase/auth"
	auth_handler "github.com/dapur-gratis/resep-api/usecase/auth/handler"
	"github.com/dapur-gratis/resep-api/usecase/notification"
	notification_handler "github.com/dapur-gratis/resep-api/usecase/notification/handler"
	"github.com/dapur-gratis/resep-api/usecase/recipe"
	recipe_handler "github.com/dapur-gratis/resep-api/usecase/recipe/handler"
	"github.com/dapur-gratis/resep-api/usecase/user"
	user_handler "github.com/dapur-gratis/resep-api/usecase/user/handler"
	"github.com/dapur-gratis/resep-api/utility/secret"
	"github.com/dapur-gratis/resep-api/utility/secretkv"
	"github.com/dapur-gratis/resep-api/utility/secretkv/gsm"

	"google.golang.org/api/option"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Logger()
}

func main() {
	ctx := context.Background()

	configPath := flag.String("config", "config/development.yaml", "path to the config file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Msgf("Failed to load config: %v", err)
	}

	secrets := loadSecrets(ctx, cfg)

	db, err := connectPostgres(cfg.Database)
	if err != nil {
		log.Fatal().Msgf("Failed to connect postgres: %v", err)
	}

	blobRepo := buildBlobStore(ctx, cfg)
	preflight(ctx, blobRepo)

	recipeRepo := recipe_postgres.New(db, "recipes")
	userRepo := user_postgres.New(db, "users")
	passwordRepo := password_postgres.NewHashed(db, "user_credentials")
	notificationRepo := notification_postgres.New(db, "notifications", "users")

	limiterRepo := buildLimiter(cfg)

	policy := attachment.DefaultPolicy()
	recipeCoordinator := attachment.New(blobRepo, policy, "recipes")
	profileCoordinator := attachment.New(blobRepo, policy, "profile")

	recipeUC := recipe_handler.New(recipeRepo, recipeCoordinator)
	userUC := user_handler.New(userRepo, passwordRepo, profileCoordinator)
	authUC := auth_handler.New(userRepo, passwordRepo, limiterRepo, auth_handler.Config{
		Issuer:        cfg.Auth.Issuer,
		HMACKeys:      secrets.HMAC,
		SigningKeyID:  cfg.Auth.SigningKeyID,
		TokenTTL:      cfg.Auth.TokenTTL,
		MaxAttempts:   cfg.Auth.MaxAttempts,
		AttemptWindow: cfg.Auth.AttemptWindow,
	})
	notificationUC := notification_handler.New(
		buildMessenger(ctx, cfg, secrets),
		userRepo,
		notificationRepo,
	)

	router := httprouter.New()
	registerRoutes(router, authUC, recipeUC, userUC, notificationUC)

	server := http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log.Info().Msgf("Shutting down HTTP server..")
		if err := server.Shutdown(ctx); err != nil {
			log.Err(err).Msgf("HTTP server Shutdown")
		}
		log.Info().Msgf("Stopped serving new connections.")
		close(idleConnsClosed)
	}()

	log.Info().Msgf("Serving at %v..", cfg.Server.Address)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Msgf("HTTP server ListenAndServe: %v", err)
	}

	<-idleConnsClosed
	log.Info().Msgf("Bye bye")
}

func loadSecrets(ctx context.Context, cfg *Config) *secret.Secret {
	if secret.Strategy(cfg.Secret.Strategy) == secret.STRATEGY_GSM {
		provider, err := gsm.New(ctx, cfg.Secret.GSMProject)
		if err != nil {
			log.Fatal().Msgf("Failed to create secret manager client: %v", err)
		}
		secretkv.Default = provider
	}

	secrets, err := secret.Load(ctx, secret.Strategy(cfg.Secret.Strategy), cfg.Secret.Path)
	if err != nil {
		log.Fatal().Msgf("Failed to load secrets: %v", err)
	}
	if len(secrets.HMAC) == 0 {
		log.Fatal().Msgf("Secret document contains no HMAC signing keys")
	}
	return secrets
}

func buildBlobStore(ctx context.Context, cfg *Config) blob.Repository {
	switch cfg.Blob.Provider {
	case "s3":
		store, err := blob_s3.New(
			cfg.Blob.S3.Endpoint,
			cfg.Blob.S3.AccessKeyID,
			cfg.Blob.S3.SecretAccessKey,
			cfg.Blob.S3.UseSSL,
			cfg.Blob.S3.Bucket,
			cfg.Blob.BasePublicURL,
		)
		if err != nil {
			log.Fatal().Msgf("Failed to create s3 client: %v", err)
		}
		return store
	case "gcs":
		var opts []option.ClientOption
		if cfg.Blob.GCS.CredentialFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.Blob.GCS.CredentialFile))
		}
		store, err := blob_gcs.New(ctx, cfg.Blob.GCS.Bucket, cfg.Blob.BasePublicURL, opts...)
		if err != nil {
			log.Fatal().Msgf("Failed to create gcs client: %v", err)
		}
		return store
	case "memory":
		log.Warn().Msgf("Using in-memory blob store; images will not survive a restart")
		return blob_inmemory.New(cfg.Blob.BasePublicURL)
	}
	log.Fatal().Msgf("Unknown blob provider '%v'", cfg.Blob.Provider)
	return nil
}

// preflight probes the blob store once at boot. A misconfigured store
// (wrong bucket, bad credentials) is fatal; plain connectivity failure is
// only a warning since the store may come up later.
func preflight(ctx context.Context, blobRepo blob.Repository) {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	errUC := blobRepo.CheckReachable(probeCtx)
	if errUC == nil {
		log.Info().Msgf("Blob store reachable")
		return
	}
	if errUC.Top().Code == "STORE_MISCONFIGURED" {
		log.Fatal().Msgf("Blob store misconfigured: %v", errUC.Top().Message)
	}
	log.Warn().Msgf("Blob store not reachable yet: %v", errUC.Top().Message)
}

func buildLimiter(cfg *Config) limiter.Repository {
	if !cfg.Redis.Enabled {
		log.Warn().Msgf("Redis disabled; login attempts are not rate limited")
		return limiter.NewUnlimited()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return limiter_redis.New(client)
}

func buildMessenger(ctx context.Context, cfg *Config, secrets *secret.Secret) push.Messenger {
	if !cfg.FCM.Enabled {
		log.Warn().Msgf("FCM disabled; push messages are dropped")
		return noopMessenger{}
	}

	credential, ok := secrets.KV[cfg.FCM.CredentialKey]
	if !ok {
		log.Fatal().Msgf("FCM credential '%v' not found in secret document", cfg.FCM.CredentialKey)
	}

	messenger, err := fcm.New(ctx, cfg.FCM.ProjectID, []byte(credential))
	if err != nil {
		log.Fatal().Msgf("Failed to create FCM client: %v", err)
	}
	return messenger
}

type noopMessenger struct{}

func (noopMessenger) Send(ctx context.Context, message push.Message) error {
	log.Info().Msgf("Dropping push message '%v' for token %v..", message.Title, truncateToken(message.Token))
	return nil
}

func truncateToken(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}

func registerRoutes(
	router *httprouter.Router,
	authUC auth.Usecase,
	recipeUC recipe.Usecase,
	userUC user.Usecase,
	notificationUC notification.Usecase,
) {
	authHandler := authapi.New(authUC, userUC)
	recipeHandler := recipeapi.New(recipeUC)
	userHandler := userapi.New(userUC)
	notificationHandler := notificationapi.New(notificationUC, userUC)

	withAuth := func(next httprouter.Handle) httprouter.Handle {
		return helper.Authenticate(authUC, next)
	}
	adminOnly := func(next httprouter.Handle) httprouter.Handle {
		return helper.Authenticate(authUC, helper.RequireAdmin(next))
	}

	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/register", authHandler.Register)

	router.GET("/recipes", recipeHandler.GetAll)
	// httprouter cannot mix a static segment with ":id", so the
	// own-recipes listing lives under /my
	router.GET("/my/recipes", withAuth(recipeHandler.GetMine))
	router.GET("/recipes/:id", recipeHandler.GetOne)
	router.POST("/recipes", withAuth(recipeHandler.Post))
	router.PUT("/recipes/:id", withAuth(recipeHandler.Put))
	router.DELETE("/recipes/:id", withAuth(recipeHandler.Delete))

	router.GET("/users", withAuth(userHandler.GetAll))
	router.GET("/users/:id", withAuth(userHandler.GetOne))
	router.PUT("/users/:id", withAuth(userHandler.Put))
	router.DELETE("/users/:id", withAuth(userHandler.Delete))

	router.POST("/notifications/token", withAuth(notificationHandler.RegisterToken))
	router.POST("/admin/notifications/broadcast", adminOnly(notificationHandler.Broadcast))
	router.POST("/admin/notifications/device", adminOnly(notificationHandler.SendToDevice))
	router.GET("/admin/notifications/history", adminOnly(notificationHandler.History))
}
