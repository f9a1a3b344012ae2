package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/application/pickup"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/audit"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/bootstrap"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/catalog"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/directory"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/identity"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/config"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/httpserver"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/logger"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/metrics"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/middleware"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/postgres"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/platform/redis"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/ratelimit/authlockout"
	"github.com/mannyservice91-lab/cuba-visa-backend/internal/token"
	httptransport "github.com/mannyservice91-lab/cuba-visa-backend/internal/transport/http"
	"github.com/mannyservice91-lab/cuba-visa-backend/pkg/email"
)

// main wires dependencies and owns the server lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("schema migration failed", "error", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var lockoutStore authlockout.Store
	if redisClient != nil {
		lockoutStore = authlockout.NewRedisStore(redisClient.Client)
	} else {
		log.Warn("redis not configured, using in-memory login lockout")
		lockoutStore = authlockout.NewInMemoryStore()
	}
	lockout := authlockout.New(lockoutStore, cfg.LockoutThreshold, cfg.LockoutWindow)

	auditStore := audit.NewPostgresStore(db)
	auditWorker := audit.NewWorker(auditStore, log, 256)

	m := metrics.New()
	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)

	users := identity.NewPostgresUserStore(db)
	identitySvc := identity.NewService(
		users,
		identity.NewPostgresAdminStore(db),
		tokens,
		lockout,
		&email.LogSender{Logger: log},
		auditWorker,
		log,
	)
	catalogSvc := catalog.NewService(catalog.NewPostgresStore(db))
	applicationSvc := application.NewService(
		application.NewPostgresStore(db),
		users,
		catalogSvc,
		pickup.New(),
		auditWorker,
		m,
		application.DocumentPolicy{
			MaxBytes:     int64(cfg.MaxDocumentBytes),
			AllowedTypes: cfg.AllowedDocumentTypes,
		},
	)
	identitySvc.SetApplicationRemover(applicationSvc)
	directorySvc := directory.NewService(
		directory.NewPostgresTestimonialStore(db),
		directory.NewPostgresAdvisorStore(db),
		directory.NewPostgresPromotionStore(db),
	)
	initializer := bootstrap.New(identitySvc, catalogSvc, auditWorker, bootstrap.AdminSeed{
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
		FullName: cfg.BootstrapAdminName,
	}, log)

	deps := httptransport.Deps{
		Identity:     identitySvc,
		Catalog:      catalogSvc,
		Applications: applicationSvc,
		Directory:    directorySvc,
		Initializer:  initializer,
		AuditLog:     auditStore,
		Auth:         middleware.NewAuth(tokens, identitySvc, log),
		Metrics:      m,
		Logger:       log,
		CheckDB: func(ctx context.Context) error {
			return postgres.Health(ctx, db)
		},
	}
	if redisClient != nil {
		deps.CheckRedis = redisClient.Health
	}

	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(deps))

	go func() {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := auditWorker.Shutdown(shutdownCtx); err != nil {
		log.Error("audit queue drain failed", "error", err)
	}
}
