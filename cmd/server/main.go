package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"semaphore/booking/internal/config"
	"semaphore/booking/internal/docstore"
	portalgrpc "semaphore/booking/internal/grpc"
	internalhttp "semaphore/booking/internal/http"
	"semaphore/booking/internal/identity"
	"semaphore/booking/internal/jobs"
	"semaphore/booking/internal/repository"
	"semaphore/booking/internal/revocation"
	"semaphore/booking/internal/session"
	"semaphore/booking/internal/translate"
	"semaphore/booking/internal/web"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping failed: %v", err)
		}
		cancel()
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("redis close error: %v", err)
			}
		}()
	}

	docs, closeDocs, err := docstore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("document store init failed: %v", err)
	}
	defer closeDocs()
	backend := docs
	if cfg.CacheEnabled() {
		docs = docstore.NewCached(docs, redisClient, cfg.DocumentCacheTTL, repository.UncachedCollections()...)
		log.Printf("document cache enabled (ttl %s)", cfg.DocumentCacheTTL)
	}
	store := repository.NewStore(docs, cfg.OfficeListDoc, cfg.OfficeListField)

	var denylist revocation.Denylist = revocation.NewMemoryDenylist()
	if redisClient != nil {
		denylist = revocation.NewRedisDenylist(redisClient, "booking")
	}

	provider, err := openIdentityProvider(ctx, cfg, denylist)
	if err != nil {
		log.Fatalf("identity provider init failed: %v", err)
	}

	pages, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("templates failed: %v", err)
	}

	server := internalhttp.NewServer(
		cfg,
		store,
		provider,
		session.NewManager(cfg.SessionSecret, cfg.SessionIssuer, cfg.SessionTTL, denylist, cfg.CookieSecure),
		translate.NewClient(cfg.TranslateAPIURL, cfg.TranslateTimeout),
		pages,
	)
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	healthServer := portalgrpc.NewHealth()
	grpcServer := portalgrpc.NewServer(healthServer)
	portalgrpc.StartHealthProbe(ctx, healthServer, portalgrpc.DocumentCheck(backend, repository.SettingsCollection, jobs.ReminderSetting), 30*time.Second)
	jobs.StartSettingsWarmJob(ctx, cfg, store)

	go func() {
		log.Printf("booking http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	go func() {
		listener, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			log.Fatalf("grpc listen error: %v", err)
		}
		log.Printf("booking grpc listening on %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("grpc server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	grpcServer.GracefulStop()
}

func openIdentityProvider(ctx context.Context, cfg config.Config, denylist revocation.Denylist) (identity.Provider, error) {
	switch cfg.IdentityBackend {
	case "firebase":
		provider, err := identity.NewFirebaseProvider(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		return provider, nil
	case "jwt":
		return identity.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer, denylist), nil
	default:
		return nil, errors.New("unknown IDENTITY_BACKEND " + cfg.IdentityBackend)
	}
}
