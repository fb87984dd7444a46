package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kbvcri/internal/audit"
	"kbvcri/internal/credential"
	"kbvcri/internal/identity"
	"kbvcri/internal/jwtsign"
	"kbvcri/internal/kbv/gateway"
	"kbvcri/internal/kbv/metrics"
	"kbvcri/internal/kbv/service"
	"kbvcri/internal/kbv/store"
	"kbvcri/internal/platform/config"
	"kbvcri/internal/platform/httpserver"
	"kbvcri/internal/platform/logger"
	"kbvcri/internal/platform/redis"
	"kbvcri/internal/session"
	httptransport "kbvcri/internal/transport/http"
)

// main wires the dependency graph and owns the server lifecycle. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	itemStore, closeStore, err := newItemStore(cfg, log)
	if err != nil {
		log.Error("item store setup failed", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	identityStore := identity.NewMemoryStore()
	sessionStore := session.NewMemoryStore()
	kbvMetrics := metrics.New()

	// Audit events are persisted off the request path by a background worker.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	defer stopAudit()
	auditInbox := make(chan audit.Event, 64)
	auditor := audit.NewChannelPublisher(auditInbox)
	go func() {
		if err := audit.NewWorker(audit.NewMemoryStore(), auditInbox).Run(auditCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	providerGateway := gateway.New(
		gateway.NewSOAPClient(cfg.Provider.URL, cfg.Provider.Timeout),
		gateway.NewMapper(cfg.Provider.OperatorID),
		gateway.WithLogger(log),
		gateway.WithMetrics(kbvMetrics),
	)

	kbvService := service.New(itemStore, providerGateway, identityStore, cfg.SessionTTL,
		service.WithAuditor(auditor),
		service.WithLogger(log),
		service.WithMetrics(kbvMetrics),
		service.WithStrategy(cfg.Provider.Strategy),
	)

	signer := jwtsign.New(cfg.VCSigningKey)
	credentialService := credential.New(sessionStore, itemStore, identityStore, signer, cfg.VCIssuer, cfg.VCMaxTTL,
		credential.WithAuditor(auditor),
		credential.WithLogger(log),
	)

	router := httptransport.NewRouter(log,
		httptransport.NewQuestionHandler(kbvService, log),
		httptransport.NewCredentialHandler(credentialService, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting kbv server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newItemStore picks the item store backend from configuration: PostgreSQL
// when a URL is set, Redis when configured, in-memory otherwise.
func newItemStore(cfg config.Server, log *slog.Logger) (store.Store, func(), error) {
	if cfg.PostgresURL != "" {
		db, err := sql.Open("postgres", cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres item store")
		return store.NewPostgresStore(db), func() { _ = db.Close() }, nil
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if redisClient != nil {
		log.Info("using redis item store")
		return store.NewRedisStore(redisClient.Client), func() { _ = redisClient.Close() }, nil
	}

	log.Info("using in-memory item store")
	return store.NewMemoryStore(), func() {}, nil
}
