package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"

	"ecohubs/internal/admin"
	adminAdapters "ecohubs/internal/admin/adapters"
	appHandler "ecohubs/internal/application/handler"
	appModels "ecohubs/internal/application/models"
	"ecohubs/internal/application/schema"
	appService "ecohubs/internal/application/service"
	appStore "ecohubs/internal/application/store"
	authHandler "ecohubs/internal/auth/handler"
	authmw "ecohubs/internal/auth/middleware"
	"ecohubs/internal/auth/owners"
	"ecohubs/internal/auth/safe"
	authService "ecohubs/internal/auth/service"
	"ecohubs/internal/auth/store/revocation"
	"ecohubs/internal/blog"
	"ecohubs/internal/contact"
	httpapi "ecohubs/internal/http"
	"ecohubs/internal/integrations"
	"ecohubs/internal/integrations/airtable"
	"ecohubs/internal/integrations/email"
	"ecohubs/internal/integrations/eventbus"
	"ecohubs/internal/integrations/ghost"
	"ecohubs/internal/integrations/listmonk"
	"ecohubs/internal/integrations/snapshot"
	"ecohubs/internal/integrations/turnstile"
	"ecohubs/internal/integrations/upstream"
	"ecohubs/internal/integrations/zapier"
	jwttoken "ecohubs/internal/jwt_token"
	"ecohubs/internal/newsletter"
	"ecohubs/internal/pipeline"
	"ecohubs/internal/platform/config"
	"ecohubs/internal/platform/httpserver"
	"ecohubs/internal/platform/logger"
	"ecohubs/internal/platform/metrics"
	"ecohubs/internal/platform/postgres"
	"ecohubs/internal/platform/redis"
	rlMetrics "ecohubs/internal/ratelimit/metrics"
	rlMiddleware "ecohubs/internal/ratelimit/middleware"
	rlModels "ecohubs/internal/ratelimit/models"
	rlService "ecohubs/internal/ratelimit/service"
	"ecohubs/internal/ratelimit/store/window"
	"ecohubs/internal/site"
	audit "ecohubs/pkg/platform/audit"
	auditPublisher "ecohubs/pkg/platform/audit/publisher"
	auditMemory "ecohubs/pkg/platform/audit/store/memory"
	auditPostgres "ecohubs/pkg/platform/audit/store/postgres"
	"ecohubs/pkg/platform/circuit"
	metadata "ecohubs/pkg/platform/middleware/metadata"
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
	stepTimeout     = 15 * time.Second
	auditBuffer     = 256
)

func main() {
	cfg := config.FromEnv()
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cfg.BindFlags(fs)
	_ = fs.Parse(os.Args[1:])

	log := logger.New(cfg.Server.DevMode)
	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// run wires the dependencies and blocks until SIGINT or SIGTERM. Every
// integration is optional: an unconfigured one is logged and left out.
func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret, generated, err := cfg.SessionSecret()
	if err != nil {
		return err
	}
	if generated {
		log.Warn("AUTH_SECRET missing or short; using an ephemeral secret, sessions end on restart")
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)
	client := integrations.NewHTTPClient(config.HTTPClientTimeout)
	checks := map[string]httpserver.CheckFunc{}

	// Storage
	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, rate limits stay in memory", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
		checks["redis"] = rdb.Health
	}

	var submissions appService.SubmissionLog = appStore.NewInMemoryStore(appStore.DefaultMemoryCapacity)
	var auditStore audit.Store = auditMemory.NewInMemoryStore(auditMemory.DefaultCapacity)
	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		log.Warn("postgres unavailable, submission log stays in memory", "error", err)
	}
	if db != nil {
		defer db.Close()
		pg := appStore.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare submission log: %w", err)
		}
		submissions = pg
		trail := auditPostgres.New(db)
		if err := trail.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("prepare audit log: %w", err)
		}
		auditStore = trail
		checks["postgres"] = pingFunc(db)
	}
	auditor := auditPublisher.NewPublisher(auditStore,
		auditPublisher.WithAsyncBuffer(auditBuffer),
		auditPublisher.WithLogger(log),
	)
	defer auditor.Close()

	// Rate limiting
	memory := window.NewInMemoryStore()
	go sweep(ctx, memory)
	var buckets rlService.BucketStore = memory
	if rdb != nil {
		fallback := window.NewFallbackStore(window.NewRedisStore(rdb.Client), memory, circuit.New("ratelimit-redis"), log)
		checks["ratelimit"] = fallback.Health
		buckets = fallback
	}
	limiter, err := rlService.New(buckets,
		rlModels.DefaultPolicies(cfg.RateLimit.ContactMaxRequests, cfg.RateLimit.ContactWindow),
		rlService.WithLogger(log),
		rlService.WithMetrics(rlMetrics.New(reg)),
	)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	limits := rlMiddleware.New(limiter, log)

	// Integrations
	smtp, err := email.NewClient(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Secure:   cfg.SMTP.Secure,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
	})
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	mailer := email.New(smtp, cfg.SMTP.From, cfg.SMTP.FromName)

	appOpts := []appService.Option{
		appService.WithMailer(mailer),
		appService.WithSubmissionLog(submissions),
		appService.WithAdminEmail(cfg.SMTP.AdminEmail),
		appService.WithLogger(log),
		appService.WithPipelineOptions(
			pipeline.WithMetrics[*appModels.Submission](pipeline.NewMetrics(reg)),
			pipeline.WithStepTimeout[*appModels.Submission](stepTimeout),
		),
	}
	contactOpts := []contact.Option{
		contact.WithMailer(mailer),
		contact.WithAdminEmail(cfg.SMTP.AdminEmail),
		contact.WithLogger(log),
	}
	newsletterOpts := []newsletter.Option{newsletter.WithLogger(log)}
	adminOpts := []admin.Option{
		admin.WithSubmissions(submissions),
		admin.WithSnapshot(cfg.Snapshot.Space, cfg.Snapshot.ApplicationVoting, cfg.Snapshot.BlogVoting),
		admin.WithAudit(auditor),
		admin.WithLogger(log),
	}

	if up, err := upstream.New(cfg.Upstream.URL, cfg.Upstream.APIKey, client); configured(log, "ecohubsos", err) {
		appOpts = append(appOpts, appService.WithUpstream(up))
	}
	if at, err := airtable.New(airtable.Config{
		APIKey:            cfg.Airtable.APIKey,
		BaseID:            cfg.Airtable.BaseID,
		ApplicationsTable: cfg.Airtable.ApplicationsTable,
		MembersTable:      cfg.Airtable.MembersTable,
	}, client); configured(log, "airtable", err) {
		appOpts = append(appOpts, appService.WithRecordStore(at))
		adminOpts = append(adminOpts, admin.WithApplications(at, config.ApplicationsCacheTTL))
	}
	if pub, err := eventbus.New(cfg.Kafka.Brokers, cfg.Kafka.Topic); configured(log, "kafka", err) {
		defer pub.Close()
		appOpts = append(appOpts, appService.WithEvents(pub))
	}
	if hook, err := zapier.New(cfg.Zapier.WebhookURL, client); configured(log, "zapier", err) {
		contactOpts = append(contactOpts, contact.WithWebhook(hook))
		newsletterOpts = append(newsletterOpts, newsletter.WithWebhook(hook))
	}
	if list, err := listmonk.New(listmonk.Config{
		URL:      cfg.Listmonk.URL,
		Username: cfg.Listmonk.Username,
		Password: cfg.Listmonk.Password,
		ListID:   cfg.Listmonk.ListID,
	}, client); configured(log, "listmonk", err) {
		newsletterOpts = append(newsletterOpts, newsletter.WithList(list, listmonk.Rejected))
	}
	if hub, err := snapshot.New(cfg.Snapshot.Space, cfg.Snapshot.HubURL, client); configured(log, "snapshot", err) {
		adminOpts = append(adminOpts, admin.WithGovernance(adminAdapters.NewGovernanceAdapter(hub)))
	}

	var cmsPosts blog.Source
	cms, err := ghost.New(ghost.Config{
		URL:        cfg.Ghost.URL,
		ContentKey: cfg.Ghost.ContentKey,
		AdminKey:   cfg.Ghost.AdminKey,
	}, client)
	if configured(log, "ghost", err) {
		if cms.ContentEnabled() {
			cmsPosts = cms
		}
		if cms.AdminEnabled() {
			adminOpts = append(adminOpts, admin.WithDrafts(cms))
		}
	}

	// Admin authentication
	var ownerSource owners.Source
	if cfg.Safe.Enabled() {
		sc, err := safe.New(safe.Config{
			Address: cfg.Safe.Address,
			ChainID: cfg.Safe.ChainID,
			APIKey:  cfg.Safe.APIKey,
			BaseURL: cfg.Safe.APIURL,
		}, client)
		if err != nil {
			return fmt.Errorf("safe client: %w", err)
		}
		ownerSource = sc
	} else {
		log.Warn("SAFE_ADDRESS or SAFE_API_KEY missing; admin area disabled")
	}
	oracle := owners.New(ownerSource, config.OwnerCacheTTL, owners.WithLogger(log))
	adminOpts = append(adminOpts, admin.WithOwners(oracle))

	tokens := jwttoken.NewJWTService(secret, config.SessionTTL)
	var revocations revocation.TokenRevocationList = revocation.NewInMemoryTRL()
	if rdb != nil {
		revocations = revocation.NewRedisTRL(rdb.Client, revocation.WithRegisterer(reg))
	}
	auth, err := authService.New(oracle, tokens,
		authService.WithRevoker(revocations),
		authService.WithLogger(log),
		authService.WithEnabled(cfg.Safe.Enabled()),
		authService.WithAuditor(auditor),
	)
	if err != nil {
		return err
	}
	cookies := authmw.Cookies{Secure: cfg.IsProduction(), MaxAge: config.SessionTTL}

	// Features
	applications := appService.New(schema.Default(), appOpts...)
	posts := blog.New(cmsPosts, log)
	features := []httpapi.Registrar{
		authHandler.New(auth, cookies, limits.RateLimit(rlModels.ClassAuth), log),
		appHandler.New(applications, turnstile.New(cfg.Turnstile.SecretKey, client), limits.RateLimit(rlModels.ClassApplication), log),
		contact.NewHandler(contact.New(contactOpts...), limits.RateLimit(rlModels.ClassContact), log),
		newsletter.NewHandler(newsletter.New(newsletterOpts...), limits.RateLimit(rlModels.ClassNewsletter), log),
		blog.NewHandler(posts, cfg.Server.SiteURL, log),
		site.NewHandler(posts, cfg.Server.SiteURL, log),
	}

	// Without the Safe there is no way to be an owner, so tokens issued
	// earlier with the same secret must not open the admin area either.
	var session func(http.Handler) http.Handler
	if cfg.Safe.Enabled() {
		session = authmw.Session(jwttoken.NewJWTServiceAdapter(tokens, jwttoken.WithRevocations(revocations, log)), cookies, log)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:   log,
		Metrics:  httpMetrics,
		Proxies:  proxies,
		Session:  session,
		Paths:    authmw.DefaultPaths,
		Health:   httpserver.Health(checks, log),
		Exporter: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Features: features,
		Admin:    []httpapi.Registrar{admin.NewHandler(admin.New(adminOpts...), log)},
	})
	srv := httpserver.New(cfg.Server.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting ecohubs", "addr", cfg.Server.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// configured logs why an integration is disabled and reports whether it can
// be used.
func configured(log *slog.Logger, name string, err error) bool {
	if err == nil {
		return true
	}
	log.Info("integration disabled", "integration", name, "reason", err)
	return false
}

func pingFunc(db *sql.DB) httpserver.CheckFunc {
	return func(ctx context.Context) error {
		return db.PingContext(ctx)
	}
}

// sweep evicts expired in-memory windows until ctx ends.
func sweep(ctx context.Context, store *window.InMemoryStore) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Sweep()
		}
	}
}
