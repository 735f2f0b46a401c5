package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/config"
	"github.com/xavierca1/ligue-leads/internal/infra/cache"
	"github.com/xavierca1/ligue-leads/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-leads/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-leads/internal/infra/http/server"
	"github.com/xavierca1/ligue-leads/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-leads/internal/infra/mail"
	"github.com/xavierca1/ligue-leads/internal/infra/queue"
	"github.com/xavierca1/ligue-leads/internal/infra/storage"
	"github.com/xavierca1/ligue-leads/internal/infra/worker"
	"github.com/xavierca1/ligue-leads/internal/usecase"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := cfg.NewLogger()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Store
	store, closeStore, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open lead store")
	}
	defer closeStore()

	// 2. Analytics cache (optional)
	var metricsCache usecase.MetricsCache
	var cachePinger handlers.Pinger
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("redis unavailable, analytics will not be cached")
		} else {
			defer client.Close()
			c := cache.NewAnalyticsCache(client, cfg.AnalyticsCacheTTL)
			metricsCache, cachePinger = c, c
		}
	}

	// 3. Broker (optional)
	var publisher usecase.EventPublisher = queue.NopPublisher{}
	var rabbit *queue.RabbitMQ
	if cfg.AMQPURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, lead events will be dropped")
		} else {
			defer rabbit.Close()
			producer := queue.NewProducer(rabbit.Ch)
			producer.Observe = middleware.RecordEventPublished
			publisher = producer
			go startNotifier(ctx, cfg, rabbit, log)
		}
	}

	// 4. Use cases
	listUC := usecase.NewListLeadsUseCase(store)
	manageUC := usecase.NewManageLeadUseCase(store, publisher, metricsCache, log)
	analyticsUC := usecase.NewGetAnalyticsUseCase(store, metricsCache, log)

	// 5. Handlers
	health := handlers.NewHealthHandler(store, cfg.StoreDriver, nil, cachePinger)
	if rabbit != nil {
		health.RabbitMQ = rabbit.Conn
	}

	limiter := middleware.NewRateLimiter(cfg.WriteRateLimit, time.Minute)
	go limiter.Cleanup(ctx.Done(), 5*time.Minute)

	router := server.NewRouter(server.Deps{
		Leads:       handlers.NewLeadHandler(listUC, manageUC, cfg.DefaultPageSize, cfg.MaxPageSize, log),
		Analytics:   handlers.NewAnalyticsHandler(analyticsUC, log),
		Health:      health,
		WriteLimit:  limiter,
		CORSOrigins: cfg.CORSOrigins,
		Log:         log,
	})

	// 6. Background gauges
	gauges := worker.NewPipelineGaugeWorker(analyticsUC, middleware.RecordPipeline, cfg.GaugeInterval, log)
	go gauges.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		log.WithFields(logrus.Fields{"addr": cfg.ListenAddr, "store": cfg.StoreDriver}).Info("leads API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// startNotifier consumes lead events on its own channel and forwards won
// deals to the configured mailer and CRM.
func startNotifier(ctx context.Context, cfg config.Config, rabbit *queue.RabbitMQ, log logrus.FieldLogger) {
	var mailer usecase.WonDealMailer
	if cfg.NotificationsEnabled() {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.NotifyEmail)
	}
	var crm usecase.CRMSync
	if cfg.KommoAPIToken != "" {
		crm = kommo.NewClient(cfg.KommoAPIToken, cfg.KommoBaseURL)
	}
	if mailer == nil && crm == nil {
		log.Info("no won-deal notifiers configured, consumer not started")
		return
	}

	ch, err := rabbit.Conn.Channel()
	if err != nil {
		log.WithError(err).Error("failed to open consumer channel")
		return
	}
	defer ch.Close()
	if err := ch.Qos(10, 0, false); err != nil {
		log.WithError(err).Error("failed to set consumer prefetch")
		return
	}

	handler := usecase.NewNotifyWonDealUseCase(mailer, crm, log)
	if err := queue.NewWorker(ch, handler, log).Start(ctx, queue.QueueName); err != nil {
		log.WithError(err).Error("lead event worker stopped")
	}
}
