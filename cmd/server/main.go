package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/productivity/api/handler"
	"github.com/fastygo/productivity/internal/config"
	"github.com/fastygo/productivity/internal/events"
	"github.com/fastygo/productivity/internal/infrastructure/llm"
	"github.com/fastygo/productivity/internal/infrastructure/monitor"
	natsInfra "github.com/fastygo/productivity/internal/infrastructure/nats"
	"github.com/fastygo/productivity/internal/infrastructure/notifier"
	redisInfra "github.com/fastygo/productivity/internal/infrastructure/redis"
	"github.com/fastygo/productivity/internal/middleware"
	"github.com/fastygo/productivity/internal/router"
	"github.com/fastygo/productivity/internal/scheduler"
	"github.com/fastygo/productivity/internal/services/lifecycle"
	"github.com/fastygo/productivity/internal/store"
	"github.com/fastygo/productivity/pkg/httpcontext"
	"github.com/fastygo/productivity/pkg/logger"
	"github.com/fastygo/productivity/repository"
	redisRepo "github.com/fastygo/productivity/repository/redis"
	communicationUC "github.com/fastygo/productivity/usecase/communication"
	"github.com/fastygo/productivity/usecase/insight"
	notificationUC "github.com/fastygo/productivity/usecase/notification"
	taskUC "github.com/fastygo/productivity/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		AppName:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	backend, err := openStorage(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("storage unavailable", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	if redisClient != nil {
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
	}

	var sinks []events.Sink
	for _, name := range cfg.Events.Sinks {
		switch name {
		case "redis":
			sinks = append(sinks, events.NewRedisSink(redisClient, cfg.Events.RedisPrefix))
		case "nats":
			nc, err := natsInfra.Connect(cfg.Events.NatsURL, cfg.AppName, zapLogger)
			if err != nil {
				zapLogger.Fatal("nats connection failed", zap.Error(err))
			}
			manager.Register("nats", func(ctx context.Context) error {
				return nc.Drain()
			})
			sinks = append(sinks, events.NewNatsSink(nc, cfg.Events.NatsSubject))
		}
	}
	bus := events.NewBus(zapLogger.Named("events"), sinks...)

	taskStore := store.New(backend.repos, store.WithLogger(zapLogger.Named("store")))

	var remote insight.Completer
	if client := llm.New(llm.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.RequestTimeout,
	}, zapLogger.Named("llm")); client != nil {
		remote = client
	}
	generator := insight.New(remote, insight.WithLogger(zapLogger.Named("insight")))

	notifications := notificationUC.New(
		notifier.NewLogNotifier(zapLogger),
		taskStore,
		bus,
		notificationUC.WithLogger(zapLogger.Named("notifications")),
		notificationUC.WithAppName(cfg.AppName),
	)
	notifications.SetEnabled(cfg.Notifications.Enabled)

	var snapshots repository.SnapshotSource
	if redisClient != nil {
		snapshots = redisRepo.NewSnapshotSource(redisClient, cfg.Communication.SnapshotPrefix)
	}
	communication := communicationUC.New(communicationUC.Credentials{
		GmailClientID:     cfg.Communication.GmailClientID,
		GmailClientSecret: cfg.Communication.GmailClientSecret,
		DiscordBotToken:   cfg.Communication.DiscordBotToken,
	}, snapshots, taskStore, zapLogger.Named("communication"))

	taskUseCase := taskUC.New(taskStore, notifications, zapLogger)

	jobs := scheduler.New(taskStore, generator, notifications, communication, bus, zapLogger.Named("scheduler"), scheduler.Config{
		AccountabilityEvery:    cfg.Scheduler.AccountabilityEvery,
		InsightsEvery:          cfg.Scheduler.InsightsEvery,
		CommunicationSyncEvery: cfg.Scheduler.CommunicationSyncEvery,
		RunOnStart:             true,
		TickTimeout:            cfg.AI.RequestTimeout * 2,
	})
	if cfg.Scheduler.Enabled {
		jobs.Start()
		manager.Register("scheduler", jobs.Stop)
	}

	mon := monitor.New(monitor.Options{
		Storage:       backend.pinger,
		StorageDriver: cfg.Storage.Driver,
		Redis:         redisClient,
		RemoteModel:   generator.RemoteConfigured(),
		Interval:      10 * time.Second,
		Logger:        zapLogger.Named("monitor"),
	})
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	eventsHandler := apiHandler.NewEventsHandler(bus, cfg.Events.StreamBuffer, cfg.Events.StreamHeartbeat, zapLogger)

	handlers := router.Handlers{
		Task:          apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Insight:       apiHandler.NewInsightHandler(taskStore, generator, jobs, ctxAdapter, zapLogger),
		Notification:  apiHandler.NewNotificationHandler(taskStore, notifications, ctxAdapter, zapLogger),
		Communication: apiHandler.NewCommunicationHandler(communication, jobs, ctxAdapter, zapLogger),
		Events:        eventsHandler,
		Health:        apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers, middleware.Guard(cfg.JWT.Secret, zapLogger))

	// No WriteTimeout: it would cut event streams. Handlers are bounded by the request context.
	server := &fasthttp.Server{
		Handler:     r.Handler,
		ReadTimeout: cfg.HTTP.ReadTimeout,
		IdleTimeout: cfg.HTTP.IdleTimeout,
		Concurrency: cfg.HTTP.MaxConn,
		Name:        cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver),
			zap.Bool("remote_model", generator.RemoteConfigured()),
			zap.Bool("auth", cfg.JWT.Enabled()),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})
	manager.Register("event_streams", func(ctx context.Context) error {
		eventsHandler.Close()
		return nil
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
