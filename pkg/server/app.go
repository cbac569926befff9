package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	pkgch "AntVillage/pkg/clickhouse"
	"AntVillage/pkg/config"
	xhttp "AntVillage/pkg/http"
	pkgkafka "AntVillage/pkg/kafka"
	applogger "AntVillage/pkg/logger"
	"AntVillage/pkg/queue"
)

// Closer releases resources owned by the briefing flow (publisher,
// snapshot store).
type Closer interface {
	Close()
}

// Scheduler is a cron-style trigger with a lifecycle tied to the app.
type Scheduler interface {
	Start()
	Stop()
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	jobQueue    *queue.RedisQueue
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
	snapProc    Closer
	scheduler   Scheduler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	jobQueue *queue.RedisQueue,
) *App {
	return &App{
		cfg:      cfg,
		consumer: consumer,
		kh:       kh,
		chClient: chClient,
		jobQueue: jobQueue,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// SetSnapshotProcessor allows DI to hand over the processor for shutdown.
func (a *App) SetSnapshotProcessor(c Closer) { a.snapProc = c }

// SetScheduler allows DI to inject the scheduled-briefing trigger.
// Accepts a typed nil when scheduling is disabled.
func (a *App) SetScheduler(s Scheduler) { a.scheduler = s }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	format := "json"
	if a.cfg.Environment == "development" {
		format = "console"
	}
	l, _ := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Snapshot consumer drains the Kafka topic into storage when the
	// backend routes through the broker.
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Scheduled briefing workers
	if a.jobQueue != nil {
		if err := a.jobQueue.Start(); err != nil {
			l.Error("job queue start error", applogger.Error(err))
		} else {
			l.Info("briefing job queue started")
		}
	}

	// Cron triggers feed the queue at the configured briefing hours.
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx, l)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context, l *applogger.Logger) error {
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}
	l.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.jobQueue != nil {
		qctx, qcancel := context.WithTimeout(ctx, 10*time.Second)
		if err := a.jobQueue.Stop(qctx); err != nil {
			l.Warn("job queue stop error", applogger.Error(err))
		}
		qcancel()
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	// Close briefing flow resources (publisher/storage)
	if a.snapProc != nil {
		a.snapProc.Close()
	}

	l.Info("shutdown complete")
	return nil
}
