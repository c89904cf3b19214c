package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auramed/clinical-rules-api/config"
	"github.com/auramed/clinical-rules-api/data"
	"github.com/auramed/clinical-rules-api/handlers"
	"github.com/auramed/clinical-rules-api/health"
	"github.com/auramed/clinical-rules-api/logging"
	"github.com/auramed/clinical-rules-api/rules"
	"github.com/auramed/clinical-rules-api/scheduler"
	"github.com/auramed/clinical-rules-api/server"
	"github.com/auramed/clinical-rules-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize,
		logging.ParseLevel(cfg.LogLevel))

	container := data.NewRulesContainer()
	container.SetServerStartTime(time.Now())

	// Initial rule load happens inside Start and is fatal on failure:
	// serving without rule tables is pointless.
	loader := rules.NewTableLoader(cfg.RulesDir)
	sched := scheduler.NewScheduler(container, loader)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(
		container,
		validation.NewInputValidator(),
		health.NewHealthChecker(container),
	)
	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logging.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err == nil {
		logging.Info("Server exited gracefully")
	}

	logging.Info("Server shutdown complete")
}
