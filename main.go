package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/JMitchell7425/Trading-Bot/broker"
	"github.com/JMitchell7425/Trading-Bot/config"
	"github.com/JMitchell7425/Trading-Bot/engine"
	"github.com/JMitchell7425/Trading-Bot/logger"
	"github.com/JMitchell7425/Trading-Bot/store"
	"github.com/JMitchell7425/Trading-Bot/web"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	log, err := logger.New()
	if err != nil {
		os.Exit(1)
	}

	cfgStore, err := config.LoadStore(envOr("CONFIG_PATH", "config.yaml"))
	if err != nil {
		// Last-known-good semantics: warn and run on the defaults.
		log.Warn("config_load_failed", logger.Err(err))
	}

	db, err := store.OpenSQLite(envOr("DB_PATH", "trading_bot.db"))
	if err != nil {
		log.Error("store_open_failed", logger.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	var bk broker.Broker
	if key := os.Getenv("APCA_API_KEY_ID"); key != "" {
		bk = broker.NewAlpacaClient(broker.AlpacaOptions{
			BaseURL: os.Getenv("APCA_API_BASE_URL"),
			DataURL: os.Getenv("APCA_API_DATA_URL"),
			Key:     key,
			Secret:  os.Getenv("APCA_API_SECRET_KEY"),
		})
		log.Info("broker_ready", logger.String("kind", "alpaca"))
	} else {
		cash := 100_000.0
		if v, err := strconv.ParseFloat(os.Getenv("PAPER_STARTING_CASH"), 64); err == nil && v > 0 {
			cash = v
		}
		bk = broker.NewPaperBroker(cash)
		log.Info("broker_ready", logger.String("kind", "paper"), logger.Float64("cash", cash))
	}

	ctrl := engine.NewController(cfgStore, bk, db, db.Portfolio(), db, log)
	cal, err := engine.NYSECalendar()
	if err != nil {
		log.Error("calendar_load_failed", logger.Err(err))
		os.Exit(1)
	}
	sched := engine.NewScheduler(envDuration("PASS_INTERVAL", engine.DefaultInterval), cal, ctrl, log)

	srv := &http.Server{
		Addr:    ":" + envOr("PORT", "8080"),
		Handler: web.NewServer(cfgStore, db, db.Portfolio(), bk, log).Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("web_listening", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("web_server_failed", logger.Err(err))
			stop()
		}
	}()

	sched.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("web_shutdown_failed", logger.Err(err))
	}
	log.Info("stopped")
}
