// notify-bridge subscribes to the event bus and pushes every envelope
// to connected websocket clients.
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"

	"vibracore/internal/bus"
	"vibracore/internal/config"
	"vibracore/pkg/realtime"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logger.Error("failed to load config", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		cfg = loaded
	}
	port := getenv("PORT", cfg.Bridge.Port)
	natsURL := getenv("NATS_URL", cfg.NATS.URL)

	subscriber, err := bus.NewSubscriber(natsURL,
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait()),
	)
	if err != nil {
		logger.Error("failed to connect to nats", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer subscriber.Close()

	hub := NewHub(logger)
	defer hub.Close()

	sub, err := subscriber.SubscribeAll(func(env realtime.Envelope) {
		data, err := json.Marshal(env)
		if err != nil {
			logger.Error("failed to encode envelope", slog.String("type", string(env.Type)), slog.String("error", err.Error()))
			return
		}
		hub.Broadcast(data)
	})
	if err != nil {
		logger.Error("failed to subscribe", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = sub.Unsubscribe() }()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/ws", hub.ServeWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	logger.Info("notify-bridge listening", slog.String("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("error", err.Error()))
	}
}

func getenv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}
