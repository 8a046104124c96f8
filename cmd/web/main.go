package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"estante/internal/common"
	"estante/internal/config"
	"estante/internal/di"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()
	common.SetupLogging(cfg)

	logrus.Info("initializing application...")
	app, err := di.InitializeApplication(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}

	indexCtx, cancelIndex := context.WithTimeout(context.Background(), 10*time.Second)
	if err := app.Store.EnsureIndexes(indexCtx); err != nil {
		logrus.WithError(err).Warn("could not ensure friendship indexes")
	}
	cancelIndex()

	janitorCtx, cancelJanitor := context.WithCancel(context.Background())
	defer cancelJanitor()
	go app.Sessions.RunJanitor(janitorCtx, time.Minute)

	router := app.Server.Router()
	router.Use(loggingMiddleware)

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeout) * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logrus.WithField("addr", server.Addr).Info("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app.Sessions.CloseAll()
	app.Notifications.Shutdown()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Warn("server forced to shutdown")
	}
	if err := app.Mongo.Close(ctx); err != nil {
		logrus.WithError(err).Warn("error closing mongo connection")
	}

	logrus.Info("server gracefully stopped")
}

// loggingMiddleware logs every HTTP request with its latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"latency": time.Since(start).String(),
		}).Debug("request handled")
	})
}
