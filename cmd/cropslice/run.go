package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/frudas24/cropslice/internal/app"
	"github.com/frudas24/cropslice/internal/config"
	"github.com/frudas24/cropslice/internal/logging"
	"github.com/frudas24/cropslice/internal/session"
	"github.com/frudas24/cropslice/internal/source"
)

const shutdownTimeout = 5 * time.Second

// run wires the application and blocks until shutdown.
func run(debug bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if debug {
		logging.Logger().Debug("debug logging enabled")
	}
	logStartup(cfg)

	img, err := source.Load(cfg.ImagePath)
	if err != nil {
		return err
	}
	size := img.Bounds().Size()
	logging.Logger().Info("image loaded", "path", cfg.ImagePath, "width", size.X, "height", size.Y)

	appInstance, err := app.New(cfg, session.New(cfg.UIPassword), img)
	if err != nil {
		return err
	}
	if err := appInstance.Start(); err != nil {
		return err
	}
	defer func() {
		if err := appInstance.Stop(); err != nil {
			logging.Logger().Warn("shutdown", "err", err)
		}
	}()

	mux := http.NewServeMux()
	appInstance.RegisterRoutes(mux, "")
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	select {
	case <-ctx.Done():
		logging.Logger().Info("shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// logStartup reports configuration checks and connection info.
func logStartup(cfg config.Config) {
	log := logging.Logger()
	log.Info("cropslice starting")

	envPath := filepath.Join(cfg.DataDir, ".env")
	if fileExists(envPath) {
		log.Info("env check: ok", "path", envPath)
	} else {
		log.Info("env check: missing", "path", envPath)
	}
	log.Info("paths", "image", cfg.ImagePath, "output", cfg.OutputPath, "state", cfg.StatePath)
	log.Info("preview", "enabled", cfg.PreviewEnabled, "intervalMs", cfg.PreviewIntervalMs, "quality", cfg.PreviewQuality)
	logListenStatus(cfg.ListenAddr)
}

// logListenStatus reports the listen address and a local URL helper.
func logListenStatus(addr string) {
	log := logging.Logger()
	log.Info("listen", "addr", addr)
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	log.Info("local url", "url", "http://"+net.JoinHostPort(host, port))
}

// fileExists reports whether a path exists and is a file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
