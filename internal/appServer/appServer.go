package appServer

import (
	"context"
	"crypto/tls"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/tennis-courts/config"
	"github.com/ds124wfegd/tennis-courts/internal/transport"
)

type Server struct {
	httpServer *http.Server
}

func (s *Server) Run(cfg *config.Config, handler http.Handler) error {
	s.httpServer = &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           handler,
		MaxHeaderBytes:    1 << 20,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 3 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ErrorLog:          log.New(logrus.StandardLogger().WriterLevel(logrus.ErrorLevel), "", 0),
	}
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// NewServer serves the reservation API and runs the no-show worker until
// SIGINT or SIGTERM.
func NewServer(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Worker.Enabled {
		go app.Worker.Start(ctx)
	} else {
		logrus.Warn("No-show worker disabled")
	}

	if cfg.Server.Mode == "release" || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reservationHandler := transport.NewReservationHandler(app.ReservationService, cfg.Booking.CurrencyScale)
	router := transport.InitRoutes(reservationHandler, app.HealthChecks, transport.Options{
		RequestTimeout: cfg.Server.RequestTimeout,
		AllowOrigins:   cfg.Server.AllowOrigins,
		RateLimit:      cfg.Server.RateLimit,
		RateBurst:      cfg.Server.RateBurst,
	})

	srv := new(Server)
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Run(cfg, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	logrus.WithField("addr", cfg.ServerAddress()).Info("App Started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-quit:
	case err := <-serverErr:
		logrus.Errorf("error occured while running http server: %s", err.Error())
		return err
	}

	logrus.Info("App Shutting Down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("error occured on server shutting down: %s", err.Error())
		return err
	}
	return nil
}

// RunSweep performs a single no-show sweep under the same lease the
// background worker takes and returns the number of reservations updated.
func RunSweep(ctx context.Context, cfg *config.Config) (int, error) {
	app, err := NewApp(ctx, cfg)
	if err != nil {
		return 0, err
	}
	defer app.Close()

	return app.Worker.RunOnce(ctx)
}
