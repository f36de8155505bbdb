package pkg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"formbuilder/internal/app/config"
	"formbuilder/internal/app/handler"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	Handler *handler.Handler

	// закрываются после остановки сервера, в обратном порядке
	closers []io.Closer
}

func NewApp(c *config.Config, r *gin.Engine, h *handler.Handler, closers ...io.Closer) *Application {
	return &Application{
		Config:  c,
		Router:  r,
		Handler: h,
		closers: closers,
	}
}

// RunApp слушает порт до отмены ctx, затем останавливает сервер и освобождает ресурсы
func (a *Application) RunApp(ctx context.Context) error {
	logrus.Info("Server start up")

	a.Handler.RegisterRoutes(a.Router)

	serverAddress := fmt.Sprintf("%s:%d", a.Config.ServiceHost, a.Config.ServicePort)
	srv := &http.Server{
		Addr:              serverAddress,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Starting server on %s", serverAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logrus.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			runErr = fmt.Errorf("shutdown: %w", err)
		}
	case err, ok := <-errCh:
		if ok {
			runErr = fmt.Errorf("listen %s: %w", serverAddress, err)
		}
	}

	a.Close()
	logrus.Info("Server down")
	return runErr
}

func (a *Application) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}
