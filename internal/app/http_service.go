package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"
	"go.uber.org/zap"
)

// HTTPServer is the lifecycle surface of *http.Server.
type HTTPServer interface {
	Serve(ln net.Listener) error
	Shutdown(ctx context.Context) error
}

// HTTPService adapts an HTTP server bound to a pre-opened listener to
// suture.Service.
type HTTPService struct {
	server          HTTPServer
	ln              net.Listener
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

func NewHTTPService(server HTTPServer, ln net.Listener, shutdownTimeout time.Duration, logger *zap.Logger) *HTTPService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPService{server: server, ln: ln, shutdownTimeout: shutdownTimeout, logger: logger}
}

// Serve blocks until ctx is canceled or the server fails. Cancellation
// triggers a graceful shutdown bounded by the shutdown timeout. A server
// failure terminates the supervisor tree: the listener is gone, so a restart
// could only fail again.
func (h *HTTPService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Serve(h.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("app: http server: %w: %w", suture.ErrTerminateSupervisorTree, err)
		}
		return suture.ErrDoNotRestart
	case <-ctx.Done():
		h.logger.Info("app: shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("app: http shutdown: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPService) String() string { return "http-server" }
