package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second
)

type Server struct {
	server     *http.Server
	logger     *zap.Logger
	onShutdown []func()
}

// WriteTimeout не задается: загрузка архива может длиться сколько угодно.
func New(addr string, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
			ErrorLog:          zap.NewStdLog(logger),
		},
		logger: logger,
	}
}

// OnShutdown регистрирует f, вызываемую перед отменой активных запросов.
func (s *Server) OnShutdown(f func()) {
	s.onShutdown = append(s.onShutdown, f)
}

func (s *Server) Start() error {
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(done)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case sig := <-done:
			s.logger.Info("Получен сигнал завершения", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return s.Run(ctx)
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("ошибка HTTP сервера: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve обслуживает ln до отмены ctx. При отмене контексты всех запросов
// отменяются, затем сервер ждет их завершения не дольше shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	defer cancelRequests()
	s.server.BaseContext = func(net.Listener) context.Context { return baseCtx }

	serverErr := make(chan error, 1)

	go func() {
		s.logger.Info("Запуск HTTP сервера", zap.String("address", ln.Addr().String()))
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		for _, f := range s.onShutdown {
			f()
		}
		cancelRequests()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ошибка при завершении сервера: %w", err)
		}

		s.logger.Info("HTTP сервер успешно остановлен")
		return nil
	}
}
