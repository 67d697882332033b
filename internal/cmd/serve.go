package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jimezsa/jobassist/internal/config"
	"github.com/jimezsa/jobassist/internal/server"
	"github.com/jimezsa/jobassist/internal/session"
)

type ServeCmd struct {
	Addr       string        `help:"Listen address." default:"127.0.0.1:8080" env:"JOBASSIST_ADDR"`
	Origins    string        `help:"Comma-separated CORS origins; * allows all." default:"*" env:"JOBASSIST_CORS_ORIGINS"`
	SessionTTL time.Duration `name:"session-ttl" help:"Drop sessions idle for this long." default:"2h"`
	Proxies    string        `help:"Comma-separated proxy URLs for standard search." env:"JOBASSIST_PROXIES"`
}

func (s *ServeCmd) Run(ctx *Context) error {
	service, err := newSearchService(ctx, s.Proxies)
	if err != nil {
		return err
	}

	api := server.New(service, session.NewStore(s.SessionTTL), ctx.Logger, server.Options{
		AllowOrigins: config.SplitCSV(s.Origins),
		Debug:        ctx.Verbose,
	})
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		ctx.Logger.Info().Str("addr", s.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	ctx.Logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
