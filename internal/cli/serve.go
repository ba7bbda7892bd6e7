package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"realty_hub/internal/auth"
	"realty_hub/internal/config"
	"realty_hub/internal/middleware"
	"realty_hub/internal/routes"
	"realty_hub/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		addr    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, migrate)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default 0.0.0.0:$PORT)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migration before serving")

	return cmd
}

func runServe(ctx context.Context, addr string, migrate bool) error {
	cfg, db, logOut, err := bootstrap()
	if err != nil {
		return err
	}
	st := store.New(db)
	defer st.Close()

	if migrate {
		if err := config.Migrate(db); err != nil {
			return err
		}
	}

	tokens, err := auth.NewTokenService(cfg.Token)
	if err != nil {
		return err
	}
	authn := auth.NewAuthenticator(tokens, st)

	r := routes.SetupRouter(routes.Deps{
		Config:    cfg,
		Store:     st,
		Authn:     authn,
		Hasher:    auth.BcryptHasher{},
		LogOutput: logOut,
	})

	if addr == "" {
		addr = cfg.Server.Addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           middleware.EnableCORS(cfg.CORS.AllowedOrigins, r),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.Infof("🚀 Server running at %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
