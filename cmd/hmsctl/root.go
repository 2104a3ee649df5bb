package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/hotelops/hms-console/internal/core/domain"
	"github.com/hotelops/hms-console/internal/core/service"
	"github.com/hotelops/hms-console/internal/infrastructure/apiclient"
	"github.com/hotelops/hms-console/internal/infrastructure/session"
	"github.com/hotelops/hms-console/internal/pkg/config"
	"github.com/hotelops/hms-console/pkg/logger"
)

// app is the state shared by every subcommand, built in PersistentPreRunE.
type app struct {
	env      envconfig.Lookuper
	apiURL   string
	logLevel string

	log     zerolog.Logger
	backend *session.Opened
	client  *apiclient.Client
	authed  *apiclient.Client
	auth    *service.AuthService
}

// NewRootCmd creates the root command reading configuration from the process
// environment.
func NewRootCmd() *cobra.Command {
	return newRootCmd(envconfig.OsLookuper())
}

func newRootCmd(env envconfig.Lookuper) *cobra.Command {
	a := &app{env: env}

	cmd := &cobra.Command{
		Use:   "hmsctl",
		Short: "hmsctl - hotel management from the terminal",
		Long: `hmsctl manages rooms, guests and users of the hotel management API.
Log in once; the session is kept per API origin until you log out.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.teardown(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&a.apiURL, "api", "", "hotel API base URL (overrides HMS_API_URL)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newWhoamiCmd(a))
	cmd.AddCommand(newRoomsCmd(a))
	cmd.AddCommand(newGuestsCmd(a))
	cmd.AddCommand(newUsersCmd(a))

	return cmd
}

func (a *app) setup(ctx context.Context, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadWith(ctx, a.env)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if a.apiURL != "" {
		cfg.API.URL = a.apiURL
	}

	a.log = logger.Init(logger.Options{
		Level:   a.logLevel,
		Pretty:  true,
		Output:  cmd.ErrOrStderr(),
		Service: "hmsctl",
	})

	a.client, err = apiclient.New(cfg.API.URL, a.log, apiclient.WithTimeout(cfg.API.Timeout))
	if err != nil {
		return err
	}

	a.backend, err = session.Open(ctx, cfg, config.BackendFile)
	if err != nil {
		return err
	}
	store := session.NewStore(a.backend.Backend, a.client.Origin())
	a.authed = a.client.Authenticated(store)
	a.auth = service.NewAuthService(apiclient.NewAuthAPI(a.client), store, nil, a.log)
	a.auth.Restore(ctx)
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	if a.backend == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.backend.Close(ctx)
}

// explain turns a client error into the line cobra prints.
func explain(err error) error {
	if err == nil {
		return nil
	}
	msg := domain.UserMessage(err, err.Error())
	if errors.Is(err, domain.ErrUnauthorized) {
		msg += " (not logged in? run: hmsctl login)"
	}
	return errors.New(msg)
}
