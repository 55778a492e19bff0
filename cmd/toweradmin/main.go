// Command toweradmin is the terminal client for the tower admin API.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerops/toweradmin/internal/client/guard"
	"github.com/towerops/toweradmin/internal/client/rest"
	"github.com/towerops/toweradmin/internal/client/session"
	"github.com/towerops/toweradmin/internal/client/tokenstore"
	"github.com/towerops/toweradmin/pkg/logger"
)

const defaultAPIURL = "http://127.0.0.1:8000"

// app wires the client stack shared by every subcommand.
type app struct {
	apiURL  string
	store   tokenstore.Store
	session *session.Service
	client  *rest.Client
	guard   *guard.Guard
}

func newApp(apiURL string) (*app, error) {
	store, err := tokenstore.NewFileStore()
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{Level: envOr("TOWERADMIN_LOG_LEVEL", "warn"), Output: os.Stderr})
	return &app{
		apiURL:  apiURL,
		store:   store,
		session: session.NewService(apiURL, store, nil, log),
		client:  rest.NewClient(apiURL, store, nil),
		guard:   guard.New(guard.DefaultRoutes()),
	}, nil
}

// requireRoute runs the route guard for the command's view before any
// network work. Denial prints where the user was sent and fails the command.
func (a *app) requireRoute(cmd *cobra.Command, path string) error {
	snapshot := a.session.Snapshot()
	if snapshot.Authenticated && snapshot.CurrentUser == nil {
		if _, err := a.session.UserInfo(cmd.Context()); err == nil {
			snapshot = a.session.Snapshot()
		}
	}

	decision := a.guard.Check(path, snapshot)
	if !decision.Allowed {
		if decision.RedirectTo == guard.LoginPath {
			return fmt.Errorf("not logged in; run 'toweradmin login' (redirected to %s)", decision.RedirectTo)
		}
		return fmt.Errorf("insufficient role for %s (redirected to %s)", path, decision.RedirectTo)
	}
	return nil
}

func main() {
	apiURL := envOr("TOWERADMIN_API_URL", defaultAPIURL)

	rootCmd := &cobra.Command{
		Use:   "toweradmin",
		Short: "Manage the tower fleet from the terminal",
		Long: `toweradmin manages tower automation instances, credential types,
execution environments, users, and audit logs through the admin API.

Log in first, then use the resource commands:

  toweradmin login --username admin
  toweradmin instances list
  toweradmin credential-types status`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", apiURL, "Admin API base URL")

	var a *app
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		a, err = newApp(apiURL)
		return err
	}
	getApp := func() *app { return a }

	rootCmd.AddCommand(
		loginCmd(getApp),
		logoutCmd(getApp),
		whoamiCmd(getApp),
		dashboardCmd(getApp),
		instancesCmd(getApp),
		environmentsCmd(getApp),
		usersCmd(getApp),
		credentialTypesCmd(getApp),
		auditCmd(getApp),
		configCmd(getApp),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
