package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/towerops/toweradmin/internal/client/dashboard"
	"github.com/towerops/toweradmin/internal/client/guard"
	"github.com/towerops/toweradmin/internal/client/session"
)

func loginCmd(getApp func() *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if username == "" {
				fmt.Print("Username: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				username = strings.TrimSpace(line)
			}
			if password == "" {
				fmt.Print("Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimSpace(line)
			}

			if _, err := a.session.Login(cmd.Context(), username, password); err != nil {
				if errors.Is(err, session.ErrInvalidCredentials) {
					return errors.New("invalid username or password")
				}
				return err
			}

			profile, err := a.session.UserInfo(cmd.Context())
			if err != nil {
				fmt.Printf("Logged in as %s\n", username)
				return nil
			}
			fmt.Printf("Logged in as %s (%s)\n", profile.Username, profile.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func logoutCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			getApp().session.Logout()
			fmt.Println("Logged out")
			return nil
		},
	}
}

func whoamiCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			profile, err := a.session.UserInfo(cmd.Context())
			if err != nil {
				if errors.Is(err, session.ErrNotAuthenticated) {
					return errors.New("not logged in; run 'toweradmin login'")
				}
				return err
			}
			fmt.Printf("Username: %s\nRole:     %s\n", profile.Username, profile.Role)
			if profile.Email != "" {
				fmt.Printf("Email:    %s\n", profile.Email)
			}
			return nil
		},
	}
}

func dashboardCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show fleet counts and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, guard.DefaultPath); err != nil {
				return err
			}

			summary := dashboard.Load(cmd.Context(), a.client)
			fmt.Printf("Instances:    %d\n", summary.InstanceCount)
			fmt.Printf("Credentials:  %d\n", summary.CredentialCount)
			fmt.Printf("Environments: %d\n", summary.EnvironmentCount)

			if len(summary.RecentAudit) > 0 {
				fmt.Println("\nRecent activity:")
				rows := make([][]string, 0, len(summary.RecentAudit))
				for _, e := range summary.RecentAudit {
					rows = append(rows, []string{formatTime(e.Timestamp), e.User, e.Action, e.ObjectRepr})
				}
				renderTable(os.Stdout, []string{"WHEN", "USER", "ACTION", "OBJECT"}, rows)
			}

			for section, err := range summary.Errors {
				fmt.Fprintf(os.Stderr, "warning: %s failed to load: %v\n", section, err)
			}
			return nil
		},
	}
}
