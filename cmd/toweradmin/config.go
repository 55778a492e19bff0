package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/towerops/toweradmin/internal/client/rest"
)

func configCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the upstream tower connection (admin only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored tower connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/config"); err != nil {
				return err
			}
			cfg, err := a.client.Config(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("URL:      %s\nUsername: %s\n", cfg.BaseURL, cfg.Username)
			return nil
		},
	})

	var payload rest.ConfigPayload
	var test bool
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Store the tower connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/config"); err != nil {
				return err
			}
			if test && payload.Password != "" {
				if err := a.client.TestConnection(cmd.Context(), payload.BaseURL, payload.Username, payload.Password); err != nil {
					return fmt.Errorf("connection test failed: %w", err)
				}
				fmt.Println("Connection test passed")
			}
			saved, err := a.client.SaveConfig(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Printf("Config saved for %s\n", saved.BaseURL)
			return nil
		},
	}
	setCmd.Flags().StringVar(&payload.BaseURL, "url", "", "Tower base URL")
	setCmd.Flags().StringVar(&payload.Username, "username", "", "Tower username")
	setCmd.Flags().StringVar(&payload.Password, "password", "", "Tower password (empty keeps the stored one)")
	setCmd.Flags().BoolVar(&test, "test", false, "Test the connection before saving")
	_ = setCmd.MarkFlagRequired("url")
	_ = setCmd.MarkFlagRequired("username")
	cmd.AddCommand(setCmd)

	return cmd
}
