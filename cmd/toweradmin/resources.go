package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/towerops/toweradmin/internal/client/rest"
	"github.com/towerops/toweradmin/internal/core/domain"
)

func instancesCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Manage tower instances",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/instances"); err != nil {
				return err
			}
			instances, err := a.client.Instances(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(instances))
			for _, in := range instances {
				rows = append(rows, []string{in.Name, in.URL, in.Region, in.Environment, in.Status})
			}
			renderTable(os.Stdout, []string{"NAME", "URL", "REGION", "ENVIRONMENT", "STATUS"}, rows)
			return nil
		},
	})

	var payload rest.InstancePayload
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register an instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/instances"); err != nil {
				return err
			}
			created, err := a.client.CreateInstance(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Printf("Instance %s created (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&payload.Name, "name", "", "Instance name")
	addCmd.Flags().StringVar(&payload.URL, "url", "", "Instance base URL")
	addCmd.Flags().StringVar(&payload.Username, "username", "", "API username")
	addCmd.Flags().StringVar(&payload.Password, "password", "", "API password")
	addCmd.Flags().StringVar(&payload.Region, "region", "", "Region")
	addCmd.Flags().StringVar(&payload.Environment, "environment", "", "Environment label")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("url")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/instances"); err != nil {
				return err
			}
			if err := a.client.DeleteInstance(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Instance removed")
			return nil
		},
	})

	return cmd
}

func environmentsCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "environments",
		Short: "Manage execution environments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List execution environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/environments"); err != nil {
				return err
			}
			environments, err := a.client.Environments(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(environments))
			for _, env := range environments {
				rows = append(rows, []string{env.Name, env.Image, env.Description})
			}
			renderTable(os.Stdout, []string{"NAME", "IMAGE", "DESCRIPTION"}, rows)
			return nil
		},
	})

	var env domain.Environment
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register an execution environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/environments"); err != nil {
				return err
			}
			created, err := a.client.CreateEnvironment(cmd.Context(), env)
			if err != nil {
				return err
			}
			fmt.Printf("Environment %s created (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&env.Name, "name", "", "Environment name")
	addCmd.Flags().StringVar(&env.Image, "image", "", "Container image")
	addCmd.Flags().StringVar(&env.Description, "description", "", "Description")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("image")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an execution environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/environments"); err != nil {
				return err
			}
			if err := a.client.DeleteEnvironment(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Environment removed")
			return nil
		},
	})

	return cmd
}

func usersCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage admin API users (admin only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/users"); err != nil {
				return err
			}
			users, err := a.client.Users(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.Username, u.Email, u.Role, formatTime(u.CreatedAt)})
			}
			renderTable(os.Stdout, []string{"USERNAME", "EMAIL", "ROLE", "CREATED"}, rows)
			return nil
		},
	})

	var payload rest.UserPayload
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/users"); err != nil {
				return err
			}
			if !domain.ValidRole(payload.Role) {
				return fmt.Errorf("invalid role %q, want admin, member, or viewer", payload.Role)
			}
			created, err := a.client.CreateUser(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Printf("User %s created with role %s\n", created.Username, created.Role)
			return nil
		},
	}
	addCmd.Flags().StringVar(&payload.Username, "username", "", "Username")
	addCmd.Flags().StringVar(&payload.Email, "email", "", "Email")
	addCmd.Flags().StringVar(&payload.Password, "password", "", "Password")
	addCmd.Flags().StringVar(&payload.Role, "role", domain.RoleViewer, "Role: admin, member, or viewer")
	_ = addCmd.MarkFlagRequired("username")
	_ = addCmd.MarkFlagRequired("password")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/users"); err != nil {
				return err
			}
			if err := a.client.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("User deleted")
			return nil
		},
	})

	return cmd
}
