package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func credentialTypesCmd(getApp func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credential-types",
		Aliases: []string{"ct"},
		Short:   "Reconcile credential types across the fleet",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show per-type presence across all instances",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/credential-types"); err != nil {
				return err
			}
			statuses, err := a.client.CredentialTypeStatus(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(statuses))
			for _, st := range statuses {
				rows = append(rows, []string{
					st.Name,
					st.Status,
					fmt.Sprintf("%d", len(st.PresentInInstances)),
					strings.Join(st.MissingInInstances, ", "),
				})
			}
			renderTable(os.Stdout, []string{"NAME", "STATUS", "PRESENT", "MISSING IN"}, rows)
			return nil
		},
	})

	var description string
	duplicateCmd := &cobra.Command{
		Use:   "duplicate <name> <instance>...",
		Short: "Copy a credential type to the instances where it is missing",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/credential-types"); err != nil {
				return err
			}
			results, err := a.client.DuplicateCredentialType(cmd.Context(), args[0], description, args[1:])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Instance, r.Status, r.Message})
			}
			renderTable(os.Stdout, []string{"INSTANCE", "STATUS", "MESSAGE"}, rows)
			return nil
		},
	}
	duplicateCmd.Flags().StringVar(&description, "description", "", "Description for the duplicated type")
	cmd.AddCommand(duplicateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "verify <original> <alternative> <instance>...",
		Short: "Check whether a type exists under an alternative name",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/credential-types"); err != nil {
				return err
			}
			results, err := a.client.VerifyCredentialType(cmd.Context(), args[0], args[1], args[2:])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Instance, r.Status, r.FoundName})
			}
			renderTable(os.Stdout, []string{"INSTANCE", "STATUS", "FOUND NAME"}, rows)
			return nil
		},
	})

	return cmd
}
