package main

import (
	"os"

	"github.com/spf13/cobra"
)

func auditCmd(getApp func() *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recent audit log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.requireRoute(cmd, "/audit-logs"); err != nil {
				return err
			}
			entries, err := a.client.AuditLogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{formatTime(e.Timestamp), e.User, e.Action, e.ObjectType, e.ObjectRepr})
			}
			renderTable(os.Stdout, []string{"WHEN", "USER", "ACTION", "TYPE", "OBJECT"}, rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of entries")
	return cmd
}
