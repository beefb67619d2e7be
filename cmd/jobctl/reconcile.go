package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Find and repair application records that disagree between jobs and users",
	Long: `reconcile compares every job-side application record with the user-side one.
The job side is authoritative: missing or stale user-side records are rewritten from it,
and user-side records without a job-side record are removed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return err
		}

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		report, err := e.applications.Reconcile(cmd.Context(), dryRun)
		if err != nil {
			return fmt.Errorf("reconciling applications: %w", err)
		}

		out, _ := json.MarshalIndent(report, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().Bool("dry-run", false, "report inconsistencies without repairing them")
}
