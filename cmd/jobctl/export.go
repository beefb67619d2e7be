package main

import (
	"fmt"
	"os"

	"go-jobboard-backend/internal/domain"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export-shortlist",
	Short: "Write the shortlisted applicants of a job to a spreadsheet file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		jobID, _ := flags.GetInt64("job-id")
		format, _ := flags.GetString("format")
		out, _ := flags.GetString("out")

		if jobID <= 0 {
			return fmt.Errorf("--job-id is required")
		}

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		job, err := e.jobs.GetByID(cmd.Context(), jobID)
		if err != nil {
			return fmt.Errorf("loading job %d: %w", jobID, err)
		}

		// Act as the job's recruiter so ownership rules hold when enforced.
		owner := domain.Principal{ID: job.RecruiterID, Role: domain.RoleRecruiter}
		file, err := e.applications.ExportShortlisted(cmd.Context(), owner, jobID, format)
		if err != nil {
			return fmt.Errorf("exporting shortlist: %w", err)
		}

		if out == "" {
			out = file.Filename
		}
		if err := os.WriteFile(out, file.Data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(file.Data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64("job-id", 0, "job to export")
	exportCmd.Flags().String("format", "xlsx", "xlsx or csv")
	exportCmd.Flags().StringP("out", "o", "", "output file (default shortlisted_<job>.<ext>)")
}
