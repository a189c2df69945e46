package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor found errors")

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check stored episodes and rosters",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := app.store().Doctor(cmd.Context())
			if err := writeData(cmd, app, report, map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors are found")
	return cmd
}
