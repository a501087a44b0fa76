package catalog

import (
	"github.com/spf13/cobra"

	"github.com/tphakala/squeakmerge/internal/analysis"
	"github.com/tphakala/squeakmerge/internal/conf"
	"github.com/tphakala/squeakmerge/internal/report"
)

// Command creates the catalog command, which lists the files each subject
// and group resolves to without reading any spreadsheet.
func Command(ctx *conf.Context) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the spreadsheets found for each subject and group",
		Long: `Build the file catalog from the experiment configuration and print it.
Files whose names carry no stripe, treatment and cage are listed as skipped,
and files that replaced an earlier match for the same subject and group are
counted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.Settings()
			if err != nil {
				return err
			}

			cl, log, err := analysis.NewLogger(settings, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = cl.Close() }()

			cat, err := analysis.BuildCatalog(settings, ctx.Fs, log)
			if err != nil {
				log.Error("catalog failed", analysis.ErrorFields(err)...)
				return err
			}
			return report.Catalog(cmd.OutOrStdout(), cat, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatTable, "Output format: table, yaml")

	return cmd
}
