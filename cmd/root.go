package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tphakala/squeakmerge/cmd/catalog"
	"github.com/tphakala/squeakmerge/internal/analysis"
	"github.com/tphakala/squeakmerge/internal/buildinfo"
	"github.com/tphakala/squeakmerge/internal/conf"
	"github.com/tphakala/squeakmerge/internal/report"
)

// RootCommand creates and returns the root command. Running it without a
// subcommand performs the merge.
func RootCommand(ctx *conf.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "squeakmerge",
		Short: "Combine DeepSqueak long and short call spreadsheets",
		Long: `squeakmerge takes the excel files created by DeepSqueak and combines them
into a single csv file. Calls from the short call network are checked for
overlap with accepted calls from the long call network so that no call is
counted twice.

The file names (not the folders containing the files) must include the stripe
number, the treatment and the cage number separated by underscores, such as
"Str1_EtOH_CageC".`,
		Example:       "  squeakmerge -c DeepSqueakExperimentsConfig.json -o AIR_and_EtOH",
		Version:       buildinfo.Current().String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, ctx)
		},
	}

	setupFlags(rootCmd, ctx)
	rootCmd.AddCommand(catalog.Command(ctx))

	return rootCmd
}

// setupFlags defines the flags and binds them to the settings keys.
func setupFlags(rootCmd *cobra.Command, ctx *conf.Context) {
	pf := rootCmd.PersistentFlags()
	pf.StringP("config_file", "c", "", "Experiment configuration file (JSON, comments and trailing commas allowed)")
	pf.Bool("debug", false, "Enable debug output")
	pf.String("logfile", "", "Also write JSON logs to this file, rotated by size")

	f := rootCmd.Flags()
	f.StringP("output_prefix", "o", "", "Prefix for the output files, may include a directory (default Combined_calls.csv and Accepted_calls.csv)")
	f.String("outdir", ".", "Directory for the output files")
	f.Bool("summary", true, "Print a per group summary table")

	bindings := map[string]string{
		"config_file":    "config_file",
		"debug":          "debug",
		"log.file":       "logfile",
		"output.prefix":  "output_prefix",
		"output.dir":     "outdir",
		"output.summary": "summary",
	}
	for key, name := range bindings {
		var flag *pflag.Flag
		for _, set := range []*pflag.FlagSet{pf, f} {
			if flag = set.Lookup(name); flag != nil {
				break
			}
		}
		// Lookup cannot fail for flags defined above.
		_ = ctx.Viper.BindPFlag(key, flag)
	}
}

func runMerge(cmd *cobra.Command, ctx *conf.Context) error {
	settings, err := ctx.Settings()
	if err != nil {
		return err
	}

	if err := settings.RequireConfigFile(); err != nil {
		printWelcome(cmd.OutOrStdout(), ctx)
		return err
	}

	cl, log, err := analysis.NewLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = cl.Close() }()

	res, err := analysis.Merge(cmd.Context(), settings, ctx.Fs, log)
	if err != nil {
		log.Error("merge failed", analysis.ErrorFields(err)...)
		return err
	}

	if settings.Output.Summary {
		if err := report.Summary(cmd.OutOrStdout(), res.Result); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", res.CombinedPath, res.AcceptedPath)
	return err
}

// printWelcome explains the program and lists JSON files in the working
// directory that could be passed with -c.
func printWelcome(w io.Writer, ctx *conf.Context) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "\tWelcome to squeakmerge. This program has been designed to take the excel files created by DeepSqueak and")
	fmt.Fprintln(w, "\tcombine them into a single csv file. Example usage: squeakmerge -c DeepSqueakExperimentsConfig.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "\tNo config file was entered. Please add a config file using the -c option.")

	candidates, err := conf.ConfigCandidates(ctx.Fs, ".")
	switch {
	case err != nil || len(candidates) == 0:
		fmt.Fprintln(w, "\tNo JSON files are in your present working directory.")
	default:
		fmt.Fprintln(w, "\tJSON files in your present working directory are:")
		for _, name := range candidates {
			fmt.Fprintln(w, "\t\t"+name)
		}
	}
	fmt.Fprintln(w)
}
