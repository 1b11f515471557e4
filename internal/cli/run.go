package cli

import (
	"github.com/spf13/cobra"

	"examscore/pkg/report"
)

func newReport(cmd *cobra.Command, args []string) (*report.Report, string, error) {
	if len(args) == 1 {
		cfg.Input.Path = args[0]
	}
	opt, err := report.OptionsFromConfig(cfg)
	if err != nil {
		return nil, "", err
	}
	return report.New(cmd.OutOrStdout(), opt), cfg.Input.Path, nil
}

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Run the full analysis and model comparison",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, path, err := newReport(cmd, args)
		if err != nil {
			return err
		}
		_, err = r.Run(cmd.Context(), path)
		return err
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile [file]",
	Short: "Print descriptive statistics and render the exploratory plots",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, path, err := newReport(cmd, args)
		if err != nil {
			return err
		}
		_, err = r.Profile(cmd.Context(), path)
		return err
	},
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [file]",
	Short: "Clean, encode and compare the regression models",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, path, err := newReport(cmd, args)
		if err != nil {
			return err
		}
		_, err = r.Evaluate(cmd.Context(), path)
		return err
	},
}
