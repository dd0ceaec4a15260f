package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"placement-go/config"
)

func RootCmd() *cobra.Command {
	v := viper.New()
	cfg := &config.Config{}
	cmd := &cobra.Command{
		Use:          "placementctl",
		Short:        "Build job placements and report their scheduling metrics.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			if err := config.LoadConfig(v, cfg, configPath); err != nil {
				return errors.WithMessage(err, "loading config")
			}
			return config.ConfigureLogging(cfg.Logging)
		},
	}
	cmd.PersistentFlags().String("config", "", "Directory containing config.yaml.")
	cmd.PersistentFlags().String("logLevel", "", "Log level, overrides logging.level.")
	cmd.PersistentFlags().String("out", "", "Report directory, overrides report.dir.")
	_ = v.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("logLevel"))
	_ = v.BindPFlag("report.dir", cmd.PersistentFlags().Lookup("out"))

	cmd.AddCommand(
		exampleCmd(cfg),
		versionCmd(),
	)
	return cmd
}
