package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/exodus/internal/app"
)

func (c *CLI) newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [packages...]",
		Short: "Convert the given packages and their dependencies",
		Long: "Convert the given legacy packages, and everything they depend on, " +
			"into standalone modules under the configured output directory. " +
			"Without arguments the packages listed in the configuration file are " +
			"converted.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			force, _ := cmd.Flags().GetBool("force")
			return c.app.Run(cmd.Context(), args, app.RunOptions{
				ConfigPath: configPath,
				Force:      force,
			})
		},
	}
	cmd.Flags().StringP("config", "c", "exodus.yaml", "Path to the configuration file")
	cmd.Flags().BoolP("force", "f", false, "Reconvert even when inputs are unchanged")
	return cmd
}
