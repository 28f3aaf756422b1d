package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "showroom",
	Short: "Multi-tenant vehicle showroom service",
	Long: `A service that manages vehicle stock and sale transactions for
multiple showrooms, and exposes an API for stock, sales and reporting.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := cmd.Help()
		if err != nil {
			log.Error().Err(err).Msg("failed to display help")
		}
	},
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize()
}
