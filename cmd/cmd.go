package cmd

import (
	"github.com/mylucky2d3d/crawler/cmd/scrape"
	"github.com/mylucky2d3d/crawler/cmd/server"
	"github.com/mylucky2d3d/crawler/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version.",
	Long:  "print version.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		version.Printer(cmd.OutOrStdout())
	},
}

var configPath string

func NewRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:          "lottery",
		Short:        "scrape and serve 2D/3D lottery results.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", "config.toml", "path of the TOML config file")
	rootCmd.AddCommand(server.ServerCmd, scrape.ScrapeCmd, versionCmd)
	return rootCmd
}
