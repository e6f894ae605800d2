package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ws101",
	Short: "Learn the language of the markets",
	Long: "Wall Street 101: a terminal trainer for market vocabulary, with quizzes, badges, " +
		"a what-if calculator and a stock analyzer.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default: ./ws101.yaml or $XDG_CONFIG_HOME/ws101/ws101.yaml)")
	rootCmd.PersistentFlags().String("journal", "", "Journal DSN or SQLite file path (overrides WS101_JOURNAL_DSN; default in-memory)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a custom catalog JSON file")

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(whatifCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(drillCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
}
