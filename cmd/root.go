package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chartdex",
	Short: "Decode iReal chart urls into measures and timed annotations",
	Long:  `Decode iReal chart urls into measures and timed annotations`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
