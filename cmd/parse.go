package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/constants"
	"github.com/jsphweid/chartdex/dataset"
)

var parseName string

func init() {
	parseCmd.Flags().StringVar(&parseName, "name", "ireal", "dataset name used to mint ids")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <dataset_dir> [out_dir]",
	Short: "Parses a directory of raw chart .txt files",
	Long:  `Parses a directory of raw chart .txt files into jams annotations and meta.csv`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		outDir := constants.GetOutDir()
		if len(args) > 1 {
			outDir = args[1]
		}
		rows, err := dataset.ParseDataset(args[0], outDir, parseName)
		if err != nil {
			panic("Could not parse dataset: " + err.Error())
		}
		fmt.Printf("Parsed %v tunes into %v\n", len(rows), outDir)
	},
}
