package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/constants"
	"github.com/jsphweid/chartdex/dataset"
	"github.com/jsphweid/chartdex/db"
)

var dumpName string
var dumpWorkers int

func init() {
	dumpCmd.Flags().StringVar(&dumpName, "name", "ireal-forum", "dataset name used to mint ids")
	dumpCmd.Flags().IntVar(&dumpWorkers, "workers", 4, "number of concurrent thread workers")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump <dump_dir> [out_dir]",
	Short: "Parses a forum dump",
	Long:  `Parses a forum dump (per-thread csv files), skipping charts already registered`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		outDir := constants.GetOutDir()
		if len(args) > 1 {
			outDir = args[1]
		}
		registry, err := db.NewRegistry()
		if err != nil {
			panic("Could not open the chart registry: " + err.Error())
		}
		rows, err := dataset.ParseForumDump(args[0], outDir, dumpName, registry, dumpWorkers)
		if err != nil {
			panic("Could not parse forum dump: " + err.Error())
		}
		fmt.Printf("Parsed %v new tunes into %v\n", len(rows), outDir)
	},
}
