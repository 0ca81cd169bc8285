package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/midi"
	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/tune"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <chart.txt> <out.mid>",
	Short: "Renders the first tune of a chart file to a midi file",
	Long:  `Renders the first tune of a chart file to a midi file`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		t := decodeFirstTune(args[0])
		if err := midi.WriteTune(t, args[1]); err != nil {
			panic("Could not render midi: " + err.Error())
		}
		fmt.Printf("Rendered %q to %v\n", t.Metadata.Title, args[1])
	},
}

// decodeFirstTune reads a raw chart file and decodes the first chart that
// survives the pipeline.
func decodeFirstTune(path string) *model.Tune {
	content, err := os.ReadFile(path)
	if err != nil {
		panic("Could not read chart file: " + err.Error())
	}
	results, _, err := tune.DecodeURL(strings.TrimSpace(string(content)), nil)
	if err != nil {
		panic("Could not decode chart file: " + err.Error())
	}
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("Skipping a chart because: %v\n", res.Err)
			continue
		}
		return res.Tune
	}
	panic("No decodable tune in " + path)
}
