package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/tune"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <chart.txt>",
	Short: "Inspects a decoded chart",
	Long:  `Inspects a decoded chart: measures, events and warnings`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	t := decodeFirstTune(path)
	meta := t.Metadata
	fmt.Printf("title: %v\n", meta.Title)
	fmt.Printf("composer: %v\n", meta.Composer)
	fmt.Printf("style: %v\n", meta.Style)
	fmt.Printf("key: %v\n", meta.Key)
	fmt.Printf("time signature: %v/%v\n", meta.TimeSignature.Numerator, meta.TimeSignature.Denominator)
	fmt.Printf("tempo: %v\n", meta.BPM)

	for i, m := range t.Measures {
		fmt.Printf("measure %v: %v\n", i+1, m)
	}

	chords, keys, timesigs, err := tune.Events(t)
	if err != nil {
		panic("Could not extract events: " + err.Error())
	}
	fmt.Printf("%v chord events, %v key events, %v time signature events\n",
		len(chords), len(keys), len(timesigs))
	for _, w := range t.Diagnostics.Warnings {
		fmt.Printf("warning (%v): %v\n", w.Stage, w.Message)
	}
}
