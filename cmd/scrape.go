package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jsphweid/chartdex/forum"
	"github.com/jsphweid/chartdex/util"
)

var scrapeMinWait int
var scrapeMaxWait int

func init() {
	scrapeCmd.Flags().IntVar(&scrapeMinWait, "min-wait", 0, "minimum seconds between requests")
	scrapeCmd.Flags().IntVar(&scrapeMaxWait, "max-wait", 2, "maximum seconds between requests")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <index.csv> <out_dir>",
	Short: "Scrapes chart links from the forum",
	Long:  `Scrapes chart links from the forum pages listed in an index csv (section, url)`,
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		scrape(args[0], args[1])
	},
}

func scrape(indexPath, outDir string) {
	f, err := os.Open(indexPath)
	if err != nil {
		panic("Could not open index csv: " + err.Error())
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		panic("Could not read index csv: " + err.Error())
	}

	crawler := forum.NewCrawler(scrapeMinWait, scrapeMaxWait)
	for _, record := range records {
		if len(record) < 2 {
			continue
		}
		section, pageURL := record[0], record[1]
		sectionDir := util.CreateDir(filepath.Join(outDir, section))
		fmt.Printf("Extracting charts from forum section: %v\n", section)
		if err := crawler.CrawlForumPage(pageURL, sectionDir); err != nil {
			fmt.Printf("Skipping section %v because: %v\n", section, err)
		}
	}
}
