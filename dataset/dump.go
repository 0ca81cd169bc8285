package dataset

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pkg/errors"

	"github.com/jsphweid/chartdex/db"
	"github.com/jsphweid/chartdex/tune"
	"github.com/jsphweid/chartdex/util"
)

// ParseForumDump decodes every chart found in a forum dump: a tree of
// per-thread CSV files (name, songs, ireal_charts). Threads are processed
// concurrently, one chart per task; the registry deduplicates charts seen
// in earlier runs or other threads.
func ParseForumDump(dumpDir, outDir, name string, registry *db.Registry, workers int) ([]MetaRow, error) {
	jamsDir := util.CreateDir(filepath.Join(outDir, "jams"))

	var threadFiles []string
	err := filepath.WalkDir(dumpDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".csv") {
			threadFiles = append(threadFiles, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "could not walk %v", dumpDir)
	}
	fmt.Printf("Found %v threads in %v\n", len(threadFiles), dumpDir)

	if workers < 1 {
		workers = 1
	}
	jobs := make(chan string)

	var mu sync.Mutex
	var rows []MetaRow
	processed := 0

	// worker completions arrive in bursts; coalesce the progress lines
	progress := debounce.New(500 * time.Millisecond)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("Processed %v charts so far\n", processed)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for threadFile := range jobs {
				threadRows := parseThread(threadFile, jamsDir, name, registry)
				mu.Lock()
				rows = append(rows, threadRows...)
				processed += len(threadRows)
				mu.Unlock()
				progress(report)
			}
		}()
	}
	for _, threadFile := range threadFiles {
		jobs <- threadFile
	}
	close(jobs)
	wg.Wait()

	if err := WriteMetaCSV(filepath.Join(outDir, "meta.csv"), rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// parseThread handles one thread CSV. Failures are per chart: logged,
// recorded as a gap, and skipped.
func parseThread(threadFile, jamsDir, name string, registry *db.Registry) []MetaRow {
	records, err := readThreadCSV(threadFile)
	if err != nil {
		fmt.Printf("Skipping %v because: %v\n", threadFile, err)
		return nil
	}

	var rows []MetaRow
	for _, record := range records {
		chartsName, rawCharts := record[0], record[2]
		results, _, err := tune.DecodeURL(rawCharts, registry.RegisterChart)
		if err != nil {
			fmt.Printf("Cannot split/decode charts %v because: %v\n", chartsName, err)
			continue
		}
		for i, res := range results {
			if res.Skipped {
				fmt.Printf("Chart %v/%v already registered\n", chartsName, i)
				continue
			}
			if res.Err != nil {
				fmt.Printf("Cannot parse %v/%v because: %v\n", chartsName, i, res.Err)
				continue
			}
			id := fmt.Sprintf("%v_%v", name, res.ID)
			if err := registry.RegisterMetadata(res.ID, res.Tune.Metadata); err != nil {
				fmt.Printf("Could not register metadata for %v because: %v\n", id, err)
			}
			jamsPath, err := saveJAMS(res.Tune, jamsDir, id)
			if err != nil {
				fmt.Printf("Could not save %v because: %v\n", id, err)
				continue
			}
			if err := registry.RegisterJAMS(res.ID, jamsPath); err != nil {
				fmt.Printf("Could not register jams path for %v because: %v\n", id, err)
			}
			rows = append(rows, metaRow(id, res.Tune, jamsPath))
		}
	}
	return rows
}

// readThreadCSV returns the data records of a thread dump: name, number of
// songs, raw charts url.
func readThreadCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "could not open thread csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "could not read thread csv")
	}
	if len(records) > 0 && records[0][0] == "name" { // drop header
		records = records[1:]
	}
	return records, nil
}
