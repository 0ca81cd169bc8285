// Package dataset runs the decoder over whole collections: directories of
// raw chart .txt files and CSV dumps of the forum. Each chart is decoded
// independently; one bad chart is logged and skipped, never fatal.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/jsphweid/chartdex/jams"
	"github.com/jsphweid/chartdex/model"
	"github.com/jsphweid/chartdex/tune"
	"github.com/jsphweid/chartdex/util"
)

// MetaRow is one line of the meta.csv export.
type MetaRow struct {
	ID            string
	Title         string
	Artists       string
	Genre         string
	Tempo         int
	TimeSignature string
	JAMSPath      string
}

func metaRow(id string, t *model.Tune, jamsPath string) MetaRow {
	ts := t.Metadata.TimeSignature
	return MetaRow{
		ID:            id,
		Title:         t.Metadata.Title,
		Artists:       t.Metadata.Composer,
		Genre:         t.Metadata.Style,
		Tempo:         t.Metadata.BPM,
		TimeSignature: fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator),
		JAMSPath:      jamsPath,
	}
}

// ParseDataset decodes every .txt chart file under datasetDir and writes a
// jams/ directory plus meta.csv under outDir. Ids are name_N in encounter
// order.
func ParseDataset(datasetDir, outDir, name string) ([]MetaRow, error) {
	jamsDir := util.CreateDir(filepath.Join(outDir, "jams"))
	chartFiles, err := filepath.Glob(filepath.Join(datasetDir, "*.txt"))
	if err != nil {
		return nil, errors.Wrap(err, "could not list dataset dir")
	}
	fmt.Printf("Found %v .txt files for parsing\n", len(chartFiles))

	var rows []MetaRow
	counter := 0
	for _, chartFile := range chartFiles {
		content, err := os.ReadFile(chartFile)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", chartFile, err)
			continue
		}
		results, _, err := tune.DecodeURL(string(content), nil)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", chartFile, err)
			continue
		}
		for _, res := range results {
			if res.Err != nil {
				fmt.Printf("Skipping a chart in %v because: %v\n", chartFile, res.Err)
				continue
			}
			id := fmt.Sprintf("%v_%v", name, counter)
			counter++
			jamsPath, err := saveJAMS(res.Tune, jamsDir, id)
			if err != nil {
				fmt.Printf("Could not save %v because: %v\n", id, err)
				continue
			}
			rows = append(rows, metaRow(id, res.Tune, jamsPath))
		}
	}

	if err := WriteMetaCSV(filepath.Join(outDir, "meta.csv"), rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func saveJAMS(t *model.Tune, jamsDir, id string) (string, error) {
	doc, err := jams.FromTune(t)
	if err != nil {
		return "", err
	}
	jamsPath := filepath.Join(jamsDir, id+".jams")
	if err := doc.Save(jamsPath); err != nil {
		return "", err
	}
	return jamsPath, nil
}

// WriteMetaCSV writes the metadata rows sorted by id, so concurrent
// producers still yield a stable file.
func WriteMetaCSV(path string, rows []MetaRow) error {
	sorted := make([]MetaRow, len(rows))
	copy(sorted, rows)
	slices.SortFunc(sorted, func(a, b MetaRow) bool {
		return a.ID < b.ID
	})

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "title", "artists", "genre", "tempo", "time_signature", "jams_path"}); err != nil {
		return errors.Wrap(err, "could not write csv header")
	}
	for _, row := range sorted {
		record := []string{
			row.ID, row.Title, row.Artists, row.Genre,
			strconv.Itoa(row.Tempo), row.TimeSignature, row.JAMSPath,
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "could not write csv row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "could not flush csv")
}
