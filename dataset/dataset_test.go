package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDataset(t *testing.T) {
	assert := assert.New(t)

	datasetDir := t.TempDir()
	outDir := t.TempDir()
	chart := "irealbook://Test Tune=Doe John==Medium Swing=C=n=T44|C F |G C Z==Swing=120=1"
	assert.NoError(os.WriteFile(filepath.Join(datasetDir, "test-tune.txt"), []byte(chart), 0666))
	assert.NoError(os.WriteFile(filepath.Join(datasetDir, "broken.txt"), []byte("not a chart"), 0666))

	rows, err := ParseDataset(datasetDir, outDir, "test")
	assert.NoError(err)
	assert.Len(rows, 1)
	assert.Equal("test_0", rows[0].ID)
	assert.Equal("Test Tune", rows[0].Title)
	assert.Equal("4/4", rows[0].TimeSignature)

	assert.FileExists(rows[0].JAMSPath)
	assert.FileExists(filepath.Join(outDir, "meta.csv"))
}

func TestWriteMetaCSVSortsByID(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "meta.csv")
	rows := []MetaRow{
		{ID: "test_1", Title: "B", TimeSignature: "4/4", JAMSPath: "b.jams"},
		{ID: "test_0", Title: "A", Tempo: 90, TimeSignature: "3/4", JAMSPath: "a.jams"},
	}
	assert.NoError(WriteMetaCSV(path, rows))

	f, err := os.Open(path)
	assert.NoError(err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	assert.NoError(err)
	assert.Equal([][]string{
		{"id", "title", "artists", "genre", "tempo", "time_signature", "jams_path"},
		{"test_0", "A", "", "", "90", "3/4", "a.jams"},
		{"test_1", "B", "", "", "0", "4/4", "b.jams"},
	}, records)
}

func TestReadThreadCSVDropsHeader(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "thread.csv")
	content := "name,songs,ireal_charts\nSong One,1,irealb://one\n"
	assert.NoError(os.WriteFile(path, []byte(content), 0666))

	records, err := readThreadCSV(path)
	assert.NoError(err)
	assert.Equal([][]string{{"Song One", "1", "irealb://one"}}, records)
}
