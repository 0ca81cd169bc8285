package forum

import (
	"encoding/csv"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

const threadPage = `<html><body>
<a href="irealb://Song%20One=A==Swing=C=n=|C|===Bundle">Song One</a>
<a href="irealb://Song%20Two=B==Latin=F=n=|F|">Song Two</a>
<a href="https://example.com/unrelated">not a chart</a>
</body></html>`

func TestExtractChartLinks(t *testing.T) {
	assert := assert.New(t)

	doc, err := html.Parse(strings.NewReader(threadPage))
	assert.NoError(err)

	links := ExtractChartLinks(doc)
	assert.Len(links, 2)
	assert.Equal("Song One", links[0].Name)
	assert.Equal(1, links[0].NumCharts)
	assert.Equal("Song Two", links[1].Name)
	assert.Equal(0, links[1].NumCharts)
	assert.True(strings.HasPrefix(links[0].Charts, "irealb://"))
}

func TestCrawlThreadStopsWithoutNextArrow(t *testing.T) {
	assert := assert.New(t)

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		io.WriteString(w, threadPage)
	}))
	defer server.Close()

	c := NewCrawler(0, 0)
	links, err := c.CrawlThread(server.URL)
	assert.NoError(err)
	assert.Len(links, 2)
	assert.Equal(1, requests)
}

func TestCrawlThreadFollowsNextArrow(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/page1") {
			io.WriteString(w, threadPage+`<img src="next.png" alt="Next">`)
			return
		}
		io.WriteString(w, threadPage)
	}))
	defer server.Close()

	c := NewCrawler(0, 0)
	links, err := c.CrawlThread(server.URL)
	assert.NoError(err)
	assert.Len(links, 4)
}

func TestCrawlThreadReportsBadStatus(t *testing.T) {
	assert := assert.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewCrawler(0, 0)
	_, err := c.CrawlThread(server.URL)
	assert.Error(err)
}

func TestWriteChartCSV(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "thread.csv")
	links := []ChartLink{
		{Name: "Song One", NumCharts: 1, Charts: "irealb://one"},
		{Name: "Song Two", NumCharts: 3, Charts: "irealb://two"},
	}
	assert.NoError(WriteChartCSV(path, links))

	f, err := os.Open(path)
	assert.NoError(err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	assert.NoError(err)
	assert.Equal([][]string{
		{"name", "songs", "ireal_charts"},
		{"Song One", "1", "irealb://one"},
		{"Song Two", "3", "irealb://two"},
	}, records)
}
