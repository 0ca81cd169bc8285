// Package forum crawls the iReal forum for chart links: paginated genre
// pages list threads, paginated thread pages carry irealb:// anchors. One
// CSV per thread is written, mirroring the dump layout the dataset package
// consumes.
package forum

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/html"

	"github.com/jsphweid/chartdex/constants"
)

// ChartLink is one harvested forum anchor: the link text, how many charts
// the bundle holds, and the raw encoded url.
type ChartLink struct {
	Name      string
	NumCharts int
	Charts    string
}

type Crawler struct {
	Client  *http.Client
	MinWait int // seconds
	MaxWait int
}

func NewCrawler(minWait, maxWait int) *Crawler {
	return &Crawler{
		Client:  &http.Client{Timeout: 30 * time.Second},
		MinWait: minWait,
		MaxWait: maxWait,
	}
}

// CrawlForumPage walks every page of one forum section, fetches the charts
// of each thread and writes them to a per-thread CSV under outDir. Pinned
// threads repeat across pages, so visited urls are crawled once.
func (c *Crawler) CrawlForumPage(pageURL, outDir string) error {
	visited := make(map[string]bool)

	for i := 1; i < constants.MaxForumPages; i++ {
		fullPageURL := fmt.Sprintf("%v/page%v", pageURL, i)
		fmt.Printf("Processing forum page %v: %v\n", i, fullPageURL)
		doc, err := c.fetch(fullPageURL)
		if err != nil {
			return err
		}

		for j, thread := range findThreadLinks(doc) {
			threadURL := resolveURL(constants.ForumBaseURL, thread.href)
			if visited[threadURL] {
				continue
			}
			fmt.Printf("Retrieving charts for thread %v: %v\n", j, thread.name)
			links, err := c.CrawlThread(threadURL)
			if err != nil {
				fmt.Printf("Skipping thread %v because: %v\n", thread.name, err)
				continue
			}
			fileName := strings.ToLower(strings.ReplaceAll(thread.name, "/", "-"))
			if err := WriteChartCSV(filepath.Join(outDir, fileName+".csv"), links); err != nil {
				return err
			}
			visited[threadURL] = true
		}

		if !hasNextPage(doc) {
			break
		}
	}
	return nil
}

// CrawlThread accumulates the chart links of every page in one thread.
func (c *Crawler) CrawlThread(threadURL string) ([]ChartLink, error) {
	var links []ChartLink
	for i := 1; i < constants.MaxForumPages; i++ {
		pageURL := fmt.Sprintf("%v/page%v", threadURL, i)
		fmt.Printf("Processing thread page %v\n", pageURL)
		doc, err := c.fetch(pageURL)
		if err != nil {
			return nil, err
		}
		links = append(links, ExtractChartLinks(doc)...)
		if !hasNextPage(doc) {
			break
		}
	}
	return links, nil
}

// ExtractChartLinks pulls every irealb:// anchor out of a parsed page.
func ExtractChartLinks(doc *html.Node) []ChartLink {
	var links []ChartLink
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if !strings.HasPrefix(href, "irealb://") {
			return
		}
		links = append(links, ChartLink{
			Name:      nodeText(n),
			NumCharts: strings.Count(href, "==="),
			Charts:    href,
		})
	})
	return links
}

func WriteChartCSV(path string, links []ChartLink) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %v", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "songs", "ireal_charts"}); err != nil {
		return errors.Wrap(err, "could not write csv header")
	}
	for _, link := range links {
		if err := w.Write([]string{link.Name, fmt.Sprint(link.NumCharts), link.Charts}); err != nil {
			return errors.Wrap(err, "could not write csv row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "could not flush csv")
}

// fetch waits a polite, randomized interval and then retrieves and parses
// one page.
func (c *Crawler) fetch(pageURL string) (*html.Node, error) {
	maxWait := c.MaxWait
	if maxWait <= c.MinWait {
		maxWait = c.MinWait + 1
	}
	wait := c.MinWait + rand.Intn(maxWait-c.MinWait)
	time.Sleep(time.Duration(wait) * time.Second)

	resp, err := c.Client.Get(pageURL)
	if err != nil {
		return nil, errors.Wrapf(err, "could not fetch %v", pageURL)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %v returned %v", pageURL, resp.Status)
	}
	doc, err := html.Parse(resp.Body)
	return doc, errors.Wrapf(err, "could not parse %v", pageURL)
}

type threadLink struct {
	name string
	href string
}

func findThreadLinks(doc *html.Node) []threadLink {
	var threads []threadLink
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" && hasClass(n, "title") {
			threads = append(threads, threadLink{name: nodeText(n), href: attr(n, "href")})
		}
	})
	return threads
}

// hasNextPage checks for the pagination arrow the forum renders on every
// page but the last.
func hasNextPage(doc *html.Node) bool {
	found := false
	walk(doc, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "img" && attr(n, "alt") == "Next" {
			found = true
		}
	})
	return found
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	})
	return strings.TrimSpace(b.String())
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	hrefURL, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(hrefURL).String()
}
