package constants

import "os"

func GetOutDir() string {
	path := os.Getenv("OUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetRegistryEndpoint() string {
	endpoint := os.Getenv("REGISTRY_ENDPOINT")
	if endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetRegistryTable() string {
	table := os.Getenv("REGISTRY_TABLE")
	if table != "" {
		return table
	}
	return "chartdex-charts"
}

func GetPort() string {
	port := os.Getenv("PORT")
	if port != "" {
		return port
	}
	return "8080"
}

// MaxRepeatPasses caps the repeat-expansion fixed-point loop so corrupted
// input can't spin forever.
const MaxRepeatPasses = 128

// Forum crawling bounds, matching the upstream forum's layout.
const ForumBaseURL = "https://www.irealb.com/forums/"
const MaxForumPages = 300
