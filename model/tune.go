package model

// TimeSignature as written on the chart, e.g. 4/4 or 12/8.
type TimeSignature struct {
	Numerator   int
	Denominator int
}

type Metadata struct {
	ID            string
	Title         string
	Composer      string
	Style         string
	BPM           int
	Key           string
	TimeSignature TimeSignature
}

// Tune is a fully decoded chart: header metadata plus a flat list of
// measures, each measure a space-separated string of chord tokens.
type Tune struct {
	Metadata    Metadata
	Measures    []string
	Diagnostics Diagnostics
}
