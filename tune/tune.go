// Package tune drives the full decode of one chart: header fields off the
// front, then the string stages, then the measure stages. There is exactly
// one decoding strategy, so the driver is a fixed list of stages.
package tune

import (
	"github.com/jsphweid/chartdex/chart"
	"github.com/jsphweid/chartdex/expand"
	"github.com/jsphweid/chartdex/measure"
	"github.com/jsphweid/chartdex/model"
)

type stringStage struct {
	name string
	run  func(string, *model.Diagnostics) (string, error)
}

type measureStage struct {
	name string
	run  func([]string, *model.Diagnostics) ([]string, error)
}

var stringStages = []stringStage{
	{"cleanup", expand.Cleanup},
	{"brackets", expand.ReconcileBrackets},
	{"strip", expand.StripAnnotations},
	{"repeats", expand.FillRepeats},
	{"codas", expand.FillCodas},
}

var measureStages = []measureStage{
	{"bar-repeats", measure.FillBarRepeats},
	{"slashes", measure.FillSlashes},
	{"clean", measure.Clean},
}

// Decode turns one encoded chart string into a Tune. Decoding is pure and
// deterministic; FormatError and ConsistencyError abort this chart only.
func Decode(chartString string) (*model.Tune, error) {
	raw, err := chart.Parse(chartString)
	if err != nil {
		return nil, err
	}

	var diags model.Diagnostics
	music := raw.Music
	for _, stage := range stringStages {
		music, err = stage.run(music, &diags)
		if err != nil {
			return nil, err
		}
	}

	measures, err := measure.Split(music, &diags)
	if err != nil {
		return nil, err
	}
	for _, stage := range measureStages {
		measures, err = stage.run(measures, &diags)
		if err != nil {
			return nil, err
		}
	}
	if len(measures) == 0 {
		return nil, model.Formatf("chart contains no measures")
	}

	return &model.Tune{
		Metadata: model.Metadata{
			Title:         raw.Title,
			Composer:      raw.Composer,
			Style:         raw.Style,
			BPM:           raw.BPM,
			Key:           raw.Key,
			TimeSignature: raw.TimeSignature,
		},
		Measures:    measures,
		Diagnostics: diags,
	}, nil
}

// RegisterFunc is the pre-registration hook: given a raw chart string it
// returns the chart's identifier and whether the chart is new. A non-fresh
// chart short-circuits decoding.
type RegisterFunc func(chartString string) (id string, fresh bool, err error)

// Result is the outcome for one chart of a URL. Exactly one of Tune, Err or
// Skipped is meaningful.
type Result struct {
	ID      string
	Tune    *model.Tune
	Err     error
	Skipped bool
}

// DecodeURL splits a raw URL into charts and decodes each one, isolating
// per-chart failures so one bad chart never sinks the batch. register may
// be nil.
func DecodeURL(rawURL string, register RegisterFunc) ([]Result, string, error) {
	charts, playlist, err := chart.SplitCharts(rawURL)
	if err != nil {
		return nil, "", err
	}

	var results []Result
	for _, c := range charts {
		var res Result
		if register != nil {
			id, fresh, rerr := register(c)
			if rerr != nil {
				res.Err = rerr
				results = append(results, res)
				continue
			}
			res.ID = id
			if !fresh {
				res.Skipped = true
				results = append(results, res)
				continue
			}
		}
		t, derr := Decode(c)
		if derr != nil {
			res.Err = derr
		} else {
			t.Metadata.ID = res.ID
			res.Tune = t
		}
		results = append(results, res)
	}
	return results, playlist, nil
}
