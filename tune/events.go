package tune

import (
	"fmt"
	"strings"

	"github.com/jsphweid/chartdex/model"
)

// Events converts a decoded tune into timed chord, key and time-signature
// events. Chord durations within a measure are uniform: the true note values
// are not recoverable from the encoding, so the measure's beats are divided
// evenly among its chords.
func Events(t *model.Tune) (chords, keys, timesigs []model.TimedEvent, err error) {
	ts := t.Metadata.TimeSignature
	beats := float64(ts.Numerator)
	if beats <= 0 {
		return nil, nil, nil, model.Inconsistentf("time signature %v/%v has no beats", ts.Numerator, ts.Denominator)
	}

	for m, measureString := range t.Measures {
		tokens := strings.Fields(measureString)
		if len(tokens) == 0 {
			return nil, nil, nil, model.Inconsistentf("measure %v has no chords", m+1)
		}
		dur := beats / float64(len(tokens))
		for i, token := range tokens {
			chords = append(chords, model.TimedEvent{
				Measure:  m + 1,
				Beat:     float64(i) * dur,
				Duration: dur,
				Value:    token,
			})
		}
	}

	// a single key per chart; several space-separated keys would make the
	// single spanning event below a lie
	if len(strings.Fields(t.Metadata.Key)) != 1 {
		return nil, nil, nil, model.Inconsistentf("expected exactly one key, got %q", t.Metadata.Key)
	}

	total := beats * float64(len(t.Measures))
	keys = []model.TimedEvent{{Measure: 1, Beat: 0, Duration: total, Value: t.Metadata.Key}}
	timesigs = []model.TimedEvent{{
		Measure:  1,
		Beat:     0,
		Duration: total,
		Value:    fmt.Sprintf("%d/%d", ts.Numerator, ts.Denominator),
	}}
	return chords, keys, timesigs, nil
}
