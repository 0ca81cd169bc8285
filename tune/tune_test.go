package tune

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/chartdex/model"
)

func TestDecodeFullChart(t *testing.T) {
	assert := assert.New(t)

	tune, err := Decode("Test Tune=Doe John==Medium Swing=C=n=T44{C F |G C }Z==Swing=120=1")
	assert.NoError(err)
	assert.Equal("Test Tune", tune.Metadata.Title)
	assert.Equal("Doe John", tune.Metadata.Composer)
	assert.Equal("Medium Swing", tune.Metadata.Style)
	assert.Equal("C", tune.Metadata.Key)
	assert.Equal(120, tune.Metadata.BPM)
	assert.Equal(model.TimeSignature{Numerator: 4, Denominator: 4}, tune.Metadata.TimeSignature)
	assert.Equal([]string{"C F", "G C", "C F", "G C"}, tune.Measures)
}

func TestDecodeRejectsMalformedCharts(t *testing.T) {
	assert := assert.New(t)

	var fe *model.FormatError
	_, err := Decode("")
	assert.ErrorAs(err, &fe)

	_, err = Decode("too=few=fields")
	assert.ErrorAs(err, &fe)

	_, err = Decode("X=Y==Style=C=n=C Q D Q E Q F")
	assert.ErrorAs(err, &fe)
}

func TestDecodeIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	first, err := Decode("X=Y==Style=C=n=T44{C F |G7 C |A- D7 }")
	assert.NoError(err)

	again, err := Decode("X=Y==Style=C=n=" + strings.Join(first.Measures, " |"))
	assert.NoError(err)
	assert.Equal(first.Measures, again.Measures)
}

func TestEventsTiming(t *testing.T) {
	assert := assert.New(t)

	tune := &model.Tune{
		Metadata: model.Metadata{
			Key:           "C",
			TimeSignature: model.TimeSignature{Numerator: 4, Denominator: 4},
		},
		Measures: []string{"C F", "G"},
	}
	chords, keys, timesigs, err := Events(tune)
	assert.NoError(err)

	assert.Equal([]model.TimedEvent{
		{Measure: 1, Beat: 0, Duration: 2, Value: "C"},
		{Measure: 1, Beat: 2, Duration: 2, Value: "F"},
		{Measure: 2, Beat: 0, Duration: 4, Value: "G"},
	}, chords)
	assert.Equal([]model.TimedEvent{{Measure: 1, Beat: 0, Duration: 8, Value: "C"}}, keys)
	assert.Equal([]model.TimedEvent{{Measure: 1, Beat: 0, Duration: 8, Value: "4/4"}}, timesigs)
}

func TestEventsRejectsMultipleKeys(t *testing.T) {
	assert := assert.New(t)

	tune := &model.Tune{
		Metadata: model.Metadata{
			Key:           "C G",
			TimeSignature: model.TimeSignature{Numerator: 4, Denominator: 4},
		},
		Measures: []string{"C"},
	}
	var ce *model.ConsistencyError
	_, _, _, err := Events(tune)
	assert.ErrorAs(err, &ce)
}

func TestEventsRejectsEmptyMeasures(t *testing.T) {
	assert := assert.New(t)

	tune := &model.Tune{
		Metadata: model.Metadata{
			Key:           "C",
			TimeSignature: model.TimeSignature{Numerator: 4, Denominator: 4},
		},
		Measures: []string{"C", ""},
	}
	var ce *model.ConsistencyError
	_, _, _, err := Events(tune)
	assert.ErrorAs(err, &ce)
}

func TestDecodeURLIsolatesBadCharts(t *testing.T) {
	assert := assert.New(t)

	raw := "irealbook://Bad=Chart===Good=C==Swing=C=n=|C F |G C"
	results, playlist, err := DecodeURL(raw, nil)
	assert.NoError(err)
	assert.Equal("", playlist)
	assert.Len(results, 2)
	assert.Error(results[0].Err)
	assert.NoError(results[1].Err)
	assert.Equal([]string{"C F", "G C"}, results[1].Tune.Measures)
}

func TestDecodeURLSkipsRegisteredCharts(t *testing.T) {
	assert := assert.New(t)

	register := func(chartString string) (string, bool, error) {
		return "chart-1", false, nil
	}
	results, _, err := DecodeURL("irealbook://Good=C==Swing=C=n=|C F |G C", register)
	assert.NoError(err)
	assert.Len(results, 1)
	assert.True(results[0].Skipped)
	assert.Equal("chart-1", results[0].ID)
	assert.Nil(results[0].Tune)
}

func TestDecodeURLStampsTheRegisteredID(t *testing.T) {
	assert := assert.New(t)

	register := func(chartString string) (string, bool, error) {
		return "chart-1", true, nil
	}
	results, _, err := DecodeURL("irealbook://Good=C==Swing=C=n=|C F |G C", register)
	assert.NoError(err)
	assert.Len(results, 1)
	assert.Equal("chart-1", results[0].Tune.Metadata.ID)
}
