package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/chartdex/model"
)

func TestSplitChartsRejectsNonIrealUrl(t *testing.T) {
	assert := assert.New(t)

	_, _, err := SplitCharts("https://example.com/not-a-chart")
	var fe *model.FormatError
	assert.ErrorAs(err, &fe)
}

func TestSplitChartsSeparatesChartsAndPlaylist(t *testing.T) {
	assert := assert.New(t)

	raw := "irealb://A=B==Swing=C=n=|C |===D=E==Latin=F=n=|F |===My Playlist"
	charts, playlist, err := SplitCharts(raw)
	assert.NoError(err)
	assert.Equal([]string{"A=B==Swing=C=n=|C |", "D=E==Latin=F=n=|F |"}, charts)
	assert.Equal("My Playlist", playlist)
}

func TestSplitChartsWithoutPlaylist(t *testing.T) {
	assert := assert.New(t)

	charts, playlist, err := SplitCharts("irealbook://A=B==Swing=C=n=|C |")
	assert.NoError(err)
	assert.Len(charts, 1)
	assert.Equal("", playlist)
}

func TestSplitChartsPercentDecodes(t *testing.T) {
	assert := assert.New(t)

	charts, _, err := SplitCharts("irealbook://Blue%20Test=B==Swing=C=n=|C |")
	assert.NoError(err)
	assert.Len(charts, 1)
	assert.True(strings.HasPrefix(charts[0], "Blue Test="))
}

func TestParseReadsHeaderFields(t *testing.T) {
	assert := assert.New(t)

	raw, err := Parse("Blue Test=Doe John==Medium Swing=Bb=n=T44|C F |G C Z==Swing=140=3")
	assert.NoError(err)
	assert.Equal("Blue Test", raw.Title)
	assert.Equal("Doe John", raw.Composer)
	assert.Equal("Medium Swing", raw.Style)
	assert.Equal("Bb", raw.Key)
	assert.Equal("T44|C F |G C Z", raw.Music)
	assert.Equal(140, raw.BPM)
	assert.Equal(model.TimeSignature{Numerator: 4, Denominator: 4}, raw.TimeSignature)
}

func TestParseRejectsShortHeaders(t *testing.T) {
	assert := assert.New(t)

	var fe *model.FormatError
	_, err := Parse("only=five=fields=in=here")
	assert.ErrorAs(err, &fe)

	_, err = Parse("   ")
	assert.ErrorAs(err, &fe)
}

func TestParseTimeSignatures(t *testing.T) {
	assert := assert.New(t)

	for music, expected := range map[string]model.TimeSignature{
		"T64|C |": {Numerator: 6, Denominator: 4},
		"T34|C |": {Numerator: 3, Denominator: 4},
		"T12|C |": {Numerator: 12, Denominator: 8},
		"|C |G |": {Numerator: 4, Denominator: 4},
	} {
		raw, err := Parse("T=C==Swing=C=n=" + music)
		assert.NoError(err)
		assert.Equal(expected, raw.TimeSignature, "music %q", music)
	}
}

func TestUnscrambleLeavesShortStringsAlone(t *testing.T) {
	assert := assert.New(t)

	short := strings.Repeat("a", 51)
	assert.Equal(short, Unscramble(short))
}

func TestUnscrambleIsAnInvolution(t *testing.T) {
	assert := assert.New(t)

	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteByte(byte('A' + i%26))
	}
	s := b.String()
	assert.NotEqual(s, Unscramble(s))
	assert.Equal(s, Unscramble(Unscramble(s)))
}

func TestParseUnscramblesPrefixedMusic(t *testing.T) {
	assert := assert.New(t)

	plain := "T44|C F |G7 C |A- D7 |G C |C F |G7 C |A- D7 |G C Z  "
	scrambled := scramblePrefix + Unscramble(plain)
	raw, err := Parse("T=C==Swing=C=n=" + scrambled)
	assert.NoError(err)
	assert.Equal(plain, raw.Music)
}
