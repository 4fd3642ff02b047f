package observation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDanielson(t *testing.T) {
	assert.Len(t, Danielson.Domains, 4)
	assert.Equal(t, 22, Danielson.IndicatorCount())

	d, ok := DomainOf("3c")
	assert.True(t, ok)
	assert.Equal(t, "d3", d)

	_, ok = DomainOf("5a")
	assert.False(t, ok)

	dom, ok := Danielson.Domain("d4")
	require.True(t, ok)
	assert.Len(t, dom.Indicators, 6)
}

func TestDomainScores(t *testing.T) {
	data := TemplateData{Indicators: map[string]IndicatorScore{
		"1a": {Score: 4},
		"1b": {Score: 2},
		"2a": {Score: 3},
		"2b": {Score: 0}, // not scored
	}}
	assert.Equal(t, map[string]float64{"d1": 75, "d2": 75}, DomainScores(data))
	assert.Empty(t, DomainScores(TemplateData{}))
}

func TestTemplateData_JSON(t *testing.T) {
	var td TemplateData
	err := json.Unmarshal([]byte(`{"1a": 3, "2a": {"score": 4, "note": "warm"}, "metadata": {"subject": "Math"}}`), &td)
	require.NoError(t, err)
	assert.Equal(t, IndicatorScore{Score: 3}, td.Indicators["1a"])
	assert.Equal(t, IndicatorScore{Score: 4, Note: "warm"}, td.Indicators["2a"])
	assert.Equal(t, "Math", td.Metadata.Subject)
	assert.Equal(t, []string{"1a", "2a"}, td.IndicatorIDs())
	assert.Equal(t, 3.5, td.AverageScore())

	data, err := json.Marshal(td)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1a": {"score": 3}, "2a": {"score": 4, "note": "warm"}, "metadata": {"subject": "Math"}}`, string(data))

	var scanned TemplateData
	require.NoError(t, scanned.Scan(data))
	assert.Equal(t, td, scanned)

	assert.Error(t, scanned.Scan(42))
	assert.Error(t, json.Unmarshal([]byte(`{"1a": "three"}`), &td))
}

func TestTemplateData_AverageScore(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{name: "empty", want: 0},
		{name: "ignores zero", scores: []float64{0, 4, 3}, want: 3.5},
		{name: "rounds", scores: []float64{4, 3, 3}, want: 3.3},
	}
	ids := []string{"1a", "1b", "1c"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			td := TemplateData{Indicators: map[string]IndicatorScore{}}
			for i, s := range tt.scores {
				td.Indicators[ids[i]] = IndicatorScore{Score: s}
			}
			if got := td.AverageScore(); got != tt.want {
				t.Errorf("AverageScore() = %v, want %v", got, tt.want)
			}
		})
	}
}
