package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "processflow/domain/analytics"
)

func sum(vs ...float64) float64 {
	var s float64
	for _, v := range vs {
		s += v
	}
	return s
}

func TestAdjustPercentages(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
	}{
		{"independently rounded thirds", []float64{33.4, 33.4, 33.4}},
		{"uneven excess", []float64{50.2, 30.1, 20.3}},
		{"one zero entry", []float64{60.5, 0, 40.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Greater(t, sum(tt.in...), 100.0)

			out := AdjustPercentages(tt.in)

			assert.InDelta(t, 100, sum(out...), 1e-9)
			rounded := make([]float64, len(out))
			for i, v := range out {
				rounded[i] = round1(v)
			}
			assert.InDelta(t, 100, sum(rounded...), 0.1+1e-9)
		})
	}

	t.Run("zero entries stay zero", func(t *testing.T) {
		out := AdjustPercentages([]float64{60.5, 0, 40.5})
		assert.Equal(t, 0.0, out[1])
	})

	t.Run("sums at or under 100 are untouched", func(t *testing.T) {
		in := []float64{20, 30, 40}
		assert.Equal(t, in, AdjustPercentages(in))
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := []float64{33.4, 33.4, 33.4}
		AdjustPercentages(in)
		assert.Equal(t, []float64{33.4, 33.4, 33.4}, in)
	})
}

func TestPercentages(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0}, Percentages(0, 0, 0))
	assert.Equal(t, []float64{50, 25, 25}, Percentages(2, 1, 1))
}

func TestTopImpactSlices(t *testing.T) {
	slices := TopImpactSlices(map[string]float64{
		"Fuel Temperature":                 0.3,
		"Air Temperature":                  0.5,
		"HEX-100 - Cold Fluid Temperature": 0.1,
		"Others":                           0.05,
		"Pump Speed":                       0.05,
	})

	require.Len(t, slices, 5)
	assert.Equal(t, Slice{Name: "Air Temperature", Value: 0.5, Fill: "#4f46e5"}, slices[0])
	assert.Equal(t, Slice{Name: "Fuel Temperature", Value: 0.3, Fill: "#f59e0b"}, slices[1])
	assert.Equal(t, "#10b981", slices[2].Fill)
	assert.Equal(t, "#6b7280", slices[3].Fill)
	assert.Equal(t, Slice{Name: "Pump Speed", Value: 0.05, Fill: "#6b7280"}, slices[4])
	assert.Empty(t, TopImpactSlices(nil))
}

func TestScenarioContributions(t *testing.T) {
	s := domain.Scenarios{
		Elements: map[string]domain.ScenarioElement{
			"10": {Setpoint: map[string]string{"Air.temperature": "300K"}},
			"2": {Setpoint: map[string]string{
				"Air.temperature":                "500K",
				"Fuel.temperature":               "300K",
				"HEX-100.cold_fluid_temperature": "200K",
			}},
			"0": {Condition: map[string]string{"Air.temperature": "1K"}},
			"1": {Setpoint: map[string]string{"Air.temperature": "warm", "Fuel.temperature": "100 K"}},
		},
	}

	bars := ScenarioContributions(s)

	require.Len(t, bars, 4)
	assert.Equal(t, []string{"S0", "S1", "S2", "S10"},
		[]string{bars[0].Scenario, bars[1].Scenario, bars[2].Scenario, bars[3].Scenario})
	assert.Equal(t, ScenarioBar{Scenario: "S0"}, bars[0])
	assert.Equal(t, ScenarioBar{Scenario: "S1", Fuel: 100}, bars[1])
	assert.Equal(t, ScenarioBar{Scenario: "S2", Air: 50, Fuel: 30, ColdFluid: 20}, bars[2])
	assert.Equal(t, ScenarioBar{Scenario: "S10", Air: 100}, bars[3])

	for _, b := range bars {
		total := b.Air + b.Fuel + b.ColdFluid
		if total > 0 {
			assert.InDelta(t, 100, total, 0.1)
		}
	}
}

func TestBestScenarioBreakdown(t *testing.T) {
	assert.Nil(t, BestScenarioBreakdown(domain.TopScenariosTemperatures{}))

	b := BestScenarioBreakdown(domain.TopScenariosTemperatures{TopScenarios: []domain.TopScenario{
		{
			Scenario: "scenario_12",
			KPIValue: 500.895,
			Temperatures: map[string]domain.Temperature{
				"Air.temperature":                {Value: 450},
				"Fuel.temperature":               {Value: 300},
				"HEX-100.cold_fluid_temperature": {Value: 250},
			},
		},
		{Scenario: "scenario_3", KPIValue: 400},
	}})

	require.NotNil(t, b)
	assert.Equal(t, "scenario_12", b.Scenario)
	assert.Equal(t, 500.895, b.KPIValue)
	require.Len(t, b.Slices, 3)
	assert.Equal(t, "45.0", b.Slices[0].Percentage)
	assert.Equal(t, "30.0", b.Slices[1].Percentage)
	assert.Equal(t, "25.0", b.Slices[2].Percentage)
	assert.Equal(t, "HEX-100 Temperature", b.Slices[2].Name)

	zero := BestScenarioBreakdown(domain.TopScenariosTemperatures{TopScenarios: []domain.TopScenario{{Scenario: "empty"}}})
	require.NotNil(t, zero)
	for _, s := range zero.Slices {
		assert.Equal(t, "0.0", s.Percentage)
	}
}

func TestHighlightedScenarios(t *testing.T) {
	assert.Nil(t, HighlightedScenarios(domain.Scenarios{}))

	h := HighlightedScenarios(domain.Scenarios{KPIValue: map[string]float64{
		"0": 500.895, "1": 410, "47": 328.601, "5": 328.601,
	}})

	require.NotNil(t, h)
	assert.Equal(t, Highlight{Scenario: "S0", KPIValue: 500.895}, h.Best)
	assert.Equal(t, Highlight{Scenario: "S5", KPIValue: 328.601}, h.Worst)
}
