// Package analytics turns analytics API payloads into dashboard chart data.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	domain "processflow/domain/analytics"
)

// Slice colours of the impact and breakdown charts
const (
	ColorAir    = "#4f46e5"
	ColorFuel   = "#f59e0b"
	ColorHEX100 = "#10b981"
	ColorOthers = "#6b7280"
)

var impactColors = map[string]string{
	"Air Temperature":                  ColorAir,
	"Fuel Temperature":                 ColorFuel,
	"HEX-100 - Cold Fluid Temperature": ColorHEX100,
	"Others":                           ColorOthers,
}

// Slice is one wedge of a pie chart
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Fill  string  `json:"fill"`
}

// TopImpactSlices maps the top-impact entries to pie slices, sorted by name
func TopImpactSlices(impact map[string]float64) []Slice {
	out := make([]Slice, 0, len(impact))
	for name, value := range impact {
		fill, ok := impactColors[name]
		if !ok {
			fill = ColorOthers
		}
		out = append(out, Slice{Name: name, Value: value, Fill: fill})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ScenarioBar is the percentage split of the three setpoint temperatures
// of one scenario
type ScenarioBar struct {
	Scenario  string  `json:"scenario"`
	Air       float64 `json:"air"`
	Fuel      float64 `json:"fuel"`
	ColdFluid float64 `json:"coldFluid"`
}

// ScenarioContributions builds one bar per scenario, in index order
func ScenarioContributions(s domain.Scenarios) []ScenarioBar {
	indices := sortedIndices(s.Elements)
	out := make([]ScenarioBar, 0, len(indices))
	for _, idx := range indices {
		setpoint := s.Elements[idx].Setpoint
		air := parseKelvin(setpoint[domain.KeyAirTemperature])
		fuel := parseKelvin(setpoint[domain.KeyFuelTemperature])
		cold := parseKelvin(setpoint[domain.KeyHEX100ColdFluid])

		pct := AdjustPercentages(Percentages(air, fuel, cold))
		out = append(out, ScenarioBar{
			Scenario:  "S" + idx,
			Air:       round1(pct[0]),
			Fuel:      round1(pct[1]),
			ColdFluid: round1(pct[2]),
		})
	}
	return out
}

// Percentages converts values to their share of the total. A zero total
// yields all zeros.
func Percentages(values ...float64) []float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	out := make([]float64, len(values))
	if total <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = v / total * 100
	}
	return out
}

// AdjustPercentages spreads any excess over 100 evenly across the non-zero
// entries. The input is not modified.
func AdjustPercentages(p []float64) []float64 {
	out := append([]float64(nil), p...)
	var sum float64
	nonZero := 0
	for _, v := range out {
		sum += v
		if v > 0 {
			nonZero++
		}
	}
	if sum <= 100 || nonZero == 0 {
		return out
	}
	adjustment := (sum - 100) / float64(nonZero)
	for i, v := range out {
		if v > 0 {
			out[i] = v - adjustment
		}
	}
	return out
}

// Breakdown is the temperature split of the best scenario
type Breakdown struct {
	Scenario string           `json:"scenario"`
	KPIValue float64          `json:"kpi_value"`
	Slices   []BreakdownSlice `json:"slices"`
}

// BreakdownSlice is one temperature of the best scenario with its share
type BreakdownSlice struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage string  `json:"percentage"`
	Fill       string  `json:"fill"`
}

// BestScenarioBreakdown splits the first top scenario into its Air, Fuel and
// HEX-100 temperatures. It returns nil when there is no scenario.
func BestScenarioBreakdown(t domain.TopScenariosTemperatures) *Breakdown {
	if len(t.TopScenarios) == 0 {
		return nil
	}
	top := t.TopScenarios[0]
	air := top.Temperatures[domain.KeyAirTemperature].Value
	fuel := top.Temperatures[domain.KeyFuelTemperature].Value
	hex := top.Temperatures[domain.KeyHEX100ColdFluid].Value
	pct := Percentages(air, fuel, hex)

	return &Breakdown{
		Scenario: top.Scenario,
		KPIValue: top.KPIValue,
		Slices: []BreakdownSlice{
			{Name: "Air Temperature", Value: air, Percentage: formatPercent(pct[0]), Fill: ColorAir},
			{Name: "Fuel Temperature", Value: fuel, Percentage: formatPercent(pct[1]), Fill: ColorFuel},
			{Name: "HEX-100 Temperature", Value: hex, Percentage: formatPercent(pct[2]), Fill: ColorHEX100},
		},
	}
}

// Highlight is a scenario called out on the bar chart
type Highlight struct {
	Scenario string  `json:"scenario"`
	KPIValue float64 `json:"kpi_value"`
}

// Highlights are the best and worst scenarios by KPI
type Highlights struct {
	Best  Highlight `json:"best"`
	Worst Highlight `json:"worst"`
}

// HighlightedScenarios finds the best and worst scenarios by KPI. Ties go to
// the lower index. It returns nil when no KPI values are known.
func HighlightedScenarios(s domain.Scenarios) *Highlights {
	indices := sortedIndices(s.KPIValue)
	if len(indices) == 0 {
		return nil
	}
	first := Highlight{Scenario: "S" + indices[0], KPIValue: s.KPIValue[indices[0]]}
	h := &Highlights{Best: first, Worst: first}
	for _, idx := range indices[1:] {
		kpi := s.KPIValue[idx]
		if kpi > h.Best.KPIValue {
			h.Best = Highlight{Scenario: "S" + idx, KPIValue: kpi}
		}
		if kpi < h.Worst.KPIValue {
			h.Worst = Highlight{Scenario: "S" + idx, KPIValue: kpi}
		}
	}
	return h
}

// sortedIndices orders scenario indices numerically, non-numeric keys last
func sortedIndices[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// parseKelvin reads values like "450K" or "450.5 K". Missing or unparsable
// values are 0.
func parseKelvin(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "K"))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
