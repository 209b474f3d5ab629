// Package dataset serves analytics payloads derived from a simulation
// results file, so the service can stand in for the analytics API.
package dataset

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	domain "processflow/domain/analytics"
	pkgerrors "processflow/pkg/errors"
)

//go:embed schema.json
var schemaJSON []byte

var schemaLoader = gojsonschema.NewBytesLoader(schemaJSON)

// TopScenarioCount is how many scenarios /top-scenarios-temperatures returns
const TopScenarioCount = 5

const (
	variableTypeCondition = "Condition"
	heatTransferMarker    = "heat_transfer_coefficient"
	unitKelvin            = "K"
	unitHeatTransfer      = "W/m²·K"
)

// impactLabels renames top-impact keys for display. Keys not listed are dropped.
var impactLabels = []struct{ key, label string }{
	{domain.KeyHEX100ColdFluid, "HEX-100 - Cold Fluid Temperature"},
	{domain.KeyFuelTemperature, "Fuel Temperature"},
	{domain.KeyAirTemperature, "Air Temperature"},
	{domain.KeyOthers, "Others"},
}

// Variable is one simulated equipment variable
type Variable struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Equipment groups the variables of one piece of equipment
type Equipment struct {
	Equipment string     `json:"equipment"`
	Variables []Variable `json:"variables"`
}

// Scenario is one simulation run
type Scenario struct {
	Scenario               string      `json:"scenario"`
	EquipmentSpecification []Equipment `json:"equipment_specification"`
	KPI                    string      `json:"kpi"`
	KPIValue               float64     `json:"kpi_value"`
}

// TopVariable is one row of the most influential variables
type TopVariable struct {
	Equipment string  `json:"equipment"`
	Type      string  `json:"type"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// ProcessData is the body of a results file
type ProcessData struct {
	MainSummaryText        string                  `json:"main_summary_text"`
	TopSummaryText         string                  `json:"top_summary_text"`
	TopImpact              map[string]float64      `json:"top_impact"`
	TopVariables           []TopVariable           `json:"top_variables"`
	ImpactSummaryText      string                  `json:"impact_summary_text"`
	SetpointImpactSummary  []domain.SetpointImpact `json:"setpoint_impact_summary"`
	ConditionImpactSummary []json.RawMessage       `json:"condition_impact_summary"`
	SimulatedSummary       struct {
		SimulatedData []Scenario `json:"simulated_data"`
	} `json:"simulated_summary"`
}

// Document is a whole results file
type Document struct {
	Data ProcessData `json:"data"`
}

// Dataset is a validated results file. It is immutable once loaded.
type Dataset struct {
	doc Document
}

// Load reads and validates a results file
func Load(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.NewUnavailableError("dataset").WithCause(err)
	}
	return Parse(raw)
}

// Parse validates raw against the results schema and decodes it
func Parse(raw []byte) (*Dataset, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, pkgerrors.NewValidationError("dataset is not valid JSON").WithCause(err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, pkgerrors.NewValidationError("dataset does not match schema").
			WithDetails(map[string]interface{}{"errors": problems})
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, pkgerrors.NewValidationError("failed to decode dataset").WithCause(err)
	}
	return &Dataset{doc: doc}, nil
}

// ProcessData returns the whole file body
func (d *Dataset) ProcessData() Document { return d.doc }

// ScenarioCount is the number of simulated scenarios
func (d *Dataset) ScenarioCount() int { return len(d.doc.Data.SimulatedSummary.SimulatedData) }

// Summaries returns the three summary texts
func (d *Dataset) Summaries() (main, top, impact string) {
	return d.doc.Data.MainSummaryText, d.doc.Data.TopSummaryText, d.doc.Data.ImpactSummaryText
}

// TopVariables returns the most influential variables
func (d *Dataset) TopVariables() []TopVariable {
	return append([]TopVariable(nil), d.doc.Data.TopVariables...)
}

// TopImpact returns the impact summary with display labels
func (d *Dataset) TopImpact() domain.TopImpact {
	out := domain.TopImpact{TopSummaryText: d.doc.Data.TopSummaryText, TopImpact: map[string]float64{}}
	for _, m := range impactLabels {
		if v, ok := d.doc.Data.TopImpact[m.key]; ok {
			out.TopImpact[m.label] = v
		}
	}
	return out
}

// Scenarios returns every scenario keyed by its position in the file
func (d *Dataset) Scenarios() domain.Scenarios {
	out := domain.Scenarios{
		Scenario: map[string]string{},
		KPIValue: map[string]float64{},
		Elements: map[string]domain.ScenarioElement{},
	}
	for i, s := range d.doc.Data.SimulatedSummary.SimulatedData {
		idx := strconv.Itoa(i)
		out.Scenario[idx] = s.Scenario
		out.KPIValue[idx] = s.KPIValue
		el := domain.ScenarioElement{Condition: map[string]string{}, Setpoint: map[string]string{}}
		for _, eq := range s.EquipmentSpecification {
			for _, v := range eq.Variables {
				name := variableKey(eq.Equipment, v.Name)
				if v.Type == variableTypeCondition {
					el.Condition[name] = formatValue(v)
				} else {
					el.Setpoint[name] = formatValue(v)
				}
			}
		}
		out.Elements[idx] = el
	}
	return out
}

// TopScenariosTemperatures returns the temperature readings of the n best
// scenarios by KPI, best first
func (d *Dataset) TopScenariosTemperatures(n int) domain.TopScenariosTemperatures {
	out := domain.TopScenariosTemperatures{TopScenarios: []domain.TopScenario{}}
	for _, s := range d.TopScenarios(n) {
		ts := domain.TopScenario{
			Scenario:     s.Scenario,
			KPIValue:     s.KPIValue,
			Temperatures: map[string]domain.Temperature{},
		}
		for _, eq := range s.EquipmentSpecification {
			for _, v := range eq.Variables {
				lower := strings.ToLower(v.Name)
				if !strings.Contains(lower, "temperature") || strings.Contains(lower, heatTransferMarker) {
					continue
				}
				ts.Temperatures[variableKey(eq.Equipment, v.Name)] = domain.Temperature{
					Value:     v.Value,
					Formatted: decimalString(v.Value) + unitKelvin,
				}
			}
		}
		out.TopScenarios = append(out.TopScenarios, ts)
	}
	return out
}

// TopScenarios returns the n best scenarios by KPI. Ties keep file order.
func (d *Dataset) TopScenarios(n int) []Scenario {
	sorted := append([]Scenario(nil), d.doc.Data.SimulatedSummary.SimulatedData...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].KPIValue > sorted[j].KPIValue })
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// SetpointImpacts returns the setpoint weightage table as stored
func (d *Dataset) SetpointImpacts() []domain.SetpointImpact {
	return append([]domain.SetpointImpact{}, d.doc.Data.SetpointImpactSummary...)
}

// KPIStats summarises the KPI values of every scenario
type KPIStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Median float64 `json:"median"`
	Range  float64 `json:"range"`
}

// KPIStats computes the KPI statistics. Std is the sample standard
// deviation and is 0 for fewer than two scenarios.
func (d *Dataset) KPIStats() KPIStats {
	values := make([]float64, 0, d.ScenarioCount())
	for _, s := range d.doc.Data.SimulatedSummary.SimulatedData {
		values = append(values, s.KPIValue)
	}
	stats := KPIStats{Count: len(values)}
	if len(values) == 0 {
		return stats
	}
	sort.Float64s(values)

	var sum float64
	for _, v := range values {
		sum += v
	}
	stats.Min, stats.Max = values[0], values[len(values)-1]
	stats.Range = stats.Max - stats.Min
	stats.Mean = sum / float64(len(values))

	mid := len(values) / 2
	if len(values)%2 == 0 {
		stats.Median = (values[mid-1] + values[mid]) / 2
	} else {
		stats.Median = values[mid]
	}

	if len(values) > 1 {
		var sq float64
		for _, v := range values {
			sq += (v - stats.Mean) * (v - stats.Mean)
		}
		stats.Std = math.Sqrt(sq / float64(len(values)-1))
	}
	return stats
}

func variableKey(equipment, name string) string {
	key := equipment + "." + name
	if key == "Fuel.Fuel - temperature" {
		return domain.KeyFuelTemperature
	}
	return key
}

func formatValue(v Variable) string {
	if strings.Contains(v.Name, heatTransferMarker) {
		return decimalString(v.Value) + " " + unitHeatTransfer
	}
	return decimalString(v.Value) + unitKelvin
}

// decimalString renders whole numbers with a trailing .0 ("450.0"), matching the
// values the analytics API has always produced
func decimalString(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !math.IsInf(v, 0) && !math.IsNaN(v) {
		s += ".0"
	}
	return s
}

// String describes the dataset for logs
func (d *Dataset) String() string {
	return fmt.Sprintf("dataset(%d scenarios, %d impacts)", d.ScenarioCount(), len(d.doc.Data.TopImpact))
}
