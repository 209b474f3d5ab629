// Package analytics holds the shapes exchanged with the process analytics API.
package analytics

// Variable keys as they appear in scenario setpoints and temperatures
const (
	KeyAirTemperature  = "Air.temperature"
	KeyFuelTemperature = "Fuel.temperature"
	KeyHEX100ColdFluid = "HEX-100.cold_fluid_temperature"
	KeyOthers          = "Others"
)

// TopImpact is the /top-impact payload
type TopImpact struct {
	TopSummaryText string             `json:"top_summary_text"`
	TopImpact      map[string]float64 `json:"top_impact"`
}

// ScenarioElement holds the formatted variable values of one scenario,
// e.g. {"Air.temperature": "450K"}
type ScenarioElement struct {
	Condition map[string]string `json:"Condition,omitempty"`
	Setpoint  map[string]string `json:"Setpoint,omitempty"`
}

// Scenarios is the /scenarios payload. All maps are keyed by the scenario
// index as a decimal string.
type Scenarios struct {
	Scenario map[string]string          `json:"scenario,omitempty"`
	KPIValue map[string]float64         `json:"kpi_value,omitempty"`
	Elements map[string]ScenarioElement `json:"elements"`
}

// Temperature is one temperature reading of a top scenario
type Temperature struct {
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted,omitempty"`
}

// TopScenario is one of the best scenarios by KPI
type TopScenario struct {
	Scenario     string                 `json:"scenario"`
	KPIValue     float64                `json:"kpi_value"`
	Temperatures map[string]Temperature `json:"temperatures"`
}

// TopScenariosTemperatures is the /top-scenarios-temperatures payload,
// best scenario first
type TopScenariosTemperatures struct {
	TopScenarios []TopScenario `json:"top_scenarios"`
}

// SetpointImpact is one row of the /setpoint-impacts payload
type SetpointImpact struct {
	Equipment string  `json:"equipment"`
	Setpoint  string  `json:"setpoint"`
	Weightage float64 `json:"weightage"`
	Unit      string  `json:"unit"`
}
