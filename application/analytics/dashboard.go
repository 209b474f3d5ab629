package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"processflow/application/ports"
	domain "processflow/domain/analytics"
)

// Dashboard holds the chart feeds and the setpoint table feed
type Dashboard struct {
	topImpact    *Feed[domain.TopImpact]
	scenarios    *Feed[domain.Scenarios]
	temperatures *Feed[domain.TopScenariosTemperatures]
	setpoints    *Feed[[]domain.SetpointImpact]
	logger       *zap.Logger
}

// NewDashboard creates a dashboard reading from src
func NewDashboard(src ports.AnalyticsSource, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		topImpact:    NewFeed("top-impact", src.TopImpact, logger),
		scenarios:    NewFeed("scenarios", src.Scenarios, logger),
		temperatures: NewFeed("top-scenarios-temperatures", src.TopScenariosTemperatures, logger),
		setpoints:    NewFeed("setpoint-impacts", src.SetpointImpacts, logger),
		logger:       logger,
	}
}

// RefreshError lists the feeds that failed to refresh
type RefreshError struct {
	Failed map[string]error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("%d analytics feed(s) failed to refresh", len(e.Failed))
}

// Unwrap exposes the individual feed errors
func (e *RefreshError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for _, err := range e.Failed {
		out = append(out, err)
	}
	return out
}

// Refresh reloads every feed concurrently. A failing feed keeps its previous
// data and does not stop the others; failures are returned as a RefreshError.
func (d *Dashboard) Refresh(ctx context.Context) error {
	start := time.Now()
	var g errgroup.Group
	errs := make([]error, 4)
	g.Go(func() error { errs[0] = d.topImpact.Refresh(ctx); return nil })
	g.Go(func() error { errs[1] = d.scenarios.Refresh(ctx); return nil })
	g.Go(func() error { errs[2] = d.temperatures.Refresh(ctx); return nil })
	g.Go(func() error { errs[3] = d.setpoints.Refresh(ctx); return nil })
	_ = g.Wait()

	names := []string{d.topImpact.Name(), d.scenarios.Name(), d.temperatures.Name(), d.setpoints.Name()}
	failed := make(map[string]error)
	for i, err := range errs {
		if err != nil {
			failed[names[i]] = err
		}
	}

	d.logger.Debug("Dashboard refreshed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("failed", len(failed)))
	if len(failed) > 0 {
		return &RefreshError{Failed: failed}
	}
	return nil
}

// TopImpactChart is the pie chart of variable impact
type TopImpactChart struct {
	Summary string  `json:"summary"`
	Slices  []Slice `json:"slices"`
	Loading bool    `json:"loading"`
	Loaded  bool    `json:"loaded"`
	Error   string  `json:"error,omitempty"`
}

// ScenariosChart is the stacked bar chart of setpoint contributions
type ScenariosChart struct {
	Bars       []ScenarioBar `json:"bars"`
	Highlights *Highlights   `json:"highlights,omitempty"`
	Loading    bool          `json:"loading"`
	Loaded     bool          `json:"loaded"`
	Error      string        `json:"error,omitempty"`
}

// BestScenarioChart is the breakdown of the best scenario
type BestScenarioChart struct {
	Breakdown *Breakdown `json:"breakdown,omitempty"`
	Loading   bool       `json:"loading"`
	Loaded    bool       `json:"loaded"`
	Error     string     `json:"error,omitempty"`
}

// SetpointsTable lists setpoint weightages, heaviest first
type SetpointsTable struct {
	Rows    []domain.SetpointImpact `json:"rows"`
	Loading bool                    `json:"loading"`
	Loaded  bool                    `json:"loaded"`
	Error   string                  `json:"error,omitempty"`
}

// View is every chart on the dashboard
type View struct {
	TopImpact    TopImpactChart    `json:"top_impact"`
	Scenarios    ScenariosChart    `json:"scenarios"`
	BestScenario BestScenarioChart `json:"best_scenario"`
	Setpoints    SetpointsTable    `json:"setpoints"`
}

// View derives the chart payloads from the current feed data
func (d *Dashboard) View() View {
	impact := d.topImpact.State()
	scenarios := d.scenarios.State()
	temps := d.temperatures.State()
	setpoints := d.setpoints.State()

	return View{
		TopImpact: TopImpactChart{
			Summary: impact.Data.TopSummaryText,
			Slices:  TopImpactSlices(impact.Data.TopImpact),
			Loading: impact.Loading,
			Loaded:  impact.Loaded,
			Error:   impact.Error,
		},
		Scenarios: ScenariosChart{
			Bars:       ScenarioContributions(scenarios.Data),
			Highlights: HighlightedScenarios(scenarios.Data),
			Loading:    scenarios.Loading,
			Loaded:     scenarios.Loaded,
			Error:      scenarios.Error,
		},
		BestScenario: BestScenarioChart{
			Breakdown: BestScenarioBreakdown(temps.Data),
			Loading:   temps.Loading,
			Loaded:    temps.Loaded,
			Error:     temps.Error,
		},
		Setpoints: SetpointsTable{
			Rows:    byWeightage(setpoints.Data),
			Loading: setpoints.Loading,
			Loaded:  setpoints.Loaded,
			Error:   setpoints.Error,
		},
	}
}

func byWeightage(rows []domain.SetpointImpact) []domain.SetpointImpact {
	out := append([]domain.SetpointImpact{}, rows...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weightage > out[j].Weightage })
	return out
}

// IsRefreshError reports whether err came from a partial dashboard refresh
func IsRefreshError(err error) bool {
	var re *RefreshError
	return errors.As(err, &re)
}
