package commands

// RefreshDashboardCommand refetches every dashboard feed
type RefreshDashboardCommand struct{}

func (c RefreshDashboardCommand) Validate() error { return nil }

// GenerateReportCommand asks the analytics API for a fresh report and saves it
type GenerateReportCommand struct{}

func (c GenerateReportCommand) Validate() error { return nil }
