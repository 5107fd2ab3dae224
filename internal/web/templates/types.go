package templates

// DashboardPage is everything the dashboard renders for one date range.
type DashboardPage struct {
	From  string
	To    string
	Flash string

	Steps         []Step
	Funnel        []FunnelRow
	Weekly        []WeeklyRow
	Registrations []Registration
	Hypotheses    []Hypothesis

	TotalRealizations string
	FunnelChartURL    string
	WeeklyChartURL    string
	Today             string
}

type Step struct {
	ID          string
	Name        string
	OrderNumber int64
}

type FunnelRow struct {
	StepName     string
	OrderNumber  int64
	Realizations string
	Rate         string
}

type WeeklyRow struct {
	Week                   string
	Date                   string
	StepName               string
	Realizations           string
	Rate                   string
	HypothesisNames        string
	HypothesisDescriptions string
}

type Registration struct {
	Date         string
	StepName     string
	Realizations string
	Description  string
}

type Hypothesis struct {
	Date        string
	Name        string
	Description string
}
