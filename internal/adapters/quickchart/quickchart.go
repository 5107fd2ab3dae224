package quickchart

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	quickchartgo "github.com/henomis/quickchart-go"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
)

type ChartConfig struct {
	Type    string        `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}

type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}

type Dataset struct {
	Label       string        `json:"label"`
	Data        []interface{} `json:"data"`
	Fill        bool          `json:"fill"`
	LineTension float32       `json:"lineTension"`
}

type ChartOptions struct {
	Title ChartTitle `json:"title"`
}

type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// finiteRate returns the rate as a percentage, or false when it is missing or
// not a finite number.
func finiteRate(rate *float64) (float64, bool) {
	if rate == nil || math.IsInf(*rate, 0) || math.IsNaN(*rate) {
		return 0, false
	}
	return math.Round(*rate*10000) / 100, true
}

// FunnelConversionChart is a bar chart of each step's conversion from the
// previous step. Steps without a rate are left out.
func FunnelConversionChart(rows []domain.FunnelRow) ChartConfig {
	dataset := Dataset{Label: "Conversion %"}
	labels := []interface{}{}
	for _, r := range rows {
		pct, ok := finiteRate(r.ConversionRate)
		if !ok {
			continue
		}
		labels = append(labels, r.StepName)
		dataset.Data = append(dataset.Data, pct)
	}
	if dataset.Data == nil {
		dataset.Data = []interface{}{}
	}

	return ChartConfig{
		Type: "bar",
		Data: ChartData{Labels: labels, DataSets: []Dataset{dataset}},
		Options: &ChartOptions{
			Title: ChartTitle{Display: true, Text: "Conversion by step"},
		},
	}
}

// WeeklyConversionChart is a line chart with one series per step and one
// point per week bucket. Weeks where a step has no rate become gaps.
func WeeklyConversionChart(totals []domain.WeeklyStepTotal) ChartConfig {
	var weeks []domain.WeekKey
	seenWeek := map[domain.WeekKey]bool{}

	type series struct {
		name  string
		order int64
		rates map[domain.WeekKey]float64
	}
	steps := map[string]*series{}

	for _, t := range totals {
		if !seenWeek[t.WeekKey] {
			seenWeek[t.WeekKey] = true
			weeks = append(weeks, t.WeekKey)
		}
		s, ok := steps[t.StepID]
		if !ok {
			s = &series{name: t.StepName, order: t.OrderNumber, rates: map[domain.WeekKey]float64{}}
			steps[t.StepID] = s
		}
		if pct, ok := finiteRate(t.ConversionRate); ok {
			s.rates[t.WeekKey] = pct
		}
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Less(weeks[j]) })

	ordered := make([]*series, 0, len(steps))
	for _, s := range steps {
		if len(s.rates) > 0 {
			ordered = append(ordered, s)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	labels := make([]interface{}, len(weeks))
	for i, w := range weeks {
		labels[i] = w.Label()
	}

	datasets := make([]Dataset, 0, len(ordered))
	for _, s := range ordered {
		data := make([]interface{}, len(weeks))
		for i, w := range weeks {
			if pct, ok := s.rates[w]; ok {
				data[i] = pct
			}
		}
		datasets = append(datasets, Dataset{Label: s.name, Data: data, LineTension: 0.2})
	}

	return ChartConfig{
		Type: "line",
		Data: ChartData{Labels: labels, DataSets: datasets},
		Options: &ChartOptions{
			Title: ChartTitle{Display: true, Text: "Weekly conversion by step"},
		},
	}
}

// GetChartImageUrlForConfig renders config as a QuickChart image URL.
func GetChartImageUrlForConfig(config ChartConfig) (string, error) {
	b, err := json.Marshal(config)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chart config: %w", err)
	}
	qc := quickchartgo.New()
	qc.Config = string(b)
	u, err := qc.GetUrl()
	if err != nil {
		return "", fmt.Errorf("failed to get chart url from quickchart: %w", err)
	}
	return u, nil
}
