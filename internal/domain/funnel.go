package domain

import (
	"sort"
	"strings"
	"time"
)

// FunnelRow is one step's total over a date range.
// ConversionRate is nil for the first step and whenever the previous step
// has zero realizations.
type FunnelRow struct {
	StepID         string
	StepName       string
	OrderNumber    int64
	Realizations   int64
	ConversionRate *float64
}

// DailyStepTotal is the summed realizations of one step on one date.
type DailyStepTotal struct {
	Date         time.Time
	StepID       string
	StepName     string
	OrderNumber  int64
	Realizations int64
}

// WeeklyFunnelRow is a DailyStepTotal placed in its week-of-month bucket,
// carrying the conversion rate against the previous row of the same bucket
// and the hypotheses recorded during that bucket.
type WeeklyFunnelRow struct {
	WeekKey
	Date                   time.Time
	StepID                 string
	StepName               string
	OrderNumber            int64
	Realizations           int64
	ConversionRate         *float64
	HypothesisNames        string
	HypothesisDescriptions string
}

// WeeklyStepTotal is the rollup of one step over a whole week bucket.
type WeeklyStepTotal struct {
	WeekKey
	StepID         string
	StepName       string
	OrderNumber    int64
	Realizations   int64
	ConversionRate *float64
}

// HypothesisSummary is the concatenated hypothesis text of one week bucket.
type HypothesisSummary struct {
	Names        string
	Descriptions string
}

// ConversionRate returns current/previous, or nil when previous is zero.
func ConversionRate(previous, current int64) *float64 {
	if previous == 0 {
		return nil
	}
	rate := float64(current) / float64(previous)
	return &rate
}

// ComputeFunnel fills ConversionRate on rows that are already ordered by
// OrderNumber.
func ComputeFunnel(rows []FunnelRow) []FunnelRow {
	for i := range rows {
		rows[i].ConversionRate = nil
		if i > 0 {
			rows[i].ConversionRate = ConversionRate(rows[i-1].Realizations, rows[i].Realizations)
		}
	}
	return rows
}

// SummarizeHypotheses buckets hypotheses by week and joins their names and
// non-empty descriptions with ", ", preserving input order.
func SummarizeHypotheses(hypotheses []Hypothesis) map[WeekKey]HypothesisSummary {
	names := make(map[WeekKey][]string)
	descriptions := make(map[WeekKey][]string)
	for _, h := range hypotheses {
		key := WeekKeyFor(h.Date)
		names[key] = append(names[key], h.Name)
		if h.Description != nil && strings.TrimSpace(*h.Description) != "" {
			descriptions[key] = append(descriptions[key], *h.Description)
		}
	}

	summaries := make(map[WeekKey]HypothesisSummary, len(names))
	for key, n := range names {
		summaries[key] = HypothesisSummary{
			Names:        strings.Join(n, ", "),
			Descriptions: strings.Join(descriptions[key], ", "),
		}
	}
	return summaries
}

// BuildWeeklyFunnel buckets daily totals by week of month, orders them by
// (year, month, week, order number, date), computes the conversion rate
// against the previous row of the same bucket and merges in the bucket's
// hypothesis text. Buckets without hypotheses keep empty text.
func BuildWeeklyFunnel(totals []DailyStepTotal, hypotheses []Hypothesis) []WeeklyFunnelRow {
	rows := make([]WeeklyFunnelRow, len(totals))
	for i, t := range totals {
		rows[i] = WeeklyFunnelRow{
			WeekKey:      WeekKeyFor(t.Date),
			Date:         t.Date,
			StepID:       t.StepID,
			StepName:     t.StepName,
			OrderNumber:  t.OrderNumber,
			Realizations: t.Realizations,
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.WeekKey != b.WeekKey {
			return a.WeekKey.Less(b.WeekKey)
		}
		if a.OrderNumber != b.OrderNumber {
			return a.OrderNumber < b.OrderNumber
		}
		return a.Date.Before(b.Date)
	})

	summaries := SummarizeHypotheses(hypotheses)
	for i := range rows {
		if i > 0 && rows[i-1].WeekKey == rows[i].WeekKey {
			rows[i].ConversionRate = ConversionRate(rows[i-1].Realizations, rows[i].Realizations)
		}
		if s, ok := summaries[rows[i].WeekKey]; ok {
			rows[i].HypothesisNames = s.Names
			rows[i].HypothesisDescriptions = s.Descriptions
		}
	}
	return rows
}

// RollupWeekly sums weekly rows per (bucket, step). Rates follow the same
// rule as BuildWeeklyFunnel, applied to the step totals of each bucket.
func RollupWeekly(rows []WeeklyFunnelRow) []WeeklyStepTotal {
	type rollupKey struct {
		week   WeekKey
		stepID string
	}

	index := make(map[rollupKey]int)
	var totals []WeeklyStepTotal
	for _, r := range rows {
		k := rollupKey{week: r.WeekKey, stepID: r.StepID}
		if i, ok := index[k]; ok {
			totals[i].Realizations += r.Realizations
			continue
		}
		index[k] = len(totals)
		totals = append(totals, WeeklyStepTotal{
			WeekKey:      r.WeekKey,
			StepID:       r.StepID,
			StepName:     r.StepName,
			OrderNumber:  r.OrderNumber,
			Realizations: r.Realizations,
		})
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].WeekKey != totals[j].WeekKey {
			return totals[i].WeekKey.Less(totals[j].WeekKey)
		}
		return totals[i].OrderNumber < totals[j].OrderNumber
	})

	for i := range totals {
		if i > 0 && totals[i-1].WeekKey == totals[i].WeekKey {
			totals[i].ConversionRate = ConversionRate(totals[i-1].Realizations, totals[i].Realizations)
		}
	}
	return totals
}

// TotalRealizations sums realizations across funnel rows.
func TotalRealizations(rows []FunnelRow) int64 {
	var total int64
	for _, r := range rows {
		total += r.Realizations
	}
	return total
}
