package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elchristog/marketing-funnels-gestor/internal/domain"
	"github.com/elchristog/marketing-funnels-gestor/internal/util"
)

// Format is a report serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported report format %q", s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename returns a download name for a report of the given view.
func (f Format) Filename(view string, r domain.DateRange) string {
	return fmt.Sprintf("%s_%s_%s.%s", view, r.StartString(), r.EndString(), f)
}

type funnelRecord struct {
	StepID         string   `json:"step_id"`
	Step           string   `json:"step"`
	OrderNumber    int64    `json:"order_number"`
	Realizations   int64    `json:"realizations"`
	ConversionRate *float64 `json:"conversion_rate"`
}

type weeklyRecord struct {
	Year                   int      `json:"year"`
	Month                  int      `json:"month"`
	WeekOfMonth            int      `json:"week_of_month"`
	Date                   string   `json:"date"`
	StepID                 string   `json:"step_id"`
	Step                   string   `json:"step"`
	OrderNumber            int64    `json:"order_number"`
	Realizations           int64    `json:"realizations"`
	ConversionRate         *float64 `json:"conversion_rate"`
	HypothesisNames        string   `json:"hypothesis_names"`
	HypothesisDescriptions string   `json:"hypothesis_descriptions"`
}

var (
	funnelHeader = []string{"step_id", "step", "order_number", "realizations", "conversion_rate"}
	weeklyHeader = []string{
		"year", "month", "week_of_month", "date", "step_id", "step", "order_number",
		"realizations", "conversion_rate", "hypothesis_names", "hypothesis_descriptions",
	}
)

func funnelRecords(rows []domain.FunnelRow) []funnelRecord {
	records := make([]funnelRecord, len(rows))
	for i, r := range rows {
		records[i] = funnelRecord{
			StepID:         r.StepID,
			Step:           r.StepName,
			OrderNumber:    r.OrderNumber,
			Realizations:   r.Realizations,
			ConversionRate: r.ConversionRate,
		}
	}
	return records
}

func weeklyRecords(rows []domain.WeeklyFunnelRow) []weeklyRecord {
	records := make([]weeklyRecord, len(rows))
	for i, r := range rows {
		records[i] = weeklyRecord{
			Year:                   r.Year,
			Month:                  r.Month,
			WeekOfMonth:            r.Week,
			Date:                   domain.FormatDate(r.Date),
			StepID:                 r.StepID,
			Step:                   r.StepName,
			OrderNumber:            r.OrderNumber,
			Realizations:           r.Realizations,
			ConversionRate:         r.ConversionRate,
			HypothesisNames:        r.HypothesisNames,
			HypothesisDescriptions: r.HypothesisDescriptions,
		}
	}
	return records
}

func (r funnelRecord) cells() []string {
	return []string{
		r.StepID, r.Step, strconv.FormatInt(r.OrderNumber, 10),
		strconv.FormatInt(r.Realizations, 10), util.FormatRateRaw(r.ConversionRate),
	}
}

func (r weeklyRecord) cells() []string {
	return []string{
		strconv.Itoa(r.Year), strconv.Itoa(r.Month), strconv.Itoa(r.WeekOfMonth), r.Date,
		r.StepID, r.Step, strconv.FormatInt(r.OrderNumber, 10),
		strconv.FormatInt(r.Realizations, 10), util.FormatRateRaw(r.ConversionRate),
		r.HypothesisNames, r.HypothesisDescriptions,
	}
}

// WriteFunnel serializes whole-period funnel rows.
func WriteFunnel(w io.Writer, format Format, rows []domain.FunnelRow) error {
	records := funnelRecords(rows)
	switch format {
	case FormatCSV:
		table := make([][]string, len(records))
		for i, r := range records {
			table[i] = r.cells()
		}
		return writeCSV(w, funnelHeader, table)
	case FormatXLSX:
		sheet := make([][]interface{}, len(records))
		for i, r := range records {
			sheet[i] = []interface{}{r.StepID, r.Step, r.OrderNumber, r.Realizations, rateCell(r.ConversionRate)}
		}
		return writeXLSX(w, "Funnel", funnelHeader, sheet)
	default:
		return writeJSON(w, records)
	}
}

// WriteWeekly serializes by-week funnel rows.
func WriteWeekly(w io.Writer, format Format, rows []domain.WeeklyFunnelRow) error {
	records := weeklyRecords(rows)
	switch format {
	case FormatCSV:
		table := make([][]string, len(records))
		for i, r := range records {
			table[i] = r.cells()
		}
		return writeCSV(w, weeklyHeader, table)
	case FormatXLSX:
		sheet := make([][]interface{}, len(records))
		for i, r := range records {
			sheet[i] = []interface{}{
				r.Year, r.Month, r.WeekOfMonth, r.Date, r.StepID, r.Step, r.OrderNumber,
				r.Realizations, rateCell(r.ConversionRate), r.HypothesisNames, r.HypothesisDescriptions,
			}
		}
		return writeXLSX(w, "Weekly", weeklyHeader, sheet)
	default:
		return writeJSON(w, records)
	}
}

func rateCell(rate *float64) interface{} {
	if rate == nil {
		return ""
	}
	return *rate
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
