// Package formatter converts raw query results into a monospace table and a
// JSON-serializable record list.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sqlscribe/sqlscribe/pkg/models"
)

// EmptyResultTable is the sentinel rendering for an empty row set. Callers
// detect absence of data by matching this stable string.
const EmptyResultTable = "No data found."

// timeLayout renders date/time values.
const timeLayout = "2006-01-02 15:04:05"

const microsecondsPerDay = 24 * 60 * 60 * 1e6

// Format converts rows and column names of equal arity into the two
// renderings. Values are normalized once; the same normalized dataset feeds
// both the table and the records, so display coercion never leaks into the
// record values. An empty row set yields the sentinel table and an empty
// record sequence, never an error.
func Format(rows [][]any, columns []string) *models.FormattedResults {
	if len(rows) == 0 {
		return &models.FormattedResults{
			Table:   EmptyResultTable,
			Records: []map[string]any{},
		}
	}

	records := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			record[col] = Normalize(v)
		}
		records = append(records, record)
	}

	return &models.FormattedResults{
		Table:   renderTable(columns, records),
		Records: records,
	}
}

// Normalize converts driver-specific values into plain JSON-friendly ones:
// fixed-point decimals to float64, date/times to "YYYY-MM-DD HH:MM:SS",
// durations and intervals to fractional days, byte slices to strings.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case pgtype.Interval:
		return intervalDays(val)
	case time.Time:
		return val.Format(timeLayout)
	case time.Duration:
		return val.Hours() / 24
	case []byte:
		return string(val)
	case float32:
		return float64(val)
	case int:
		return val
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	default:
		return val
	}
}

// intervalDays converts an interval to fractional days, counting months as
// 30 days.
func intervalDays(iv pgtype.Interval) float64 {
	return float64(iv.Months)*30 + float64(iv.Days) +
		float64(iv.Microseconds)/microsecondsPerDay
}

// isIdentifierColumn applies the display heuristic: any column whose name
// contains "id" (case-insensitive) renders as an integer in the table.
func isIdentifierColumn(name string) bool {
	return strings.Contains(strings.ToLower(name), "id")
}

// displayValue formats a normalized value for the table rendering only.
// Non-identifier numeric columns render with two decimals; identifier
// columns render as integers.
func displayValue(col string, v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		if isIdentifierColumn(col) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', 2, 64)
	case int:
		if isIdentifierColumn(col) {
			return strconv.Itoa(val)
		}
		return strconv.FormatFloat(float64(val), 'f', 2, 64)
	case int64:
		if isIdentifierColumn(col) {
			return strconv.FormatInt(val, 10)
		}
		return strconv.FormatFloat(float64(val), 'f', 2, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// renderTable builds a psql-style monospace table with a header row.
func renderTable(columns []string, records []map[string]any) string {
	cells := make([][]string, 0, len(records))
	widths := make([]int, len(columns))

	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, record := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = displayValue(col, record[col])
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		cells = append(cells, row)
	}

	var b strings.Builder
	writeRule := func(left, mid, right string) {
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("-", w+2))
			if i < len(widths)-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		b.WriteString("\n")
	}
	writeRow := func(row []string) {
		b.WriteString("|")
		for i, cell := range row {
			b.WriteString(" ")
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeRule("+", "+", "+")
	writeRow(columns)
	writeRule("|", "+", "|")
	for _, row := range cells {
		writeRow(row)
	}
	writeRule("+", "+", "+")

	return strings.TrimRight(b.String(), "\n")
}
