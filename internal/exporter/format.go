package exporter

import (
	"fmt"
	"strconv"

	"github.com/volatiletech/null/v8"
)

// formatFloat uses the shortest representation, so 8.5 stays "8.5".
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatNullFloat keeps four significant digits and leaves missing values
// blank.
func formatNullFloat(v null.Float64) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%.4g", v.Float64)
}

// formatNullDate leaves missing dates blank.
func formatNullDate(v null.Time) string {
	if !v.Valid {
		return ""
	}
	return v.Time.Format("2006-01-02")
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}
