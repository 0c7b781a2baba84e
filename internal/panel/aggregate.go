package panel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Aggregate folds rows into per-region totals for the active metric.
// Rows with no usable region key are excluded; non-numeric weights
// count as zero; duplicate region keys sum. The fold is commutative,
// so row order never changes the result.
func Aggregate(rows []Row, roles ColumnRoleMap) RegionTotal {
	totals := make(RegionTotal)
	if roles.RegionKey == Unassigned || roles.WeightMeasure == Unassigned {
		return totals
	}

	for _, row := range rows {
		key := NormalizeRegionKey(cell(row, roles.RegionKey))
		if key == "" {
			continue
		}
		totals[key] += ToNumber(cell(row, roles.WeightMeasure))
	}

	return totals
}

// NormalizeRegionKey coerces a region key cell to its canonical string
// form. Numeric-coded keys (FIPS codes that arrive as numbers, or as
// strings with the leading zero stripped) are zero-padded to five
// digits. Missing or empty keys yield "".
func NormalizeRegionKey(v any) string {
	var key string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		key = strings.TrimSpace(t)
	case float64:
		key = strconv.FormatInt(int64(t), 10)
	case float32:
		key = strconv.FormatInt(int64(t), 10)
	case int:
		key = strconv.Itoa(t)
	case int32:
		key = strconv.FormatInt(int64(t), 10)
	case int64:
		key = strconv.FormatInt(t, 10)
	default:
		key = strings.TrimSpace(fmt.Sprint(t))
	}

	if key == "" {
		return ""
	}
	if _, err := strconv.Atoi(key); err == nil && len(key) < 5 {
		key = strings.Repeat("0", 5-len(key)) + key
	}
	return key
}

// ToNumber coerces a cell to a float64; anything non-numeric is 0.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func cell(row Row, i int) any {
	if i < 0 || i >= len(row) {
		return nil
	}
	return row[i]
}
