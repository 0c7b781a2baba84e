package panel

import "strings"

// AlwaysFalsePredicate is emitted when no selection survives the
// allow-list, so the remote layer shows nothing rather than everything.
const AlwaysFalsePredicate = "1=0"

// InterstateRoutes is the allow-list of route tokens the remote feature
// service may be filtered by. It is the only defense against injection
// into the remote query string: no candidate reaches the predicate
// without exact membership here.
var InterstateRoutes = []string{"I-26", "I-40", "I-77", "I-85", "I-95"}

// NormalizeCategory trims a candidate and collapses internal runs of
// whitespace to a single space. Letter case is never changed: matching
// against the allow-list is case-sensitive, so " i-40 " does not match
// an allow-listed "I-40".
func NormalizeCategory(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CompilePredicate turns an untrusted category selection into a single
// boolean predicate safe to send to the feature service. Each candidate
// is normalized and kept only on exact, case-sensitive membership in
// the allow-list; survivors join into a "column IN (...)" clause.
// Zero survivors yield AlwaysFalsePredicate.
func CompilePredicate(column string, selected, allowed []string) string {
	allowSet := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		allowSet[a] = struct{}{}
	}

	seen := make(map[string]struct{})
	var survivors []string
	for _, candidate := range selected {
		c := NormalizeCategory(candidate)
		if _, ok := allowSet[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		survivors = append(survivors, c)
	}

	if len(survivors) == 0 {
		return AlwaysFalsePredicate
	}

	var b strings.Builder
	b.WriteString(column)
	b.WriteString(" IN (")
	for i, s := range survivors {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("'")
		b.WriteString(s)
		b.WriteString("'")
	}
	b.WriteString(")")
	return b.String()
}

// CategorySelection derives the caller's category selection for the
// current cycle: externally supplied structured filters on the category
// column take precedence; otherwise the distinct values observed in the
// rows are used. Values are normalized; order of first appearance is
// kept.
func CategorySelection(view DataView, roles ColumnRoleMap) []string {
	column := ColumnName(view.Columns, roles.CategoryFilter)

	if column != "" {
		for _, f := range view.Filters {
			if f.Column == column && len(f.Values) > 0 {
				return distinctNormalized(f.Values)
			}
		}
	}

	if roles.CategoryFilter == Unassigned {
		return nil
	}

	values := make([]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		if v, ok := cell(row, roles.CategoryFilter).(string); ok {
			values = append(values, v)
		}
	}
	return distinctNormalized(values)
}

func distinctNormalized(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		n := NormalizeCategory(v)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
