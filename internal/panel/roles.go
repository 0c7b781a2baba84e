package panel

// Semantic role tags the host attaches to columns.
const (
	RoleLatitude       = "latitude"
	RoleLongitude      = "longitude"
	RoleWeightMeasure  = "weightMeasure"
	RoleRegionKey      = "regionKey"
	RoleCategoryFilter = "categoryFilter"
)

// Unassigned marks a role with no column bound to it. Not an error by
// itself; the caller decides whether the cycle can proceed without it.
const Unassigned = -1

// ColumnRoleMap resolves each semantic role to a column index in the
// current dataset. Recomputed on every update because the host may
// reorder or omit columns at any time.
type ColumnRoleMap struct {
	Latitude       int
	Longitude      int
	WeightMeasure  int
	RegionKey      int
	CategoryFilter int
}

// BindRoles maps each role to the first column tagged with it. Pure
// function over the current column list.
func BindRoles(columns []Column) ColumnRoleMap {
	m := ColumnRoleMap{
		Latitude:       Unassigned,
		Longitude:      Unassigned,
		WeightMeasure:  Unassigned,
		RegionKey:      Unassigned,
		CategoryFilter: Unassigned,
	}

	for i, col := range columns {
		for _, role := range col.Roles {
			switch role {
			case RoleLatitude:
				if m.Latitude == Unassigned {
					m.Latitude = i
				}
			case RoleLongitude:
				if m.Longitude == Unassigned {
					m.Longitude = i
				}
			case RoleWeightMeasure:
				if m.WeightMeasure == Unassigned {
					m.WeightMeasure = i
				}
			case RoleRegionKey:
				if m.RegionKey == Unassigned {
					m.RegionKey = i
				}
			case RoleCategoryFilter:
				if m.CategoryFilter == Unassigned {
					m.CategoryFilter = i
				}
			}
		}
	}

	return m
}

// HasChoropleth reports whether the roles needed for aggregation and
// choropleth coloring are bound.
func (m ColumnRoleMap) HasChoropleth() bool {
	return m.RegionKey != Unassigned && m.WeightMeasure != Unassigned
}

// HasPoints reports whether the coordinate roles are bound.
func (m ColumnRoleMap) HasPoints() bool {
	return m.Latitude != Unassigned && m.Longitude != Unassigned
}

// ColumnName returns the name of the column at index i, or "".
func ColumnName(columns []Column, i int) string {
	if i < 0 || i >= len(columns) {
		return ""
	}
	return columns[i].Name
}
