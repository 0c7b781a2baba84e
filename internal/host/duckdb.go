package host

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/joeblew999/plat-crash/internal/panel"
)

// SourceFile describes one loadable crash data file.
type SourceFile struct {
	Name     string `json:"name" doc:"File name" example:"crashes_2024.csv"`
	Size     string `json:"size" doc:"Human-readable file size" example:"1.2 MB"`
	FileType string `json:"fileType" doc:"File type: CSV or Parquet" example:"CSV"`
}

// CrashSource reads crash data files through DuckDB and produces
// role-tagged datasets for the panel.
type CrashSource struct {
	db         *sql.DB
	sourcesDir string
}

// OpenCrashSource opens a DuckDB database under dataDir and points the
// source at dataDir/sources.
func OpenCrashSource(dataDir string) (*CrashSource, error) {
	duckdbDir := filepath.Join(dataDir, "duckdb")
	if err := os.MkdirAll(duckdbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
	}

	db, err := sql.Open("duckdb", filepath.Join(duckdbDir, "crash.duckdb"))
	if err != nil {
		return nil, err
	}

	for _, ext := range []string{"parquet"} {
		if _, err := db.Exec(fmt.Sprintf("INSTALL %s; LOAD %s;", ext, ext)); err != nil {
			// Extension might already be installed, continue
		}
	}

	return &CrashSource{
		db:         db,
		sourcesDir: filepath.Join(dataDir, "sources"),
	}, nil
}

// Close closes the database connection.
func (s *CrashSource) Close() error {
	return s.db.Close()
}

// List returns the loadable crash data files.
func (s *CrashSource) List() ([]SourceFile, error) {
	entries, err := os.ReadDir(s.sourcesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SourceFile{}, nil
		}
		return nil, err
	}

	extToType := map[string]string{
		".csv":     "CSV",
		".parquet": "Parquet",
	}

	var files []SourceFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		fileType, ok := extToType[ext]
		if !ok {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, SourceFile{
			Name:     entry.Name(),
			Size:     formatSize(info.Size()),
			FileType: fileType,
		})
	}

	return files, nil
}

// LoadDataView reads one source file into a role-tagged dataset. Role
// tags are assigned from well-known column names; the weight measure
// follows the selected metric so switching metrics retags rather than
// recomputes.
func (s *CrashSource) LoadDataView(ctx context.Context, filename string, settings Settings) (panel.DataView, error) {
	if strings.ContainsAny(filename, "/\\") || strings.Contains(filename, "..") {
		return panel.DataView{}, fmt.Errorf("invalid filename %q", filename)
	}

	path := filepath.Join(s.sourcesDir, filename)
	if _, err := os.Stat(path); err != nil {
		return panel.DataView{}, fmt.Errorf("source file: %w", err)
	}

	reader := "read_csv_auto"
	if strings.ToLower(filepath.Ext(filename)) == ".parquet" {
		reader = "read_parquet"
	}
	query := fmt.Sprintf("SELECT * FROM %s('%s')", reader, strings.ReplaceAll(path, "'", "''"))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return panel.DataView{}, fmt.Errorf("reading %s: %w", filename, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return panel.DataView{}, err
	}

	metric := panel.ResolveMetric(settings.SelectedMetric)
	columns := make([]panel.Column, len(names))
	for i, name := range names {
		columns[i] = panel.Column{Name: name, Roles: rolesFor(name, metric)}
	}

	var data []panel.Row
	for rows.Next() {
		values := make([]any, len(names))
		valuePtrs := make([]any, len(names))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			continue
		}
		data = append(data, panel.Row(values))
	}

	return panel.DataView{
		Columns: columns,
		Rows:    data,
		Metric:  string(metric),
	}, nil
}

// rolesFor tags a column by its name. The weight role lands on the
// column named after the active metric.
func rolesFor(name string, metric panel.Metric) []string {
	var roles []string
	switch strings.ToLower(name) {
	case "latitude", "lat":
		roles = append(roles, panel.RoleLatitude)
	case "longitude", "lon", "lng":
		roles = append(roles, panel.RoleLongitude)
	case "fips", "county_fips", "countyfips":
		roles = append(roles, panel.RoleRegionKey)
	case "route", "road":
		roles = append(roles, panel.RoleCategoryFilter)
	case "crashes", "crash_count":
		if metric == panel.MetricCrashes {
			roles = append(roles, panel.RoleWeightMeasure)
		}
	case "persons", "person_count":
		if metric == panel.MetricPersons {
			roles = append(roles, panel.RoleWeightMeasure)
		}
	}
	return roles
}

// formatSize returns a human-readable file size.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
