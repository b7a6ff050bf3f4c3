// Package department is the read-only catalog of departments and the record
// modules each one owns.
package department

// Department groups the dashboards shown under one menu entry.
type Department struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Modules []string `json:"modules"`
}
