package records

import (
	"sort"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Query is the filter bar, sort toggle and pager of a listing.
type Query struct {
	// Search is matched against every schema SearchField; any hit counts.
	Search string
	// Match requires each field to contain the substring, case-insensitively.
	Match map[string]string
	// Exact requires each field to equal the value, case-insensitively.
	Exact  map[string]string
	Status string
	From   Date
	To     Date

	SortKey   string
	SortOrder string
	Page      int
	PageSize  int
}

// Page is one slice of a filtered, sorted listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Select filters and sorts items without paginating. The input slice is not
// modified.
func Select[T any](s Schema[T], items []T, q Query) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if matches(s, it, q) {
			out = append(out, it)
		}
	}
	sortItems(s, out, q.SortKey, q.SortOrder)
	return out
}

// Apply runs Select and then cuts the requested page.
func Apply[T any](s Schema[T], items []T, q Query) Page[T] {
	selected := Select(s, items, q)

	page, size := normalizePaging(q.Page, q.PageSize)
	total := len(selected)
	totalPages := (total + size - 1) / size

	// page-1 is compared before multiplying so huge pages cannot overflow.
	start, end := total, total
	if page-1 < totalPages {
		start = (page - 1) * size
		end = min(start+size, total)
	}

	return Page[T]{
		Items:      selected[start:end],
		Total:      total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

func normalizePaging(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func matches[T any](s Schema[T], it T, q Query) bool {
	if term := strings.TrimSpace(q.Search); term != "" {
		hit := false
		for _, name := range s.SearchFields {
			f, ok := s.Field(name)
			if ok && containsFold(f.Text(it), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	for name, term := range q.Match {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		f, ok := s.Field(name)
		if !ok || !containsFold(f.Text(it), term) {
			return false
		}
	}

	for name, want := range q.Exact {
		f, ok := s.Field(name)
		if !ok || !strings.EqualFold(strings.TrimSpace(f.Text(it)), strings.TrimSpace(want)) {
			return false
		}
	}

	if st := strings.TrimSpace(q.Status); st != "" && s.Status != nil {
		if !strings.EqualFold(s.Status(it), st) {
			return false
		}
	}

	if !q.From.IsZero() || !q.To.IsZero() {
		f, ok := s.Field(s.DateField)
		if !ok {
			return false
		}
		d, err := ParseDate(f.Text(it))
		if err != nil || d.IsZero() {
			return false
		}
		if !q.From.IsZero() && d.Before(q.From) {
			return false
		}
		if !q.To.IsZero() && d.After(q.To) {
			return false
		}
	}

	return true
}

func sortItems[T any](s Schema[T], items []T, key, order string) {
	f, ok := s.Field(key)
	if !ok {
		f, ok = s.Field(s.DefaultSort)
		if !ok {
			return
		}
	}

	order = strings.ToLower(strings.TrimSpace(order))
	if order != OrderAsc && order != OrderDesc {
		order = strings.ToLower(s.DefaultOrder)
	}
	desc := order == OrderDesc

	sort.SliceStable(items, func(i, j int) bool {
		c := f.Compare(items[i], items[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
