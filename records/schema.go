package records

import (
	"cmp"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field describes one column of a record type: how it renders as text, what
// value goes into an exported cell, and how two records compare on it.
type Field[T any] struct {
	Name    string
	Label   string
	Text    func(T) string
	Value   func(T) any
	Compare func(a, b T) int
}

// TextField is a free-text column. Comparison is case-insensitive.
func TextField[T any](name, label string, get func(T) string) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Text:  get,
		Value: func(v T) any { return get(v) },
		Compare: func(a, b T) int {
			return cmp.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
		},
	}
}

func IntField[T any](name, label string, get func(T) int) Field[T] {
	return Field[T]{
		Name:    name,
		Label:   label,
		Text:    func(v T) string { return strconv.Itoa(get(v)) },
		Value:   func(v T) any { return get(v) },
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

func FloatField[T any](name, label string, get func(T) float64) Field[T] {
	return Field[T]{
		Name:    name,
		Label:   label,
		Text:    func(v T) string { return strconv.FormatFloat(get(v), 'f', 2, 64) },
		Value:   func(v T) any { return get(v) },
		Compare: func(a, b T) int { return cmp.Compare(get(a), get(b)) },
	}
}

// DecimalField renders with two fraction digits and exports as float64 so
// spreadsheets keep the cell numeric.
func DecimalField[T any](name, label string, get func(T) decimal.Decimal) Field[T] {
	return Field[T]{
		Name:  name,
		Label: label,
		Text:  func(v T) string { return get(v).StringFixed(2) },
		Value: func(v T) any {
			f, _ := get(v).Float64()
			return f
		},
		Compare: func(a, b T) int { return get(a).Cmp(get(b)) },
	}
}

func DateField[T any](name, label string, get func(T) Date) Field[T] {
	return Field[T]{
		Name:    name,
		Label:   label,
		Text:    func(v T) string { return get(v).String() },
		Value:   func(v T) any { return get(v).String() },
		Compare: func(a, b T) int { return get(a).Compare(get(b)) },
	}
}

// Schema binds a record type to the generic engine.
type Schema[T any] struct {
	// Name is the module key used in routes, storage and authorization.
	Name  string
	Title string

	Fields       []Field[T]
	SearchFields []string
	// DateField is the field the From/To range applies to.
	DateField    string
	DefaultSort  string
	DefaultOrder string

	ID        func(T) string
	SetID     func(*T, string)
	Status    func(T) string
	SetStatus func(*T, string)

	InitialStatus string
	Transitions   map[string][]string

	// Normalize trims input and recomputes derived fields. Optional.
	Normalize func(*T)
	// Validate returns a *ValidationError for user-correctable problems.
	Validate func(T) error
}

// Field looks up a column by name.
func (s Schema[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// CanTransition reports whether the status graph allows from -> to.
func (s Schema[T]) CanTransition(from, to string) bool {
	for _, next := range s.Transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Statuses lists every status the graph mentions, sorted.
func (s Schema[T]) Statuses() []string {
	seen := map[string]struct{}{}
	if s.InitialStatus != "" {
		seen[s.InitialStatus] = struct{}{}
	}
	for from, tos := range s.Transitions {
		seen[from] = struct{}{}
		for _, to := range tos {
			seen[to] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for st := range seen {
		out = append(out, st)
	}
	sort.Strings(out)
	return out
}

// CanonicalStatus maps a case-insensitive status name onto the schema's
// spelling. The second result is false for unknown statuses.
func (s Schema[T]) CanonicalStatus(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, st := range s.Statuses() {
		if strings.EqualFold(st, raw) {
			return st, true
		}
	}
	return "", false
}

// PendingTransitions is the approval graph shared by most modules.
func PendingTransitions() map[string][]string {
	return map[string][]string{
		StatusPending:  {StatusApproved, StatusRejected},
		StatusRejected: {StatusPending},
	}
}

const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// TrimSpace trims each string in place. Normalize funcs use it on text input.
func TrimSpace(values ...*string) {
	for _, v := range values {
		*v = strings.TrimSpace(*v)
	}
}
