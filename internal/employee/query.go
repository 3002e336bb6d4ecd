package employee

import (
	"cmp"
	"encoding/base64"
	"slices"
	"strconv"
	"strings"

	"github.com/frahmantamala/employee-directory/internal"
)

// DefaultPageSize applies when a window is given without First.
const DefaultPageSize = 10

type SortField string

const (
	SortFieldName       SortField = "NAME"
	SortFieldAge        SortField = "AGE"
	SortFieldHireDate   SortField = "HIRE_DATE"
	SortFieldDepartment SortField = "DEPARTMENT"
	SortFieldAttendance SortField = "ATTENDANCE"
)

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type AgeRange struct {
	Min *int
	Max *int
}

// Filter criteria are combined with AND. Empty strings and nil pointers are
// absent criteria.
type Filter struct {
	Name       string
	Department string
	Class      string
	IsActive   *bool
	AgeRange   *AgeRange
}

type Sort struct {
	Field     SortField
	Direction SortDirection
}

// Window is a cursor pagination request. A nil *Window returns everything as
// a single page.
type Window struct {
	First  *int
	After  *string
	Last   *int
	Before *string
}

type Query struct {
	Filter *Filter
	Sort   *Sort
	Window *Window
}

type Edge struct {
	Node   *Employee
	Cursor string
}

type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     *string
	EndCursor       *string
}

type Connection struct {
	Edges      []Edge
	PageInfo   PageInfo
	TotalCount int
}

// Run executes filter, sort and paginate over a snapshot of records.
func Run(employees []*Employee, q Query) (*Connection, error) {
	filtered := ApplyFilter(employees, q.Filter)
	sorted := ApplySort(filtered, q.Sort)
	return Paginate(sorted, q.Window)
}

func (f *Filter) Matches(e *Employee) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(f.Name)) {
		return false
	}
	if f.Department != "" && !strings.Contains(strings.ToLower(e.Department), strings.ToLower(f.Department)) {
		return false
	}
	if f.Class != "" && e.Class != f.Class {
		return false
	}
	if f.IsActive != nil && e.IsActive != *f.IsActive {
		return false
	}
	if f.AgeRange != nil {
		if f.AgeRange.Min != nil && e.Age < *f.AgeRange.Min {
			return false
		}
		if f.AgeRange.Max != nil && e.Age > *f.AgeRange.Max {
			return false
		}
	}
	return true
}

// ApplyFilter returns the records satisfying every supplied criterion, in
// input order. A nil filter is the identity.
func ApplyFilter(employees []*Employee, filter *Filter) []*Employee {
	if filter == nil {
		return employees
	}
	result := make([]*Employee, 0, len(employees))
	for _, e := range employees {
		if filter.Matches(e) {
			result = append(result, e)
		}
	}
	return result
}

// ApplySort returns a stably sorted copy. Ties keep input order in both
// directions. A nil sort is the identity.
func ApplySort(employees []*Employee, sort *Sort) []*Employee {
	if sort == nil {
		return employees
	}
	compare := comparator(sort.Field)
	if compare == nil {
		return employees
	}
	sorted := slices.Clone(employees)
	if sort.Direction == SortDesc {
		slices.SortStableFunc(sorted, func(a, b *Employee) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}

func comparator(field SortField) func(a, b *Employee) int {
	switch field {
	case SortFieldName:
		return func(a, b *Employee) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortFieldAge:
		return func(a, b *Employee) int { return cmp.Compare(a.Age, b.Age) }
	case SortFieldHireDate:
		return func(a, b *Employee) int { return a.HireDate.Compare(b.HireDate) }
	case SortFieldDepartment:
		return func(a, b *Employee) int {
			return strings.Compare(strings.ToLower(a.Department), strings.ToLower(b.Department))
		}
	case SortFieldAttendance:
		return func(a, b *Employee) int { return cmp.Compare(a.AttendancePercent(), b.AttendancePercent()) }
	default:
		return nil
	}
}

func EncodeCursor(position int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(position)))
}

func DecodeCursor(cursor string) (int, error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, internal.ErrInvalidCursor
	}
	position, err := strconv.Atoi(string(raw))
	if err != nil || position < 0 {
		return 0, internal.ErrInvalidCursor
	}
	return position, nil
}

func (w *Window) Validate() error {
	if w.First != nil && *w.First < 0 {
		return internal.NewValidationFieldError("first", "first must not be negative", internal.ErrCodeInvalidPageSize)
	}
	if w.Last != nil && *w.Last < 0 {
		return internal.NewValidationFieldError("last", "last must not be negative", internal.ErrCodeInvalidPageSize)
	}
	return nil
}

// Paginate slices the sequence by position. Cursors encode absolute positions
// in the input, so they are only meaningful against the same snapshot.
func Paginate(employees []*Employee, window *Window) (*Connection, error) {
	total := len(employees)

	if window == nil {
		return buildConnection(employees, 0, total, total, false, false), nil
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}

	first := DefaultPageSize
	if window.First != nil {
		first = *window.First
	}

	start, end := 0, total

	if window.After != nil {
		k, err := DecodeCursor(*window.After)
		if err != nil {
			return nil, err
		}
		start = min(k, total) + 1
	}
	if window.Before != nil {
		k, err := DecodeCursor(*window.Before)
		if err != nil {
			return nil, err
		}
		end = k
	}

	end = min(start+first, end)
	if window.Last != nil {
		start = max(end-*window.Last, start)
	}

	hasNext := end < total
	hasPrev := start > 0

	start = min(max(start, 0), total)
	end = min(max(end, start), total)

	return buildConnection(employees, start, end, total, hasNext, hasPrev), nil
}

func buildConnection(employees []*Employee, start, end, total int, hasNext, hasPrev bool) *Connection {
	edges := make([]Edge, 0, end-start)
	for p := start; p < end; p++ {
		edges = append(edges, Edge{Node: employees[p], Cursor: EncodeCursor(p)})
	}

	info := PageInfo{HasNextPage: hasNext, HasPreviousPage: hasPrev}
	if len(edges) > 0 {
		startCursor := edges[0].Cursor
		endCursor := edges[len(edges)-1].Cursor
		info.StartCursor = &startCursor
		info.EndCursor = &endCursor
	}

	return &Connection{
		Edges:      edges,
		PageInfo:   info,
		TotalCount: total,
	}
}
