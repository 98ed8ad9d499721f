package task

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultPage is the page used when the caller supplies none.
	DefaultPage = 1
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 10
	// MaxLimit is the largest allowed page size.
	MaxLimit = 100
)

var (
	// ErrInvalidPage is returned when the page number is below 1.
	ErrInvalidPage = errors.New("invalid page number")
	// ErrInvalidLimit is returned when the page size is out of range.
	ErrInvalidLimit = errors.New("limit must be between 1 and 100")
)

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
}

// Validate checks the pagination bounds.
func (p Pagination) Validate() error {
	if p.Page < 1 {
		return ErrInvalidPage
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

// Offset returns the row offset for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns the number of pages needed for total rows.
func TotalPages(total int64, limit int) int {
	return int((total + int64(limit) - 1) / int64(limit))
}

// priorityRank orders priorities by urgency rather than lexicographically,
// so that low < medium < high.
const priorityRank = "CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 END"

// sortColumns maps the caller-facing sort field names to ORDER BY
// expressions. These are the only sortable fields.
var sortColumns = map[string]string{
	"dueDate":   "due_date",
	"priority":  priorityRank,
	"createdAt": "created_at",
}

// BuildOrderClause translates a comma-separated sort specification into an
// ORDER BY clause. A leading "-" on a field selects descending order.
// The default ordering is newest created first.
func BuildOrderClause(sort string) (string, error) {
	if sort == "" {
		return "created_at DESC", nil
	}

	fields := strings.Split(sort, ",")
	clauses := make([]string, 0, len(fields))
	for _, field := range fields {
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		column, ok := sortColumns[field]
		if !ok {
			return "", fmt.Errorf("invalid sort field: %s", field)
		}
		clauses = append(clauses, column+" "+dir)
	}
	return strings.Join(clauses, ", "), nil
}

// TaskFilter restricts a task listing. UserID is always set; Priority and
// Status are optional equality filters.
type TaskFilter struct {
	UserID   string
	Priority string
	Status   string
}
