package task

import (
	"errors"
	"testing"
)

func TestBuildOrderClause(t *testing.T) {
	tests := []struct {
		name    string
		sort    string
		want    string
		wantErr bool
	}{
		{
			name: "empty defaults to newest first",
			sort: "",
			want: "created_at DESC",
		},
		{
			name: "ascending due date",
			sort: "dueDate",
			want: "due_date ASC",
		},
		{
			name: "descending due date",
			sort: "-dueDate",
			want: "due_date DESC",
		},
		{
			name: "ascending created",
			sort: "createdAt",
			want: "created_at ASC",
		},
		{
			name: "priority sorts by rank",
			sort: "-priority",
			want: priorityRank + " DESC",
		},
		{
			name: "multiple fields",
			sort: "priority,-dueDate",
			want: priorityRank + " ASC, due_date DESC",
		},
		{
			name:    "unknown field",
			sort:    "bogus",
			wantErr: true,
		},
		{
			name:    "unknown field mixed with valid",
			sort:    "dueDate,bogus",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildOrderClause(tt.sort)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("BuildOrderClause(%q) expected error, got %q", tt.sort, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildOrderClause(%q) error = %v", tt.sort, err)
			}
			if got != tt.want {
				t.Errorf("BuildOrderClause(%q) = %q, want %q", tt.sort, got, tt.want)
			}
		})
	}
}

func TestPagination_Validate(t *testing.T) {
	tests := []struct {
		name    string
		page    Pagination
		wantErr error
	}{
		{
			name: "first page default limit",
			page: Pagination{Page: 1, Limit: DefaultLimit},
		},
		{
			name: "max limit",
			page: Pagination{Page: 1, Limit: MaxLimit},
		},
		{
			name:    "page zero",
			page:    Pagination{Page: 0, Limit: 10},
			wantErr: ErrInvalidPage,
		},
		{
			name:    "negative page",
			page:    Pagination{Page: -1, Limit: 10},
			wantErr: ErrInvalidPage,
		},
		{
			name:    "limit zero",
			page:    Pagination{Page: 1, Limit: 0},
			wantErr: ErrInvalidLimit,
		},
		{
			name:    "limit over max",
			page:    Pagination{Page: 1, Limit: 101},
			wantErr: ErrInvalidLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.page.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPagination_Offset(t *testing.T) {
	tests := []struct {
		page Pagination
		want int
	}{
		{Pagination{Page: 1, Limit: 10}, 0},
		{Pagination{Page: 2, Limit: 10}, 10},
		{Pagination{Page: 3, Limit: 25}, 50},
	}

	for _, tt := range tests {
		if got := tt.page.Offset(); got != tt.want {
			t.Errorf("Offset() for page %d limit %d = %d, want %d", tt.page.Page, tt.page.Limit, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{25, 10, 3},
		{100, 100, 1},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}
