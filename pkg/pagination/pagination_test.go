package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/monitor/pkg/pagination"
	"github.com/JaimeStill/monitor/pkg/query"
)

func config() pagination.Config {
	return pagination.Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestPageRequestFromQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
		wantSearch   string
		wantSort     []query.SortField
	}{
		{"defaults", "", 1, 20, "", nil},
		{"explicit", "page=3&page_size=10", 3, 10, "", nil},
		{"clamped size", "page_size=500", 1, 100, "", nil},
		{"negative page", "page=-2", 1, 20, "", nil},
		{"garbage numbers", "page=abc&page_size=xyz", 1, 20, "", nil},
		{"search trimmed", "search=%20refund%20", 1, 20, "refund", nil},
		{
			"sort",
			"sort=-CreatedAt,Result",
			1, 20, "",
			[]query.SortField{{Field: "CreatedAt", Descending: true}, {Field: "Result"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req := pagination.PageRequestFromQuery(values, config())

			if req.Page != tt.wantPage || req.PageSize != tt.wantPageSize {
				t.Errorf("page/size: got %d/%d, want %d/%d", req.Page, req.PageSize, tt.wantPage, tt.wantPageSize)
			}

			gotSearch := ""
			if req.Search != nil {
				gotSearch = *req.Search
			}
			if gotSearch != tt.wantSearch {
				t.Errorf("search: got %q, want %q", gotSearch, tt.wantSearch)
			}

			if len(req.Sort) != len(tt.wantSort) {
				t.Fatalf("sort: got %v, want %v", req.Sort, tt.wantSort)
			}
			for i := range tt.wantSort {
				if req.Sort[i] != tt.wantSort[i] {
					t.Errorf("sort[%d]: got %v, want %v", i, req.Sort[i], tt.wantSort[i])
				}
			}
		})
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 4, PageSize: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("offset: got %d, want 75", got)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		pageSize  int
		wantPages int
	}{
		{"empty", 0, 20, 1},
		{"exact", 40, 20, 2},
		{"remainder", 41, 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := pagination.NewPageResult[string](nil, tt.total, 1, tt.pageSize)
			if res.TotalPages != tt.wantPages {
				t.Errorf("total pages: got %d, want %d", res.TotalPages, tt.wantPages)
			}
			if res.Data == nil {
				t.Error("data should be an empty slice, not nil")
			}
		})
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_PAGE_DEFAULT", "50")

	cfg := pagination.Config{}
	if err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_DEFAULT"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 100 {
		t.Errorf("got %+v", cfg)
	}

	bad := pagination.Config{DefaultPageSize: 200, MaxPageSize: 100}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error when default exceeds max")
	}
}
