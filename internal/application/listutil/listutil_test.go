package listutil

import (
	"net/url"
	"testing"
)

// TestParsePageParams tests defaults and whitelisting of per_page.
func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{"defaults", "", 1, DefaultPerPage},
		{"explicit", "page=3&per_page=50", 3, 50},
		{"zero page", "page=0", 1, DefaultPerPage},
		{"negative page", "page=-2", 1, DefaultPerPage},
		{"garbage page", "page=abc", 1, DefaultPerPage},
		{"per_page not in options", "per_page=33", 1, DefaultPerPage},
		{"per_page max option", "per_page=200", 1, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ParsePageParams(q)
			if got.Page != tt.wantPage || got.PerPage != tt.wantPerPage {
				t.Errorf("got %+v, want page=%d perPage=%d", got, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

// TestParseSortParams tests column whitelisting and direction normalisation.
func TestParseSortParams(t *testing.T) {
	allowed := []string{"email", "created_at"}
	tests := []struct {
		name     string
		query    string
		wantSort string
		wantDir  string
	}{
		{"empty", "", "", "asc"},
		{"allowed column", "sort=email&dir=desc", "email", "desc"},
		{"unlisted column dropped", "sort=password_hash&dir=desc", "", "desc"},
		{"bad dir coerced", "sort=created_at&dir=sideways", "created_at", "asc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			got := ParseSortParams(q, allowed)
			if got.Sort != tt.wantSort || got.Dir != tt.wantDir {
				t.Errorf("got %+v, want sort=%q dir=%q", got, tt.wantSort, tt.wantDir)
			}
		})
	}
}

// TestParseFilterParams tests that only recognised keys survive.
func TestParseFilterParams(t *testing.T) {
	q, _ := url.ParseQuery("q=asha&status=pending&role=admin&empty=")
	got := ParseFilterParams(q, []string{"status", "empty"})
	if got.Search != "asha" {
		t.Errorf("expected search asha, got %q", got.Search)
	}
	if got.Filters["status"] != "pending" {
		t.Errorf("expected status filter kept, got %+v", got.Filters)
	}
	if _, ok := got.Filters["role"]; ok {
		t.Error("expected unlisted key dropped")
	}
	if _, ok := got.Filters["empty"]; ok {
		t.Error("expected empty value dropped")
	}
}

// TestNewPageInfo tests total-page math and page clamping.
func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name           string
		page, perPage  int
		total          int
		wantPage       int
		wantTotalPages int
	}{
		{"empty result", 1, 20, 0, 1, 1},
		{"exact fit", 1, 20, 40, 1, 2},
		{"remainder adds page", 1, 20, 41, 1, 3},
		{"page clamped down", 9, 20, 41, 3, 3},
		{"page clamped up", 0, 20, 41, 1, 3},
		{"bad perPage defaulted", 1, 0, 41, 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewPageInfo(tt.page, tt.perPage, tt.total)
			if got.Page != tt.wantPage || got.TotalPages != tt.wantTotalPages {
				t.Errorf("got %+v, want page=%d totalPages=%d", got, tt.wantPage, tt.wantTotalPages)
			}
		})
	}
}

// TestOffset tests the page-to-offset mapping.
func TestOffset(t *testing.T) {
	if got := NewPageInfo(1, 20, 100).Offset(); got != 0 {
		t.Errorf("page 1: expected 0, got %d", got)
	}
	if got := NewPageInfo(3, 20, 100).Offset(); got != 40 {
		t.Errorf("page 3: expected 40, got %d", got)
	}
}
